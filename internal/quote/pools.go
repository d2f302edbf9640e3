package quote

// Pools maps a category or mood label to its quotes.
type Pools map[string][]string

// Categories are the user-selectable buckets, in menu order.
var Categories = []string{"focus", "calm", "growth", "life"}

// Moods are the time-of-day buckets picked by PolicyTimeOfDay.
var Moods = []string{"morning", "afternoon", "evening", "night"}

func DefaultPools() Pools {
	return Pools{
		"focus": {
			"Progress beats perfection.",
			"Consistency compounds.",
		},
		"calm": {
			"Calm is a superpower.",
			"Slow down to speed up.",
		},
		"growth": {
			"Growth feels uncomfortable for a reason.",
		},
		"life": {
			"Build a life you do not need to escape from.",
		},
		"morning": {
			"Start small. Start now.",
			"One good hour sets the day.",
			"Make the first thing the right thing.",
		},
		"afternoon": {
			"Keep the momentum, not the pressure.",
			"Halfway there is still moving.",
		},
		"evening": {
			"Close the loops you opened today.",
			"Rest is part of the work.",
		},
		"night": {
			"Let the day end. Tomorrow starts fresh.",
			"Quiet minds make clear mornings.",
		},
	}
}

// DefaultFallback is mixed into every pick when the generator is configured
// to union pools with it.
func DefaultFallback() []string {
	return []string{
		"Keep going.",
		"Small steps still count.",
		"You are doing better than you think.",
	}
}

// MoodForHour maps a clock hour (0-23) to a mood label.
func MoodForHour(h int) string {
	switch {
	case h >= 5 && h <= 11:
		return "morning"
	case h >= 12 && h <= 16:
		return "afternoon"
	case h >= 17 && h <= 20:
		return "evening"
	default:
		return "night"
	}
}
