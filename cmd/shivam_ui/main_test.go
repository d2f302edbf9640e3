package main

import (
	"image"
	"strings"
	"testing"
	"time"

	"github.com/ItIsShivam/ItZShivam/internal/quote"
)

func TestQuoteAlpha(t *testing.T) {
	start := time.Unix(100, 0)
	fade := 200 * time.Millisecond
	tests := []struct {
		fading bool
		after  time.Duration
		want   float64
	}{
		{false, 0, 0},
		{false, 100 * time.Millisecond, 0.5},
		{false, time.Second, 1},
		{true, 0, 1},
		{true, 50 * time.Millisecond, 0.75},
		{true, time.Second, 0},
	}
	for _, tt := range tests {
		v := quote.View{Text: "x", Fading: tt.fading, Changed: start}
		if got := quoteAlpha(v, start.Add(tt.after), fade); got != tt.want {
			t.Errorf("quoteAlpha(fading=%v, +%v) = %v, want %v", tt.fading, tt.after, got, tt.want)
		}
	}
	if got := quoteAlpha(quote.View{Changed: start}, start, 0); got != 1 {
		t.Errorf("zero fade alpha = %v", got)
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("the quick brown fox jumps over the lazy dog", 12)
	for _, l := range lines {
		if len([]rune(l)) > 12 {
			t.Fatalf("line %q exceeds width", l)
		}
	}
	if got := strings.Join(lines, " "); got != "the quick brown fox jumps over the lazy dog" {
		t.Fatalf("rejoined = %q", got)
	}
	if got := wrapText("abcdefghij", 4); len(got) != 3 || got[0] != "abcd" {
		t.Fatalf("hard break = %q", got)
	}
}

func TestLayoutFitsMinimumWindow(t *testing.T) {
	l := layoutRects(0, 0)
	bounds := image.Rect(0, 0, minWindowW, minWindowH)
	for name, r := range map[string]image.Rectangle{
		"viz": l.viz, "quote": l.quote, "tracks": l.tracks, "eq": l.eq, "progress": l.progress,
		"play": l.play, "volume": l.volume, "status": l.status,
	} {
		if r.Empty() || !r.In(bounds) {
			t.Fatalf("%s = %v outside %v", name, r, bounds)
		}
	}
	if l.viz.Overlaps(l.tracks) || l.tracks.Overlaps(l.eq) || l.eq.Overlaps(l.progress) ||
		l.quote.Overlaps(l.progress) || l.vizBtn.Overlaps(l.volume) {
		t.Fatal("panels overlap")
	}
	if l.volumeTrack.Dx() < 20 {
		t.Fatalf("volume track too narrow: %v", l.volumeTrack)
	}
}

func TestTrackRowAt(t *testing.T) {
	l := layoutRects(minWindowW, minWindowH)
	top := l.tracks.Min.Y + 12 + lineH + 4
	if got := l.trackRowAt(top - 1); got != -1 {
		t.Fatalf("above list = %d", got)
	}
	if got := l.trackRowAt(top); got != 0 {
		t.Fatalf("first row = %d", got)
	}
	if got := l.trackRowAt(top + trackRowH*2 + 1); got != 2 {
		t.Fatalf("third row = %d", got)
	}
}

func TestSliderFrac(t *testing.T) {
	track := image.Rect(100, 0, 300, 8)
	for x, want := range map[int]float64{50: 0, 100: 0, 200: 0.5, 300: 1, 400: 1} {
		if got := sliderFrac(x, track); got != want {
			t.Errorf("sliderFrac(%d) = %v, want %v", x, got, want)
		}
	}
}

func TestNextCategoryCycles(t *testing.T) {
	c := quote.Auto
	seen := map[string]bool{}
	for range len(quote.Categories) + 1 {
		seen[c] = true
		c = nextCategory(c)
	}
	if c != quote.Auto || len(seen) != len(quote.Categories)+1 {
		t.Fatalf("cycle ended at %q after %d categories", c, len(seen))
	}
}

func TestEQHitTesting(t *testing.T) {
	rect := image.Rect(0, 0, 520, 120)
	inner := eqBands(rect)
	bandW := inner.Dx() / 5
	if got := eqBandAt(inner.Min.X-1, rect); got != -1 {
		t.Fatalf("left of bands = %d", got)
	}
	if got := eqBandAt(inner.Min.X+bandW*2+1, rect); got != 2 {
		t.Fatalf("third band = %d", got)
	}
	if got := eqBandAt(inner.Max.X+50, rect); got != -1 {
		t.Fatalf("right of bands = %d", got)
	}
	if got := eqGainAt(inner.Min.Y, rect); got != 2 {
		t.Fatalf("top gain = %v", got)
	}
	if got := eqGainAt(inner.Max.Y+10, rect); got != 0 {
		t.Fatalf("bottom gain = %v", got)
	}
}
