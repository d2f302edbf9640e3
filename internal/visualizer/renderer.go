package visualizer

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/ItIsShivam/ItZShivam/internal/spectrum"
)

type Mode string

const (
	ModeBars      Mode = "bars"
	ModeWave      Mode = "wave"
	ModeRadial    Mode = "radial"
	ModePulse     Mode = "pulse"
	ModeEqualizer Mode = "equalizer"
)

var Modes = []Mode{ModeBars, ModeWave, ModeRadial, ModePulse, ModeEqualizer}

func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Modes {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid visualizer mode %q (expected bars|wave|radial|pulse|equalizer)", s)
}

// Next returns the mode after m in cycle order.
func (m Mode) Next() Mode {
	for i, known := range Modes {
		if known == m {
			return Modes[(i+1)%len(Modes)]
		}
	}
	return Modes[0]
}

type Style struct {
	Bar  color.Color
	Line color.Color
}

func DefaultStyle() Style {
	return Style{
		Bar:  color.RGBA{80, 200, 255, 230},
		Line: color.RGBA{255, 255, 255, 230},
	}
}

// Renderer paints one spectrum snapshot per call in the selected mode.
type Renderer struct {
	Mode      Mode
	BarPitch  float64 // horizontal distance between samples
	BarWidth  float64
	Scale     float64 // pixels per magnitude unit for bars and wave
	Style     Style
	Equalizer Equalizer
}

func NewRenderer(mode Mode, style Style) *Renderer {
	return &Renderer{
		Mode:      mode,
		BarPitch:  3,
		BarWidth:  2,
		Scale:     0.5,
		Style:     style,
		Equalizer: DefaultEqualizer(),
	}
}

// Render clears c and draws s.
func (r *Renderer) Render(c Canvas, s spectrum.Snapshot) {
	c.Clear()
	if len(s) == 0 {
		return
	}
	switch r.Mode {
	case ModeWave:
		r.drawWave(c, s)
	case ModeRadial:
		r.drawRadial(c, s)
	case ModePulse:
		r.drawPulse(c, s)
	case ModeEqualizer:
		r.drawEqualizer(c, s)
	default:
		r.drawBars(c, s)
	}
}

func (r *Renderer) drawBars(c Canvas, s spectrum.Snapshot) {
	w, h := c.Size()
	for i, v := range s {
		x := float64(i) * r.BarPitch
		if x >= w {
			break
		}
		barH := float64(v) * r.Scale
		if barH <= 0 {
			continue
		}
		c.FillRect(x, h-barH, r.BarWidth, barH, r.Style.Bar)
	}
}

func (r *Renderer) drawWave(c Canvas, s spectrum.Snapshot) {
	_, h := c.Size()
	pts := make([]Point, len(s))
	for i, v := range s {
		pts[i] = Point{X: float64(i) * r.BarPitch, Y: h - float64(v)*r.Scale}
	}
	c.Polyline(pts, r.Style.Line)
}

func (r *Renderer) drawRadial(c Canvas, s spectrum.Snapshot) {
	w, h := c.Size()
	cx, cy := w/2, h/2
	maxR := math.Min(w, h) / 2
	n := float64(len(s))
	for i, v := range s {
		length := float64(v) / 255 * maxR
		if length <= 0 {
			continue
		}
		angle := float64(i) / n * 2 * math.Pi
		c.Line(cx, cy, cx+length*math.Cos(angle), cy+length*math.Sin(angle), r.Style.Bar)
	}
}

func (r *Renderer) drawPulse(c Canvas, s spectrum.Snapshot) {
	w, h := c.Size()
	radius := s.Bass() * math.Min(w, h) / 2
	if radius <= 0 {
		return
	}
	c.FillCircle(w/2, h/2, radius, r.Style.Bar)
}

func (r *Renderer) drawEqualizer(c Canvas, s spectrum.Snapshot) {
	w, h := c.Size()
	heights := r.Equalizer.Heights(s, h)
	if len(heights) == 0 {
		return
	}
	slot := w / float64(len(heights))
	gap := slot * 0.2
	for i, bh := range heights {
		c.FillRect(float64(i)*slot+gap/2, h-bh, slot-gap, bh, r.Style.Bar)
	}
}

// Equalizer maps a fixed set of bars onto single snapshot bins.
type Equalizer struct {
	Bars  int
	Floor float64 // minimum visible bar height in pixels
}

func DefaultEqualizer() Equalizer {
	return Equalizer{Bars: 8, Floor: 4}
}

// Indices returns the snapshot bin each bar reads, spread over the lower half
// of a snapshot of n bins.
func (e Equalizer) Indices(n int) []int {
	if e.Bars <= 0 || n <= 0 {
		return nil
	}
	span := n / 2
	if span < e.Bars {
		span = n
	}
	idx := make([]int, e.Bars)
	for i := range idx {
		idx[i] = i * span / e.Bars
		if idx[i] >= n {
			idx[i] = n - 1
		}
	}
	return idx
}

// Heights returns one bar height per bar, never below Floor.
func (e Equalizer) Heights(s spectrum.Snapshot, maxHeight float64) []float64 {
	idx := e.Indices(len(s))
	out := make([]float64, len(idx))
	for i, bin := range idx {
		bh := float64(s[bin]) / 255 * maxHeight
		out[i] = math.Max(bh, e.Floor)
	}
	return out
}
