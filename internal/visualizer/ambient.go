package visualizer

import (
	"image/color"
	"math"

	"github.com/ItIsShivam/ItZShivam/internal/spectrum"
	"github.com/lucasb-eyer/go-colorful"
)

// Background is the ambient colour derived from one snapshot.
type Background struct {
	Bass    float64 // 0..1
	Hue     float64 // degrees
	Opacity float64 // 0..1
}

// Color returns the background colour with Opacity applied as alpha.
func (b Background) Color() color.Color {
	c := colorful.Hsl(b.Hue, 0.75, 0.55)
	r, g, bl := c.RGB255()
	return color.NRGBA{R: r, G: g, B: bl, A: uint8(math.Round(b.Opacity * 255))}
}

// Ambient turns bass energy into a hue/opacity pair. Smoothing blends each
// frame with the previous one; zero reacts to every frame unfiltered.
type Ambient struct {
	BaseHue    float64
	HueRange   float64
	MinOpacity float64
	MaxOpacity float64
	Smoothing  float64 // 0..1

	level  float64
	primed bool
}

func NewAmbient(smoothing float64) *Ambient {
	return &Ambient{
		BaseHue:    220,
		HueRange:   140,
		MinOpacity: 0.15,
		MaxOpacity: 0.75,
		Smoothing:  smoothing,
	}
}

func (a *Ambient) Update(s spectrum.Snapshot) Background {
	bass := s.Bass()
	k := math.Max(0, math.Min(a.Smoothing, 0.99))
	if !a.primed || k == 0 {
		a.level = bass
		a.primed = true
	} else {
		a.level = k*a.level + (1-k)*bass
	}
	return Background{
		Bass:    a.level,
		Hue:     math.Mod(a.BaseHue+a.level*a.HueRange, 360),
		Opacity: a.MinOpacity + a.level*(a.MaxOpacity-a.MinOpacity),
	}
}

// Paint draws bg as a radial glow centred on c. Canvases without gradient
// support get stacked translucent circles.
func (bg Background) Paint(c Canvas) {
	w, h := c.Size()
	r := math.Hypot(w, h) / 2
	col := bg.Color()
	if gc, ok := c.(GradientCanvas); ok {
		gc.FillRadialGradient(w/2, h/2, r, col)
		return
	}
	base := color.NRGBAModel.Convert(col).(color.NRGBA)
	const rings = 8
	for i := rings; i >= 1; i-- {
		ring := base
		ring.A = uint8(float64(base.A) / rings)
		c.FillCircle(w/2, h/2, r*float64(i)/rings, ring)
	}
}
