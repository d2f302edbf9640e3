package main

import (
	"fmt"
	"image"

	"github.com/ItIsShivam/ItZShivam/internal/audio"
	"github.com/hajimehoshi/ebiten/v2"
)

var eqBandLabels = [audio.Bands]string{"Lo", "LoM", "Mid", "HiM", "Hi"}

const eqLabelH = lineH + 8

// eqBands is the band area below the panel caption.
func eqBands(rect image.Rectangle) image.Rectangle {
	return image.Rect(rect.Min.X+8, rect.Min.Y+eqLabelH, rect.Max.X-8, rect.Max.Y-8)
}

func (g *game) drawEQ(screen *ebiten.Image, rect image.Rectangle) {
	g.drawPanel(screen, rect)
	g.drawText(screen, "EQ", rect.Min.X+8, rect.Min.Y+4, g.palette.Muted, 1)

	inner := eqBands(rect)
	bandW := inner.Dx() / audio.Bands
	if bandW < 10 || inner.Dy() <= 8 {
		return
	}
	tone := g.app.Element.Tone()
	for i := range audio.Bands {
		bx := inner.Min.X + i*bandW
		bw := bandW - 4
		bh := inner.Dy()

		fillRect(screen, float64(bx+bw/2-2), float64(inner.Min.Y), 4, float64(bh), bevelDarker)
		centerY := inner.Min.Y + bh/2
		fillRect(screen, float64(bx), float64(centerY), float64(bw), 1, g.palette.Muted)

		// gain 0..2 maps bottom..top
		frac := clamp(tone.Gain(i)/2, 0, 1)
		knobY := inner.Min.Y + bh - int(frac*float64(bh)) - 4
		knob := image.Rect(bx+2, knobY, bx+bw-2, knobY+8)
		fillRect(screen, float64(knob.Min.X), float64(knob.Min.Y), float64(knob.Dx()), float64(knob.Dy()), g.palette.Button)
		drawBorder(screen, knob)
	}
}

func (g *game) clickEQ(mx, my int, rect image.Rectangle) {
	band := eqBandAt(mx, rect)
	if band < 0 {
		return
	}
	g.draggingEQ = band
	g.dragEQ(my, rect)
}

func (g *game) dragEQ(my int, rect image.Rectangle) {
	band := g.draggingEQ
	if band < 0 || band >= audio.Bands {
		return
	}
	gain := eqGainAt(my, rect)
	if err := g.app.Element.Tone().SetGain(band, gain); err != nil {
		g.setError(err.Error())
		return
	}
	g.setStatus(fmt.Sprintf("EQ %s: %.1f", eqBandLabels[band], gain))
}

// eqBandAt maps an x coordinate to a band index, or -1.
func eqBandAt(mx int, rect image.Rectangle) int {
	inner := eqBands(rect)
	bandW := inner.Dx() / audio.Bands
	if bandW <= 0 {
		return -1
	}
	if mx < inner.Min.X {
		return -1
	}
	idx := (mx - inner.Min.X) / bandW
	if idx >= audio.Bands {
		return -1
	}
	return idx
}

// eqGainAt maps a y coordinate to a gain: top is 2, bottom is 0.
func eqGainAt(my int, rect image.Rectangle) float64 {
	inner := eqBands(rect)
	if inner.Dy() <= 0 {
		return 1
	}
	return 2 * (1 - clamp(float64(my-inner.Min.Y)/float64(inner.Dy()), 0, 1))
}
