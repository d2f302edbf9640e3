package main

import (
	"image/color"

	"github.com/ItIsShivam/ItZShivam/internal/visualizer"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// screenCanvas is a visualizer.Canvas over an offscreen ebiten image. The
// image is swapped on resize so renderers can keep the same canvas.
type screenCanvas struct {
	img *ebiten.Image
}

var _ visualizer.Canvas = (*screenCanvas)(nil)

func newScreenCanvas(w, h int) *screenCanvas {
	c := &screenCanvas{}
	c.resize(w, h)
	return c
}

func (c *screenCanvas) resize(w, h int) {
	w, h = max(1, w), max(1, h)
	if c.img != nil {
		b := c.img.Bounds()
		if b.Dx() == w && b.Dy() == h {
			return
		}
		c.img.Deallocate()
	}
	c.img = ebiten.NewImage(w, h)
}

func (c *screenCanvas) Size() (float64, float64) {
	b := c.img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func (c *screenCanvas) Clear() { c.img.Clear() }

func (c *screenCanvas) FillRect(x, y, w, h float64, col color.Color) {
	vector.DrawFilledRect(c.img, float32(x), float32(y), float32(w), float32(h), col, false)
}

func (c *screenCanvas) Line(x0, y0, x1, y1 float64, col color.Color) {
	vector.StrokeLine(c.img, float32(x0), float32(y0), float32(x1), float32(y1), 1.5, col, true)
}

func (c *screenCanvas) Polyline(pts []visualizer.Point, col color.Color) {
	for i := 1; i < len(pts); i++ {
		c.Line(pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y, col)
	}
}

func (c *screenCanvas) FillCircle(cx, cy, r float64, col color.Color) {
	if r <= 0 {
		return
	}
	vector.DrawFilledCircle(c.img, float32(cx), float32(cy), float32(r), col, true)
}
