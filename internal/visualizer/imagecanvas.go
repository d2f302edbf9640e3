package visualizer

import (
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
)

// ImageCanvas rasterizes into an in-memory RGBA image.
type ImageCanvas struct {
	dc         *gg.Context
	background color.Color
	lineWidth  float64
}

func NewImageCanvas(w, h int, background color.Color) *ImageCanvas {
	c := &ImageCanvas{dc: gg.NewContext(w, h), background: background, lineWidth: 1.5}
	c.Clear()
	return c
}

func (c *ImageCanvas) Size() (float64, float64) {
	return float64(c.dc.Width()), float64(c.dc.Height())
}

func (c *ImageCanvas) Clear() {
	c.dc.SetColor(c.background)
	c.dc.Clear()
}

func (c *ImageCanvas) FillRect(x, y, w, h float64, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawRectangle(x, y, w, h)
	c.dc.Fill()
}

func (c *ImageCanvas) Line(x0, y0, x1, y1 float64, col color.Color) {
	c.dc.SetColor(col)
	c.dc.SetLineWidth(c.lineWidth)
	c.dc.DrawLine(x0, y0, x1, y1)
	c.dc.Stroke()
}

func (c *ImageCanvas) Polyline(pts []Point, col color.Color) {
	if len(pts) < 2 {
		return
	}
	c.dc.SetColor(col)
	c.dc.SetLineWidth(c.lineWidth)
	c.dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		c.dc.LineTo(p.X, p.Y)
	}
	c.dc.Stroke()
}

func (c *ImageCanvas) FillCircle(cx, cy, r float64, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawCircle(cx, cy, r)
	c.dc.Fill()
}

func (c *ImageCanvas) FillRadialGradient(cx, cy, r float64, col color.Color) {
	grad := gg.NewRadialGradient(cx, cy, 0, cx, cy, r)
	grad.AddColorStop(0, col)
	grad.AddColorStop(1, color.Transparent)
	c.dc.SetFillStyle(grad)
	c.dc.DrawRectangle(0, 0, float64(c.dc.Width()), float64(c.dc.Height()))
	c.dc.Fill()
}

func (c *ImageCanvas) Image() image.Image {
	return c.dc.Image()
}

func (c *ImageCanvas) EncodePNG(w io.Writer) error {
	return c.dc.EncodePNG(w)
}

func (c *ImageCanvas) SavePNG(path string) error {
	return c.dc.SavePNG(path)
}
