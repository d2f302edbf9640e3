package visualizer

import "image/color"

type Point struct {
	X, Y float64
}

// Canvas is the drawing surface a host hands to the renderer.
type Canvas interface {
	Size() (w, h float64)
	Clear()
	FillRect(x, y, w, h float64, c color.Color)
	Line(x0, y0, x1, y1 float64, c color.Color)
	Polyline(pts []Point, c color.Color)
	FillCircle(cx, cy, r float64, c color.Color)
}

// GradientCanvas is implemented by canvases that can paint a radial gradient
// fading from c at the centre to transparent at radius r.
type GradientCanvas interface {
	Canvas
	FillRadialGradient(cx, cy, r float64, c color.Color)
}
