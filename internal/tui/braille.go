package tui

import (
	"image/color"
	"math"
	"strings"

	"github.com/ItIsShivam/ItZShivam/internal/visualizer"
)

// Braille dot positions (col, row) → bit offset:
//
//	(0,0)=0  (1,0)=3
//	(0,1)=1  (1,1)=4
//	(0,2)=2  (1,2)=5
//	(0,3)=6  (1,3)=7
var brailleBits = [2][4]uint{
	{0, 1, 2, 6},
	{3, 4, 5, 7},
}

// BrailleCanvas is a visualizer.Canvas where every pixel is one braille dot,
// so a cols x rows cell area has 2*cols x 4*rows pixels. Colour is ignored.
type BrailleCanvas struct {
	cols, rows int
	dots       []bool
}

var _ visualizer.Canvas = (*BrailleCanvas)(nil)

func NewBrailleCanvas(cols, rows int) *BrailleCanvas {
	c := &BrailleCanvas{}
	c.Resize(cols, rows)
	return c
}

func (c *BrailleCanvas) Resize(cols, rows int) {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	c.cols, c.rows = cols, rows
	c.dots = make([]bool, cols*2*rows*4)
}

func (c *BrailleCanvas) dotW() int { return c.cols * 2 }
func (c *BrailleCanvas) dotH() int { return c.rows * 4 }

func (c *BrailleCanvas) Size() (float64, float64) {
	return float64(c.dotW()), float64(c.dotH())
}

func (c *BrailleCanvas) Clear() {
	clear(c.dots)
}

func (c *BrailleCanvas) set(x, y int) {
	if x < 0 || y < 0 || x >= c.dotW() || y >= c.dotH() {
		return
	}
	c.dots[y*c.dotW()+x] = true
}

func (c *BrailleCanvas) FillRect(x, y, w, h float64, _ color.Color) {
	x0, y0 := int(math.Floor(x)), int(math.Floor(y))
	x1, y1 := int(math.Ceil(x+w)), int(math.Ceil(y+h))
	for yy := y0; yy < y1; yy++ {
		for xx := x0; xx < x1; xx++ {
			c.set(xx, yy)
		}
	}
}

func (c *BrailleCanvas) Line(x0, y0, x1, y1 float64, _ color.Color) {
	steps := int(math.Ceil(math.Max(math.Abs(x1-x0), math.Abs(y1-y0))))
	if steps == 0 {
		c.set(int(x0), int(y0))
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		c.set(int(math.Round(x0+(x1-x0)*t)), int(math.Round(y0+(y1-y0)*t)))
	}
}

func (c *BrailleCanvas) Polyline(pts []visualizer.Point, col color.Color) {
	for i := 1; i < len(pts); i++ {
		c.Line(pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y, col)
	}
	if len(pts) == 1 {
		c.set(int(pts[0].X), int(pts[0].Y))
	}
}

func (c *BrailleCanvas) FillCircle(cx, cy, r float64, _ color.Color) {
	if r <= 0 {
		return
	}
	for y := int(math.Floor(cy - r)); y <= int(math.Ceil(cy+r)); y++ {
		for x := int(math.Floor(cx - r)); x <= int(math.Ceil(cx+r)); x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			if dx*dx+dy*dy <= r*r {
				c.set(x, y)
			}
		}
	}
}

// String renders the canvas as rows of braille characters.
func (c *BrailleCanvas) String() string {
	rows := make([]string, c.rows)
	w := c.dotW()
	for row := range c.rows {
		var line strings.Builder
		for col := range c.cols {
			var pattern uint
			for dx := range 2 {
				for dy := range 4 {
					if c.dots[(row*4+dy)*w+col*2+dx] {
						pattern |= 1 << brailleBits[dx][dy]
					}
				}
			}
			line.WriteRune(rune(0x2800 + pattern))
		}
		rows[row] = line.String()
	}
	return strings.Join(rows, "\n")
}
