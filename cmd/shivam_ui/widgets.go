package main

import (
	"image"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	textScale = 2
	charW     = 7 * textScale
	lineH     = 14 * textScale
)

var (
	bevelLight  = color.RGBA{255, 255, 255, 60}
	bevelDarker = color.RGBA{0, 0, 0, 110}
)

func fillRect(dst *ebiten.Image, x, y, w, h float64, c color.Color) {
	vector.DrawFilledRect(dst, float32(x), float32(y), float32(w), float32(h), c, false)
}

func (g *game) drawPanel(screen *ebiten.Image, rect image.Rectangle) {
	fillRect(screen, float64(rect.Min.X), float64(rect.Min.Y), float64(rect.Dx()), float64(rect.Dy()), g.palette.Panel)
	drawBorder(screen, rect)
}

func (g *game) drawSunkenPanel(screen *ebiten.Image, rect image.Rectangle) {
	fillRect(screen, float64(rect.Min.X), float64(rect.Min.Y), float64(rect.Dx()), float64(rect.Dy()), g.palette.Background)
	drawSunkenBorder(screen, rect)
}

func (g *game) drawButton(screen *ebiten.Image, rect image.Rectangle, label string, hover bool) {
	fill := g.palette.Button
	if hover {
		fill = g.palette.ButtonHover
	}
	fillRect(screen, float64(rect.Min.X), float64(rect.Min.Y), float64(rect.Dx()), float64(rect.Dy()), fill)
	drawBorder(screen, rect)
	labelW := len([]rune(label)) * charW
	x := rect.Min.X + (rect.Dx()-labelW)/2
	y := rect.Min.Y + (rect.Dy()-lineH)/2
	g.drawText(screen, label, x, y, g.palette.Text, 1)
}

// drawBorder draws a raised bevel (highlight top/left, shadow bottom/right).
func drawBorder(screen *ebiten.Image, rect image.Rectangle) {
	x := float64(rect.Min.X)
	y := float64(rect.Min.Y)
	w := float64(rect.Dx())
	h := float64(rect.Dy())
	fillRect(screen, x, y, w-1, 1, bevelLight)
	fillRect(screen, x, y+1, 1, h-2, bevelLight)
	fillRect(screen, x, y+h-1, w, 1, bevelDarker)
	fillRect(screen, x+w-1, y, 1, h, bevelDarker)
}

// drawSunkenBorder draws a sunken bevel (shadow top/left, highlight bottom/right).
func drawSunkenBorder(screen *ebiten.Image, rect image.Rectangle) {
	x := float64(rect.Min.X)
	y := float64(rect.Min.Y)
	w := float64(rect.Dx())
	h := float64(rect.Dy())
	fillRect(screen, x, y, w-1, 1, bevelDarker)
	fillRect(screen, x, y+1, 1, h-2, bevelDarker)
	fillRect(screen, x, y+h-1, w, 1, bevelLight)
	fillRect(screen, x+w-1, y, 1, h, bevelLight)
}

// drawSlider draws a groove with a filled part and a raised knob at frac.
func (g *game) drawSlider(screen *ebiten.Image, track image.Rectangle, frac float64) {
	x, y := float64(track.Min.X), float64(track.Min.Y)
	w, h := float64(track.Dx()), float64(track.Dy())
	fillRect(screen, x, y, w, h, bevelDarker)
	fillW := w * clamp(frac, 0, 1)
	if fillW > 2 {
		fillRect(screen, x+1, y+1, fillW-1, h-2, g.palette.Accent)
	}
	knobX := int(x+fillW) - 5
	knob := image.Rect(knobX, track.Min.Y-4, knobX+10, track.Max.Y+4)
	fillRect(screen, float64(knob.Min.X), float64(knob.Min.Y), float64(knob.Dx()), float64(knob.Dy()), g.palette.Button)
	drawBorder(screen, knob)
}

// drawText draws msg with the debug font, tinted to c and faded by alpha.
func (g *game) drawText(screen *ebiten.Image, msg string, x, y int, c color.Color, alpha float64) {
	if msg == "" || alpha <= 0 {
		return
	}
	img := g.textCache[msg]
	if img == nil {
		w := max(1, len([]rune(msg))*7)
		img = ebiten.NewImage(w, 14)
		ebitenutil.DebugPrintAt(img, msg, 0, 0)
		if len(g.textCache) > 3000 {
			g.textCache = make(map[string]*ebiten.Image, 1024)
		}
		g.textCache[msg] = img
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(textScale, textScale)
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(c)
	op.ColorScale.ScaleAlpha(float32(alpha))
	screen.DrawImage(img, op)
}

// wrapText breaks s into lines of at most maxChars runes, preferring spaces.
func wrapText(s string, maxChars int) []string {
	if maxChars < 1 {
		maxChars = 1
	}
	var out []string
	for _, raw := range strings.Split(s, "\n") {
		rest := []rune(raw)
		for len(rest) > maxChars {
			cut := maxChars
			breakAt := cut
			for breakAt > 0 && rest[breakAt-1] != ' ' {
				breakAt--
			}
			if breakAt > maxChars/3 {
				cut = breakAt
			}
			line := strings.TrimRight(string(rest[:cut]), " ")
			if line == "" {
				line = string(rest[:cut])
			}
			out = append(out, line)
			rest = []rune(strings.TrimLeft(string(rest[cut:]), " "))
		}
		out = append(out, string(rest))
	}
	return out
}

func shortenEnd(s string, maxChars int) string {
	r := []rune(s)
	if len(r) <= maxChars {
		return s
	}
	if maxChars <= 3 {
		return string(r[:max(0, maxChars)])
	}
	return string(r[:maxChars-3]) + "..."
}

func clamp(v, minV, maxV float64) float64 {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}
