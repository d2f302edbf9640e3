package theme

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/ItIsShivam/ItZShivam/internal/visualizer"
	"github.com/charmbracelet/lipgloss"
)

type Name string

const (
	Dark  Name = "dark"
	Light Name = "light"
)

func Parse(s string) (Name, error) {
	switch Name(strings.ToLower(strings.TrimSpace(s))) {
	case Dark, "":
		return Dark, nil
	case Light:
		return Light, nil
	}
	return "", fmt.Errorf("invalid theme %q (expected dark|light)", s)
}

func (n Name) Toggle() Name {
	if n == Light {
		return Dark
	}
	return Light
}

type Palette struct {
	Name        Name
	Background  color.RGBA
	Panel       color.RGBA
	Text        color.RGBA
	Muted       color.RGBA
	Accent      color.RGBA
	Bar         color.RGBA
	Line        color.RGBA
	Button      color.RGBA
	ButtonHover color.RGBA
	Error       color.RGBA
}

var palettes = map[Name]Palette{
	Dark: {
		Name:        Dark,
		Background:  color.RGBA{0x0f, 0x12, 0x1a, 0xff},
		Panel:       color.RGBA{0x1b, 0x20, 0x2c, 0xff},
		Text:        color.RGBA{0xf2, 0xf4, 0xf8, 0xff},
		Muted:       color.RGBA{0x8a, 0x93, 0xa6, 0xff},
		Accent:      color.RGBA{0x50, 0xc8, 0xff, 0xff},
		Bar:         color.RGBA{0x50, 0xc8, 0xff, 0xe6},
		Line:        color.RGBA{0xff, 0xff, 0xff, 0xe6},
		Button:      color.RGBA{0x2a, 0x31, 0x42, 0xff},
		ButtonHover: color.RGBA{0x3a, 0x44, 0x5c, 0xff},
		Error:       color.RGBA{0xff, 0x6b, 0x6b, 0xff},
	},
	Light: {
		Name:        Light,
		Background:  color.RGBA{0xf5, 0xf6, 0xfa, 0xff},
		Panel:       color.RGBA{0xff, 0xff, 0xff, 0xff},
		Text:        color.RGBA{0x1c, 0x21, 0x2b, 0xff},
		Muted:       color.RGBA{0x6b, 0x72, 0x80, 0xff},
		Accent:      color.RGBA{0x25, 0x63, 0xeb, 0xff},
		Bar:         color.RGBA{0x25, 0x63, 0xeb, 0xd9},
		Line:        color.RGBA{0x1c, 0x21, 0x2b, 0xd9},
		Button:      color.RGBA{0xe3, 0xe6, 0xee, 0xff},
		ButtonHover: color.RGBA{0xd0, 0xd5, 0xe2, 0xff},
		Error:       color.RGBA{0xc0, 0x39, 0x2b, 0xff},
	},
}

func For(n Name) Palette {
	if p, ok := palettes[n]; ok {
		return p
	}
	return palettes[Dark]
}

// Visualizer returns the renderer style for this palette.
func (p Palette) Visualizer() visualizer.Style {
	return visualizer.Style{Bar: p.Bar, Line: p.Line}
}

func hex(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

// Styles are the terminal renditions of a palette.
type Styles struct {
	Title    lipgloss.Style
	Text     lipgloss.Style
	Muted    lipgloss.Style
	Accent   lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Quote    lipgloss.Style
}

func (p Palette) Styles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(hex(p.Accent)),
		Text:     lipgloss.NewStyle().Foreground(hex(p.Text)),
		Muted:    lipgloss.NewStyle().Foreground(hex(p.Muted)),
		Accent:   lipgloss.NewStyle().Foreground(hex(p.Bar)),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(hex(p.Panel)).Background(hex(p.Accent)),
		Error:    lipgloss.NewStyle().Bold(true).Foreground(hex(p.Error)),
		Quote: lipgloss.NewStyle().Italic(true).Foreground(hex(p.Text)).
			Border(lipgloss.RoundedBorder()).BorderForeground(hex(p.Accent)).Padding(0, 2),
	}
}
