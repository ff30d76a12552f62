package ui

import (
	"strconv"
	"strings"

	"github.com/dvolkov/dvchat/internal/theme"
	"github.com/gdamore/tcell/v2"
)

// Palette holds the tcell colors derived from a theme's HSL tokens.
type Palette struct {
	Bg        tcell.Color
	Fg        tcell.Color
	Primary   tcell.Color
	Secondary tcell.Color
	Border    tcell.Color
	Title     tcell.Color
}

// FromTheme converts a theme's color tokens into a terminal palette.
// The foreground is picked for contrast against the background.
func FromTheme(t theme.Theme) *Palette {
	bg, bgLight := hslColor(t.Colors.Background)
	primary, _ := hslColor(t.Colors.Primary)
	secondary, _ := hslColor(t.Colors.Secondary)

	fg := tcell.NewRGBColor(235, 235, 235)
	if bgLight >= 0.5 {
		fg = tcell.NewRGBColor(20, 20, 20)
	}

	return &Palette{
		Bg:        bg,
		Fg:        fg,
		Primary:   primary,
		Secondary: secondary,
		Border:    secondary,
		Title:     primary,
	}
}

// hslColor parses an "H S% L%" token and returns the tcell color plus
// the lightness component.
func hslColor(token string) (tcell.Color, float64) {
	h, s, l := parseHSL(token)
	r, g, b := hslToRGB(h, s, l)
	return tcell.NewRGBColor(r, g, b), l
}

func parseHSL(token string) (h, s, l float64) {
	fields := strings.Fields(token)
	if len(fields) != 3 {
		return 0, 0, 0
	}
	h, _ = strconv.ParseFloat(fields[0], 64)
	s, _ = strconv.ParseFloat(strings.TrimSuffix(fields[1], "%"), 64)
	l, _ = strconv.ParseFloat(strings.TrimSuffix(fields[2], "%"), 64)
	return h, s / 100, l / 100
}

func hslToRGB(h, s, l float64) (r, g, b int32) {
	c := (1 - abs(2*l-1)) * s
	hp := h / 60
	x := c * (1 - abs(mod(hp, 2)-1))

	var r1, g1, b1 float64
	switch {
	case hp < 1:
		r1, g1, b1 = c, x, 0
	case hp < 2:
		r1, g1, b1 = x, c, 0
	case hp < 3:
		r1, g1, b1 = 0, c, x
	case hp < 4:
		r1, g1, b1 = 0, x, c
	case hp < 5:
		r1, g1, b1 = x, 0, c
	default:
		r1, g1, b1 = c, 0, x
	}

	m := l - c/2
	return int32((r1 + m) * 255), int32((g1 + m) * 255), int32((b1 + m) * 255)
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func mod(f, n float64) float64 {
	for f >= n {
		f -= n
	}
	for f < 0 {
		f += n
	}
	return f
}
