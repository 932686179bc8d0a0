// Package palette maps building classes to colors and labels shared by every
// rendering surface.
package palette

import (
	"image/color"
	"strings"
)

// Fixed UI colors.
var (
	Background  = color.RGBA{R: 0x0d, G: 0x12, B: 0x1b, A: 0xff}
	GridLine    = color.RGBA{R: 0x1b, G: 0x22, B: 0x30, A: 0xff}
	Outline     = color.RGBA{R: 0x20, G: 0x2a, B: 0x38, A: 0xff}
	Hover       = color.RGBA{R: 0x57, G: 0xdc, B: 0xfd, A: 0xff}
	Range       = color.RGBA{R: 0x57, G: 0xdc, B: 0xfd, A: 0xff}
	RangeStroke = color.RGBA{R: 0x2a, G: 0xa5, B: 0xc7, A: 0xff}
	Tower       = color.RGBA{R: 0x0b, G: 0x10, B: 0x18, A: 0xff}
	Label       = color.RGBA{R: 0xe7, G: 0xeb, B: 0xf3, A: 0xff}
	Invalid     = color.RGBA{R: 0xe0, G: 0x4a, B: 0x4a, A: 0xff}
)

var classColors = map[string]color.RGBA{
	"wall":    {R: 0x39, G: 0x40, B: 0x50, A: 0xff},
	"tower":   {R: 0x3a, G: 0x6f, B: 0xf2, A: 0xff},
	"archer":  {R: 0x3a, G: 0x6f, B: 0xf2, A: 0xff},
	"cannon":  {R: 0xc9, G: 0x5b, B: 0x3d, A: 0xff},
	"mortar":  {R: 0x8a, G: 0x6c, B: 0xff, A: 0xff},
	"sorcery": {R: 0xe4, G: 0x6a, B: 0xd2, A: 0xff},
	"wizard":  {R: 0xe4, G: 0x6a, B: 0xd2, A: 0xff},
	"tesla":   {R: 0x38, G: 0xe0, B: 0xb9, A: 0xff},
	"mine":    {R: 0x8b, G: 0x9a, B: 0xa7, A: 0xff},
	"th":      {R: 0xfd, G: 0xcb, B: 0x57, A: 0xff},
	"aa":      {R: 0x57, G: 0xdc, B: 0xfd, A: 0xff},
	"airdef":  {R: 0x57, G: 0xdc, B: 0xfd, A: 0xff},
}

var fallback = color.RGBA{R: 0x6b, G: 0x7c, B: 0x8f, A: 0xff}

// ClassColor returns the fill color for a visual class.
func ClassColor(cls string) color.RGBA {
	if c, ok := classColors[cls]; ok {
		return c
	}
	return fallback
}

// WithAlpha returns c with its alpha channel scaled by a (0..1).
func WithAlpha(c color.RGBA, a float64) color.RGBA {
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	// premultiplied
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(float64(c.A) * a),
	}
}

// Abbrev returns up to three upper-case initials of a building name,
// splitting on spaces and dashes.
func Abbrev(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool { return r == ' ' || r == '-' })
	if len(words) > 3 {
		words = words[:3]
	}
	var b strings.Builder
	for _, w := range words {
		b.WriteString(strings.ToUpper(string([]rune(w)[:1])))
	}
	return b.String()
}
