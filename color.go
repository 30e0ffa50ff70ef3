package slidefx

import (
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultColor is the accent color used when a slide supplies none or an
// unparsable one.
const DefaultColor = "#949494"

// ParseColor parses a CSS-style hex color: #rgb, #rrggbb or #rrggbbaa.
// ok is false when s is not one of those forms.
func ParseColor(s string) (c Color, ok bool) {
	s = strings.TrimSpace(s)
	alpha := 1.0
	if len(s) == 9 && s[0] == '#' {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Color{}, false
		}
		alpha = float64(a) / 255
		s = s[:7]
	}
	if (len(s) != 4 && len(s) != 7) || s[0] != '#' {
		return Color{}, false
	}
	cf, err := colorful.Hex(s)
	if err != nil {
		return Color{}, false
	}
	return Color{R: cf.R, G: cf.G, B: cf.B, A: alpha}, true
}

// ColorOrDefault parses s and falls back to DefaultColor.
func ColorOrDefault(s string) Color {
	if c, ok := ParseColor(s); ok {
		return c
	}
	c, _ := ParseColor(DefaultColor)
	return c
}

// MustColor parses a color literal and panics if it is malformed.
// Intended for package-level palettes.
func MustColor(s string) Color {
	c, ok := ParseColor(s)
	if !ok {
		panic("slidefx: invalid color literal " + strconv.Quote(s))
	}
	return c
}

// Blend mixes a toward b in Lab space by t in [0, 1]. Alpha is interpolated
// linearly.
func (c Color) Blend(b Color, t float64) Color {
	t = clamp01(t)
	ca := colorful.Color{R: c.R, G: c.G, B: c.B}
	cb := colorful.Color{R: b.R, G: b.G, B: b.B}
	m := ca.BlendLab(cb, t).Clamped()
	return Color{R: m.R, G: m.G, B: m.B, A: lerp(c.A, b.A, t)}
}
