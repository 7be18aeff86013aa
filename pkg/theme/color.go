package theme

import (
	"fmt"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a straight-alpha color with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// Black is the fallback for unparseable colors.
var Black = Color{A: 1}

var namedColors = map[string]Color{
	"transparent": {},
	"black":       {A: 1},
	"white":       {R: 1, G: 1, B: 1, A: 1},
	"red":         {R: 1, A: 1},
	"green":       {G: 128.0 / 255, A: 1},
	"blue":        {B: 1, A: 1},
	"gray":        {R: 128.0 / 255, G: 128.0 / 255, B: 128.0 / 255, A: 1},
	"grey":        {R: 128.0 / 255, G: 128.0 / 255, B: 128.0 / 255, A: 1},
}

// ParseColor parses #rgb, #rrggbb, rgb(r, g, b), rgba(r, g, b, a) and a few
// CSS color names.
func ParseColor(s string) (Color, error) {
	value := strings.ToLower(strings.TrimSpace(s))
	if value == "" {
		return Black, fmt.Errorf("empty color")
	}

	if named, ok := namedColors[value]; ok {
		return named, nil
	}

	if strings.HasPrefix(value, "#") {
		c, err := colorful.Hex(value)
		if err != nil {
			return Black, fmt.Errorf("parse color %q: %w", s, err)
		}
		return Color{R: c.R, G: c.G, B: c.B, A: 1}, nil
	}

	var args string
	var wantAlpha bool
	switch {
	case strings.HasPrefix(value, "rgba(") && strings.HasSuffix(value, ")"):
		args, wantAlpha = value[len("rgba("):len(value)-1], true
	case strings.HasPrefix(value, "rgb(") && strings.HasSuffix(value, ")"):
		args = value[len("rgb(") : len(value)-1]
	default:
		return Black, fmt.Errorf("unsupported color %q", s)
	}

	parts := strings.Split(args, ",")
	if (wantAlpha && len(parts) != 4) || (!wantAlpha && len(parts) != 3) {
		return Black, fmt.Errorf("parse color %q: wrong number of components", s)
	}

	comps := make([]float64, len(parts))
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return Black, fmt.Errorf("parse color %q: %w", s, err)
		}
		if i < 3 {
			f = clamp(f, 0, 255) / 255
		} else {
			f = clamp(f, 0, 1)
		}
		comps[i] = f
	}

	c := Color{R: comps[0], G: comps[1], B: comps[2], A: 1}
	if wantAlpha {
		c.A = comps[3]
	}
	return c, nil
}

// Hex formats the color as #rrggbb, dropping alpha.
func (c Color) Hex() string {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
