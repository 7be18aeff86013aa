// Package surface adapts gg drawing backends to the small immediate-mode
// API chart renderers draw through.
package surface

import (
	"github.com/alexisbeaulieu97/bizcharts/pkg/theme"
)

// Align is the horizontal anchor of drawn text.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// ParseAlign maps "left", "center" and "right" onto Align, defaulting to def.
func ParseAlign(s string, def Align) Align {
	switch s {
	case "left", "start":
		return AlignLeft
	case "center", "middle":
		return AlignCenter
	case "right", "end":
		return AlignRight
	default:
		return def
	}
}

func (a Align) anchor() float64 {
	switch a {
	case AlignCenter:
		return 0.5
	case AlignRight:
		return 1
	default:
		return 0
	}
}

// Surface is an immediate-mode 2D canvas. Paths accumulate until Fill or
// Stroke consumes them. The global alpha multiplies every color set after
// it.
type Surface interface {
	Width() int
	Height() int

	Scale(sx, sy float64)
	SetColor(c theme.Color)
	SetGlobalAlpha(a float64)
	SetLineWidth(w float64)
	SetDash(lengths ...float64)

	MoveTo(x, y float64)
	LineTo(x, y float64)
	ClosePath()
	NewSubPath()
	DrawCircle(x, y, r float64)
	DrawRectangle(x, y, w, h float64)

	Fill() error
	Stroke() error
	FillRect(x, y, w, h float64) error

	SetFont(f theme.Font)
	DrawText(s string, x, y float64, align Align)
}

// paint holds the style state shared by the adapters.
type paint struct {
	color theme.Color
	alpha float64
}

func newPaint() paint {
	return paint{color: theme.Black, alpha: 1}
}

func (p paint) effective() theme.Color {
	c := p.color
	c.A *= p.alpha
	return c
}
