// Package scale maps data values onto plot-area pixel coordinates.
package scale

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/alexisbeaulieu97/bizcharts/pkg/data"
)

// Padding is the fixed gap, in pixels, between the chart edge and the plot
// area on every side.
const Padding = 50.0

// paddingRatio widens computed domains on both sides.
const paddingRatio = 0.1

// Bounds is a closed numeric domain.
type Bounds struct {
	Min float64
	Max float64
}

// Range carries optional user overrides for either end of a domain.
type Range struct {
	Min *float64
	Max *float64
}

// Coerce converts v to a number the way loosely typed chart data expects:
// numbers pass through, booleans are 1 or 0, times become Unix milliseconds
// and strings are parsed after trimming, with the empty string being 0.
// Anything else is invalid.
func Coerce(v any) (float64, bool) {
	if f, ok := data.AsFloat(v); ok {
		return f, !math.IsNaN(f)
	}
	switch typed := v.(type) {
	case bool:
		if typed {
			return 1, true
		}
		return 0, true
	case time.Time:
		return float64(typed.UnixMilli()), true
	case string:
		s := strings.TrimSpace(typed)
		if s == "" {
			return 0, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) {
			return math.NaN(), false
		}
		return f, true
	default:
		return math.NaN(), false
	}
}

// Values coerces field across rows. Invalid entries are NaN and flagged
// false in the returned mask.
func Values(rows []data.Row, field string) ([]float64, []bool) {
	values := make([]float64, len(rows))
	valid := make([]bool, len(rows))
	for i, r := range rows {
		values[i], valid[i] = Coerce(r[field])
	}
	return values, valid
}

// Extent returns the minimum and maximum valid value of field.
func Extent(rows []data.Row, field string) (float64, float64, bool) {
	lo, hi := math.Inf(1), math.Inf(-1)
	found := false
	for _, r := range rows {
		v, ok := Coerce(r[field])
		if !ok {
			continue
		}
		found = true
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if !found {
		return 0, 0, false
	}
	return lo, hi, true
}

// Domain computes padded bounds for field. The lower bound never drops
// below zero through padding. Each end of override replaces the computed
// value as is. Without valid values the domain is [0, 1].
func Domain(rows []data.Row, field string, override Range) Bounds {
	b := Bounds{Min: 0, Max: 1}
	if lo, hi, ok := Extent(rows, field); ok {
		span := hi - lo
		b.Min = math.Max(0, lo-span*paddingRatio)
		b.Max = hi + span*paddingRatio
	}
	if override.Min != nil {
		b.Min = *override.Min
	}
	if override.Max != nil {
		b.Max = *override.Max
	}
	return b
}

// Plot is the drawable area inside the fixed padding.
type Plot struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// NewPlot derives the plot area of a width x height chart.
func NewPlot(width, height float64) Plot {
	return Plot{
		Left:   Padding,
		Top:    Padding,
		Width:  width - 2*Padding,
		Height: height - 2*Padding,
	}
}

func (p Plot) Right() float64  { return p.Left + p.Width }
func (p Plot) Bottom() float64 { return p.Top + p.Height }

// X places point index of count evenly across the plot width. A single
// point sits at the horizontal centre.
func (p Plot) X(index, count int) float64 {
	if count <= 1 {
		return p.Left + p.Width/2
	}
	return p.Left + float64(index)/float64(count-1)*p.Width
}

// Y maps value into the plot, with b.Min on the bottom edge. A degenerate
// domain (Min == Max) draws every value on the vertical middle.
func (p Plot) Y(value float64, b Bounds) float64 {
	span := b.Max - b.Min
	if span == 0 {
		return p.Top + p.Height/2
	}
	return p.Bottom() - (value-b.Min)/span*p.Height
}

// Ticks returns n+1 evenly spaced values from b.Min to b.Max.
func Ticks(b Bounds, n int) []float64 {
	if n < 1 {
		return []float64{b.Min}
	}
	step := (b.Max - b.Min) / float64(n)
	ticks := make([]float64, n+1)
	for i := range ticks {
		ticks[i] = b.Min + step*float64(i)
	}
	ticks[n] = b.Max
	return ticks
}
