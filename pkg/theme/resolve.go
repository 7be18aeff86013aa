package theme

import (
	"dario.cat/mergo"
)

// FontPartial overrides individual Font fields. Nil fields are left untouched.
type FontPartial struct {
	Family *string  `yaml:"family,omitempty"`
	Size   *float64 `yaml:"size,omitempty"`
	Weight *string  `yaml:"weight,omitempty"`
	Style  *string  `yaml:"style,omitempty"`
	Color  *string  `yaml:"color,omitempty"`
}

type AxisPartial struct {
	LineColor *string      `yaml:"lineColor,omitempty"`
	LineWidth *float64     `yaml:"lineWidth,omitempty"`
	Labels    *FontPartial `yaml:"labels,omitempty"`
	Title     *FontPartial `yaml:"title,omitempty"`
	GridColor *string      `yaml:"gridColor,omitempty"`
	GridWidth *float64     `yaml:"gridWidth,omitempty"`
	GridDash  []float64    `yaml:"gridDash,omitempty,flow"`
}

type LegendPartial struct {
	Labels          *FontPartial `yaml:"labels,omitempty"`
	SymbolSize      *float64     `yaml:"symbolSize,omitempty"`
	ItemSpacing     *float64     `yaml:"itemSpacing,omitempty"`
	Padding         *float64     `yaml:"padding,omitempty"`
	BackgroundColor *string      `yaml:"backgroundColor,omitempty"`
	BorderColor     *string      `yaml:"borderColor,omitempty"`
	BorderWidth     *float64     `yaml:"borderWidth,omitempty"`
	BorderRadius    *float64     `yaml:"borderRadius,omitempty"`
}

type ShadowPartial struct {
	Enabled *bool    `yaml:"enabled,omitempty"`
	Color   *string  `yaml:"color,omitempty"`
	Blur    *float64 `yaml:"blur,omitempty"`
	OffsetX *float64 `yaml:"offsetX,omitempty"`
	OffsetY *float64 `yaml:"offsetY,omitempty"`
}

type TooltipPartial struct {
	Text            *FontPartial   `yaml:"text,omitempty"`
	Title           *FontPartial   `yaml:"title,omitempty"`
	BackgroundColor *string        `yaml:"backgroundColor,omitempty"`
	BorderColor     *string        `yaml:"borderColor,omitempty"`
	BorderWidth     *float64       `yaml:"borderWidth,omitempty"`
	BorderRadius    *float64       `yaml:"borderRadius,omitempty"`
	Padding         *float64       `yaml:"padding,omitempty"`
	Shadow          *ShadowPartial `yaml:"shadow,omitempty"`
}

type MarkerPartial struct {
	Size    *float64 `yaml:"size,omitempty"`
	Enabled *bool    `yaml:"enabled,omitempty"`
}

type LineChartPartial struct {
	LineWidth *float64       `yaml:"lineWidth,omitempty"`
	Marker    *MarkerPartial `yaml:"marker,omitempty"`
}

type BarChartPartial struct {
	CornerRadius *float64 `yaml:"cornerRadius,omitempty"`
	MaxWidth     *float64 `yaml:"maxWidth,omitempty"`
}

type PieChartPartial struct {
	InnerRadius  *float64 `yaml:"innerRadius,omitempty"`
	PadAngle     *float64 `yaml:"padAngle,omitempty"`
	CornerRadius *float64 `yaml:"cornerRadius,omitempty"`
}

type ChartsPartial struct {
	Line       *LineChartPartial         `yaml:"line,omitempty"`
	Bar        *BarChartPartial          `yaml:"bar,omitempty"`
	Pie        *PieChartPartial          `yaml:"pie,omitempty"`
	Extensions map[string]map[string]any `yaml:",inline"`
}

// Partial is a sparse theme. Pointer leaves distinguish an explicit zero
// value from an omitted one; slices replace the base slice when non-nil.
type Partial struct {
	Name            *string         `yaml:"name,omitempty"`
	Description     *string         `yaml:"description,omitempty"`
	Font            *FontPartial    `yaml:"font,omitempty"`
	Title           *FontPartial    `yaml:"title,omitempty"`
	Subtitle        *FontPartial    `yaml:"subtitle,omitempty"`
	Colors          []string        `yaml:"colors,omitempty"`
	BackgroundColor *string         `yaml:"backgroundColor,omitempty"`
	XAxis           *AxisPartial    `yaml:"xAxis,omitempty"`
	YAxis           *AxisPartial    `yaml:"yAxis,omitempty"`
	Legend          *LegendPartial  `yaml:"legend,omitempty"`
	Tooltip         *TooltipPartial `yaml:"tooltip,omitempty"`
	Charts          *ChartsPartial  `yaml:"charts,omitempty"`
}

// Resolve merges overrides onto the default theme.
func Resolve(overrides Partial) Theme {
	return ResolveFrom(Default(), overrides)
}

// ResolveFrom merges overrides onto a copy of base. base is not modified.
func ResolveFrom(base Theme, overrides Partial) Theme {
	out := base.Clone()

	set(&out.Name, overrides.Name)
	set(&out.Description, overrides.Description)
	mergeFont(&out.Font, overrides.Font)
	mergeFont(&out.Title, overrides.Title)
	mergeFont(&out.Subtitle, overrides.Subtitle)
	if overrides.Colors != nil {
		out.Colors = append([]string(nil), overrides.Colors...)
	}
	set(&out.BackgroundColor, overrides.BackgroundColor)
	mergeAxis(&out.XAxis, overrides.XAxis)
	mergeAxis(&out.YAxis, overrides.YAxis)
	mergeLegend(&out.Legend, overrides.Legend)
	mergeTooltip(&out.Tooltip, overrides.Tooltip)
	mergeCharts(&out.Charts, overrides.Charts)

	return out
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func mergeFont(dst *Font, p *FontPartial) {
	if p == nil {
		return
	}
	set(&dst.Family, p.Family)
	set(&dst.Size, p.Size)
	set(&dst.Weight, p.Weight)
	set(&dst.Style, p.Style)
	set(&dst.Color, p.Color)
}

func mergeAxis(dst *Axis, p *AxisPartial) {
	if p == nil {
		return
	}
	set(&dst.LineColor, p.LineColor)
	set(&dst.LineWidth, p.LineWidth)
	mergeFont(&dst.Labels, p.Labels)
	mergeFont(&dst.Title, p.Title)
	set(&dst.GridColor, p.GridColor)
	set(&dst.GridWidth, p.GridWidth)
	if p.GridDash != nil {
		dst.GridDash = append([]float64(nil), p.GridDash...)
	}
}

func mergeLegend(dst *Legend, p *LegendPartial) {
	if p == nil {
		return
	}
	mergeFont(&dst.Labels, p.Labels)
	set(&dst.SymbolSize, p.SymbolSize)
	set(&dst.ItemSpacing, p.ItemSpacing)
	set(&dst.Padding, p.Padding)
	set(&dst.BackgroundColor, p.BackgroundColor)
	set(&dst.BorderColor, p.BorderColor)
	set(&dst.BorderWidth, p.BorderWidth)
	set(&dst.BorderRadius, p.BorderRadius)
}

func mergeTooltip(dst *Tooltip, p *TooltipPartial) {
	if p == nil {
		return
	}
	mergeFont(&dst.Text, p.Text)
	mergeFont(&dst.Title, p.Title)
	set(&dst.BackgroundColor, p.BackgroundColor)
	set(&dst.BorderColor, p.BorderColor)
	set(&dst.BorderWidth, p.BorderWidth)
	set(&dst.BorderRadius, p.BorderRadius)
	set(&dst.Padding, p.Padding)
	if s := p.Shadow; s != nil {
		set(&dst.Shadow.Enabled, s.Enabled)
		set(&dst.Shadow.Color, s.Color)
		set(&dst.Shadow.Blur, s.Blur)
		set(&dst.Shadow.OffsetX, s.OffsetX)
		set(&dst.Shadow.OffsetY, s.OffsetY)
	}
}

func mergeCharts(dst *Charts, p *ChartsPartial) {
	if p == nil {
		return
	}
	if l := p.Line; l != nil {
		set(&dst.Line.LineWidth, l.LineWidth)
		if m := l.Marker; m != nil {
			set(&dst.Line.Marker.Size, m.Size)
			set(&dst.Line.Marker.Enabled, m.Enabled)
		}
	}
	if b := p.Bar; b != nil {
		set(&dst.Bar.CornerRadius, b.CornerRadius)
		set(&dst.Bar.MaxWidth, b.MaxWidth)
	}
	if pie := p.Pie; pie != nil {
		set(&dst.Pie.InnerRadius, pie.InnerRadius)
		set(&dst.Pie.PadAngle, pie.PadAngle)
		set(&dst.Pie.CornerRadius, pie.CornerRadius)
	}
	mergeExtensions(dst, p.Extensions)
}

// mergeExtensions passes unknown chart-type sections through. A section the
// base already has is deep-merged with the override winning.
func mergeExtensions(dst *Charts, ext map[string]map[string]any) {
	if len(ext) == 0 {
		return
	}
	if dst.Extensions == nil {
		dst.Extensions = make(map[string]map[string]any, len(ext))
	}
	for name, section := range ext {
		existing, ok := dst.Extensions[name]
		if !ok {
			dst.Extensions[name] = copyMap(section)
			continue
		}
		merged := copyMap(existing)
		if err := mergo.Merge(&merged, copyMap(section), mergo.WithOverride); err != nil {
			// Maps of identical type always merge; keep the override on failure.
			merged = copyMap(section)
		}
		dst.Extensions[name] = merged
	}
}

func copyMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		return copyMap(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}

// MergeFont returns f with the non-nil fields of p applied.
func MergeFont(f Font, p *FontPartial) Font {
	mergeFont(&f, p)
	return f
}
