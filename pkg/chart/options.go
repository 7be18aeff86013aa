package chart

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/alexisbeaulieu97/bizcharts/pkg/data"
	"github.com/alexisbeaulieu97/bizcharts/pkg/theme"
)

// TextOptions configures a title or subtitle. Style overrides the theme
// font for that text.
type TextOptions struct {
	Text  string             `yaml:"text"`
	Align string             `yaml:"align,omitempty" validate:"omitempty,oneof=left center right"`
	Style *theme.FontPartial `yaml:"style,omitempty"`
}

// LegendOptions configures the legend. Position and Align are accepted for
// hosts with richer layouts; the base renderer always draws a top row.
type LegendOptions struct {
	Show     *bool  `yaml:"show,omitempty"`
	Position string `yaml:"position,omitempty" validate:"omitempty,oneof=top right bottom left"`
	Align    string `yaml:"align,omitempty" validate:"omitempty,oneof=start center end"`
}

// AnimationOptions is advisory; the renderer draws the final frame only.
type AnimationOptions struct {
	Enabled  bool   `yaml:"enabled"`
	Duration int    `yaml:"duration,omitempty" validate:"gte=0"` // milliseconds
	Easing   string `yaml:"easing,omitempty"`
}

// TooltipOptions is advisory; tooltips belong to interactive hosts.
type TooltipOptions struct {
	Enabled bool                  `yaml:"enabled"`
	Format  string                `yaml:"format,omitempty"`
	Custom  func(data.Row) string `yaml:"-"`
}

// ChartOptions are shared by every chart type.
type ChartOptions struct {
	Title     *TextOptions      `yaml:"title,omitempty"`
	Subtitle  *TextOptions      `yaml:"subtitle,omitempty"`
	Legend    *LegendOptions    `yaml:"legend,omitempty"`
	Animation *AnimationOptions `yaml:"animation,omitempty"`
	Tooltip   *TooltipOptions   `yaml:"tooltip,omitempty"`
}

// Options is implemented by the option types of every chart kind.
type Options interface {
	Common() ChartOptions
}

// XAxisOptions configures the category axis. Format is a Go time layout for
// date values and a fmt verb for numbers.
type XAxisOptions struct {
	Field  string   `yaml:"field,omitempty"`
	Type   string   `yaml:"type,omitempty" validate:"omitempty,oneof=category value time"`
	Title  string   `yaml:"title,omitempty"`
	Grid   bool     `yaml:"grid,omitempty"`
	Min    *float64 `yaml:"min,omitempty"`
	Max    *float64 `yaml:"max,omitempty"`
	Format string   `yaml:"format,omitempty"`
}

// YAxisOptions configures the value axis. Min and Max replace the computed
// bounds; Format is a fmt verb for tick labels, %g when empty.
type YAxisOptions struct {
	Title  string   `yaml:"title,omitempty"`
	Grid   bool     `yaml:"grid,omitempty"`
	Min    *float64 `yaml:"min,omitempty"`
	Max    *float64 `yaml:"max,omitempty"`
	Format string   `yaml:"format,omitempty"`
}

// MarkerOptions configures point markers. A nil Show defers to the theme.
type MarkerOptions struct {
	Show  *bool    `yaml:"show,omitempty"`
	Size  *float64 `yaml:"size,omitempty" validate:"omitempty,gt=0"`
	Shape string   `yaml:"shape,omitempty" validate:"omitempty,oneof=circle square triangle diamond"`
}

// AreaOptions fills the region between a series and the baseline.
type AreaOptions struct {
	Show    bool     `yaml:"show"`
	Opacity *float64 `yaml:"opacity,omitempty" validate:"omitempty,gte=0,lte=1"`
	Color   string   `yaml:"color,omitempty" validate:"omitempty,color"`
}

// SeriesSpec binds one numeric field to a drawn line.
type SeriesSpec struct {
	Field     string         `yaml:"field" validate:"required"`
	Name      string         `yaml:"name,omitempty"`
	Color     string         `yaml:"color,omitempty" validate:"omitempty,color"`
	LineWidth *float64       `yaml:"lineWidth,omitempty" validate:"omitempty,gt=0"`
	LineStyle string         `yaml:"lineStyle,omitempty" validate:"omitempty,oneof=solid dashed dotted"`
	Marker    *MarkerOptions `yaml:"marker,omitempty"`
	Area      *AreaOptions   `yaml:"area,omitempty"`
}

// Label is the legend text of the series.
func (s SeriesSpec) Label() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Field
}

// SeriesList decodes from either a single series mapping or a sequence.
type SeriesList []SeriesSpec

// UnmarshalYAML accepts both `series: {field: x}` and `series: [{field: x}]`.
func (l *SeriesList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		var single SeriesSpec
		if err := node.Decode(&single); err != nil {
			return err
		}
		*l = SeriesList{single}
		return nil
	case yaml.SequenceNode:
		var many []SeriesSpec
		if err := node.Decode(&many); err != nil {
			return err
		}
		*l = many
		return nil
	default:
		return fmt.Errorf("line %d: series must be a mapping or a list", node.Line)
	}
}

// StepOptions is accepted and validated but not drawn.
type StepOptions struct {
	Show     bool   `yaml:"show"`
	Position string `yaml:"position,omitempty" validate:"omitempty,oneof=start middle end"`
}

// LineOptions configures a line chart. Stacked, Smooth and Step are
// accepted and validated; the renderer draws straight, unstacked lines.
type LineOptions struct {
	ChartOptions `yaml:",inline"`

	XAxis   *XAxisOptions `yaml:"xAxis,omitempty"`
	YAxis   *YAxisOptions `yaml:"yAxis,omitempty"`
	Series  SeriesList    `yaml:"series" validate:"min=1,dive"`
	Stacked bool          `yaml:"stacked,omitempty"`
	Smooth  bool          `yaml:"smooth,omitempty"`
	Step    *StepOptions  `yaml:"step,omitempty"`
}

// Common implements Options.
func (o LineOptions) Common() ChartOptions {
	return o.ChartOptions
}

// RenderOptions tune a single render. Zero fields fall back to the chart's
// stored defaults. Animate, Responsive, Watermark, Locale and
// AccessibilityEnabled are carried for hosts and not interpreted here.
type RenderOptions struct {
	Width                int     `yaml:"width,omitempty" validate:"gte=0"`
	Height               int     `yaml:"height,omitempty" validate:"gte=0"`
	Animate              bool    `yaml:"animate,omitempty"`
	Responsive           bool    `yaml:"responsive,omitempty"`
	DevicePixelRatio     float64 `yaml:"pixel_ratio,omitempty" validate:"gte=0"`
	BaseFontSize         float64 `yaml:"base_font_size,omitempty" validate:"gte=0"`
	BackgroundColor      string  `yaml:"background,omitempty" validate:"omitempty,color"`
	Watermark            bool    `yaml:"watermark,omitempty"`
	Locale               string  `yaml:"locale,omitempty"`
	AccessibilityEnabled bool    `yaml:"accessibility,omitempty"`
}

// ExportOptions tune Export. Quality is the JPEG quality ratio in (0, 1],
// 0.9 when zero.
type ExportOptions struct {
	Quality float64 `yaml:"quality,omitempty" validate:"gte=0,lte=1"`
}
