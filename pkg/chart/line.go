package chart

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/alexisbeaulieu97/bizcharts/pkg/data"
	"github.com/alexisbeaulieu97/bizcharts/pkg/scale"
	"github.com/alexisbeaulieu97/bizcharts/pkg/surface"
	"github.com/alexisbeaulieu97/bizcharts/pkg/theme"
)

const (
	legendItemWidth = 100.0
	legendSwatch    = 15.0
	titleBaseline   = 25.0
	yTickCount      = 5
	maxXLabels      = 12
	defaultOpacity  = 0.2
)

var lineDashes = map[string][]float64{
	"dashed": {5, 5},
	"dotted": {2, 2},
}

// frame is everything one draw pass needs. Draws are pure functions of a
// frame, so the same frame can be replayed onto another surface.
type frame struct {
	rows   []data.Row
	fields []data.Field
	theme  theme.Theme
	render RenderOptions
	width  float64
	height float64
}

type renderer interface {
	draw(s surface.Surface, f frame) error
}

type lineRenderer struct {
	opts   LineOptions
	logger zerolog.Logger
}

func (r *lineRenderer) draw(s surface.Surface, f frame) error {
	plot := scale.NewPlot(f.width, f.height)

	steps := []func(surface.Surface, frame, scale.Plot) error{
		r.drawBackground,
		r.drawAxes,
		r.drawSeries,
		r.drawLegend,
		r.drawSubtitle,
		r.drawTitle,
	}
	for _, step := range steps {
		if err := step(s, f, plot); err != nil {
			return err
		}
	}
	return nil
}

func (r *lineRenderer) drawBackground(s surface.Surface, f frame, _ scale.Plot) error {
	bg := f.theme.BackgroundColor
	if f.render.BackgroundColor != "" {
		bg = f.render.BackgroundColor
	}
	s.SetColor(r.color(bg))
	return s.FillRect(0, 0, f.width, f.height)
}

func (r *lineRenderer) yRange() scale.Range {
	if r.opts.YAxis == nil {
		return scale.Range{}
	}
	return scale.Range{Min: r.opts.YAxis.Min, Max: r.opts.YAxis.Max}
}

func (r *lineRenderer) xField(f frame) string {
	if r.opts.XAxis != nil && r.opts.XAxis.Field != "" {
		return r.opts.XAxis.Field
	}
	if len(f.fields) > 0 {
		return f.fields[0].Name
	}
	return ""
}

func (r *lineRenderer) drawAxes(s surface.Surface, f frame, plot scale.Plot) error {
	th := f.theme
	xAxis, yAxis := r.opts.XAxis, r.opts.YAxis
	n := len(f.rows)

	var ticks []float64
	var bounds scale.Bounds
	if len(r.opts.Series) > 0 {
		bounds = scale.Domain(f.rows, r.opts.Series[0].Field, r.yRange())
		ticks = scale.Ticks(bounds, yTickCount)
	}

	if yAxis != nil && yAxis.Grid && len(ticks) > 0 {
		r.stroke(s, th.YAxis.GridColor, th.YAxis.GridWidth, th.YAxis.GridDash)
		for _, tick := range ticks {
			y := plot.Y(tick, bounds)
			s.MoveTo(plot.Left, y)
			s.LineTo(plot.Right(), y)
		}
		if err := s.Stroke(); err != nil {
			return err
		}
	}
	if xAxis != nil && xAxis.Grid && n > 0 {
		r.stroke(s, th.XAxis.GridColor, th.XAxis.GridWidth, th.XAxis.GridDash)
		for i := 0; i < n; i++ {
			x := plot.X(i, n)
			s.MoveTo(x, plot.Top)
			s.LineTo(x, plot.Bottom())
		}
		if err := s.Stroke(); err != nil {
			return err
		}
	}

	r.stroke(s, th.XAxis.LineColor, th.XAxis.LineWidth, nil)
	s.MoveTo(plot.Left, plot.Bottom())
	s.LineTo(plot.Right(), plot.Bottom())
	if err := s.Stroke(); err != nil {
		return err
	}

	r.stroke(s, th.YAxis.LineColor, th.YAxis.LineWidth, nil)
	s.MoveTo(plot.Left, plot.Top)
	s.LineTo(plot.Left, plot.Bottom())
	if err := s.Stroke(); err != nil {
		return err
	}

	if len(ticks) > 0 {
		format := ""
		if yAxis != nil {
			format = yAxis.Format
		}
		r.font(s, th.YAxis.Labels)
		for _, tick := range ticks {
			s.DrawText(formatNumber(tick, format), plot.Left-8, plot.Y(tick, bounds)+4, surface.AlignRight)
		}
	}

	if field := r.xField(f); field != "" && n > 0 {
		format := ""
		if xAxis != nil {
			format = xAxis.Format
		}
		r.font(s, th.XAxis.Labels)
		step := int(math.Ceil(float64(n) / maxXLabels))
		for i := 0; i < n; i += step {
			s.DrawText(formatValue(f.rows[i][field], format), plot.X(i, n), plot.Bottom()+16, surface.AlignCenter)
		}
	}

	if xAxis != nil && xAxis.Title != "" {
		r.font(s, th.XAxis.Title)
		s.DrawText(xAxis.Title, plot.Left+plot.Width/2, f.height-scale.Padding/3, surface.AlignCenter)
	}
	// Surfaces cannot rotate text, so the y title sits inside the top-left
	// corner of the plot.
	if yAxis != nil && yAxis.Title != "" {
		r.font(s, th.YAxis.Title)
		s.DrawText(yAxis.Title, plot.Left+6, plot.Top+12, surface.AlignLeft)
	}
	return nil
}

func (r *lineRenderer) drawSeries(s surface.Surface, f frame, plot scale.Plot) error {
	if len(f.rows) == 0 {
		return nil
	}
	for i, series := range r.opts.Series {
		if err := r.drawOne(s, f, plot, i, series); err != nil {
			return fmt.Errorf("series %q: %w", series.Field, err)
		}
	}
	return nil
}

type point struct {
	x, y float64
}

func (r *lineRenderer) drawOne(s surface.Surface, f frame, plot scale.Plot, index int, series SeriesSpec) error {
	th := f.theme
	n := len(f.rows)
	bounds := scale.Domain(f.rows, series.Field, r.yRange())
	values, valid := scale.Values(f.rows, series.Field)

	// Contiguous runs of valid points; invalid values break the line.
	var runs [][]point
	var current []point
	for i := range f.rows {
		if !valid[i] {
			if len(current) > 0 {
				runs = append(runs, current)
				current = nil
			}
			continue
		}
		current = append(current, point{x: plot.X(i, n), y: plot.Y(values[i], bounds)})
	}
	if len(current) > 0 {
		runs = append(runs, current)
	}
	if len(runs) == 0 {
		r.logger.Debug().Str("field", series.Field).Msg("series has no numeric values")
		return nil
	}

	seriesColor := seriesColorOf(series, index, th)
	width := th.Charts.Line.LineWidth
	if series.LineWidth != nil {
		width = *series.LineWidth
	}

	r.stroke(s, seriesColor, width, lineDashes[series.LineStyle])
	for _, run := range runs {
		s.MoveTo(run[0].x, run[0].y)
		for _, p := range run[1:] {
			s.LineTo(p.x, p.y)
		}
	}
	if err := s.Stroke(); err != nil {
		return err
	}
	s.SetDash()

	if markersEnabled(series, th) {
		size := th.Charts.Line.Marker.Size
		shape := "circle"
		if m := series.Marker; m != nil {
			if m.Size != nil {
				size = *m.Size
			}
			if m.Shape != "" {
				shape = m.Shape
			}
		}
		s.SetColor(r.color(seriesColor))
		for _, run := range runs {
			for _, p := range run {
				markerPath(s, shape, p.x, p.y, size/2)
				if err := s.Fill(); err != nil {
					return err
				}
			}
		}
	}

	if a := series.Area; a != nil && a.Show {
		opacity := defaultOpacity
		if a.Opacity != nil {
			opacity = *a.Opacity
		}
		fill := seriesColor
		if a.Color != "" {
			fill = a.Color
		}
		s.SetGlobalAlpha(opacity)
		s.SetColor(r.color(fill))
		for _, run := range runs {
			s.MoveTo(run[0].x, plot.Bottom())
			for _, p := range run {
				s.LineTo(p.x, p.y)
			}
			s.LineTo(run[len(run)-1].x, plot.Bottom())
			s.ClosePath()
		}
		err := s.Fill()
		s.SetGlobalAlpha(1)
		if err != nil {
			return err
		}
	}
	return nil
}

func markersEnabled(series SeriesSpec, th theme.Theme) bool {
	if series.Marker != nil && series.Marker.Show != nil {
		return *series.Marker.Show
	}
	return th.Charts.Line.Marker.Enabled
}

func markerPath(s surface.Surface, shape string, x, y, radius float64) {
	switch shape {
	case "square":
		s.DrawRectangle(x-radius, y-radius, 2*radius, 2*radius)
	case "triangle":
		s.MoveTo(x, y-radius)
		s.LineTo(x+radius, y+radius)
		s.LineTo(x-radius, y+radius)
		s.ClosePath()
	case "diamond":
		s.MoveTo(x, y-radius)
		s.LineTo(x+radius, y)
		s.LineTo(x, y+radius)
		s.LineTo(x-radius, y)
		s.ClosePath()
	default:
		s.DrawCircle(x, y, radius)
	}
}

func seriesColorOf(series SeriesSpec, index int, th theme.Theme) string {
	if series.Color != "" {
		return series.Color
	}
	return th.PaletteColor(index)
}

func (r *lineRenderer) legendVisible() bool {
	series := r.opts.Series
	if len(series) == 0 {
		return false
	}
	if l := r.opts.Legend; l != nil && l.Show != nil && !*l.Show {
		return false
	}
	return len(series) > 1 || series[0].Name != ""
}

func (r *lineRenderer) drawLegend(s surface.Surface, f frame, _ scale.Plot) error {
	if !r.legendVisible() {
		return nil
	}
	y := scale.Padding / 2
	for i, series := range r.opts.Series {
		x := scale.Padding + float64(i)*legendItemWidth
		s.SetColor(r.color(seriesColorOf(series, i, f.theme)))
		if err := s.FillRect(x, y, legendSwatch, legendSwatch); err != nil {
			return err
		}
		r.font(s, f.theme.Legend.Labels)
		s.DrawText(series.Label(), x+20, y+12, surface.AlignLeft)
	}
	return nil
}

func (r *lineRenderer) drawSubtitle(s surface.Surface, f frame, _ scale.Plot) error {
	sub := r.opts.Subtitle
	if sub == nil || sub.Text == "" {
		return nil
	}
	font := theme.MergeFont(f.theme.Subtitle, sub.Style)
	y := titleBaseline + font.Size + 4
	r.drawAligned(s, f, font, sub.Text, sub.Align, y)
	return nil
}

func (r *lineRenderer) drawTitle(s surface.Surface, f frame, _ scale.Plot) error {
	title := r.opts.Title
	if title == nil || title.Text == "" {
		return nil
	}
	r.drawAligned(s, f, theme.MergeFont(f.theme.Title, title.Style), title.Text, title.Align, titleBaseline)
	return nil
}

func (r *lineRenderer) drawAligned(s surface.Surface, f frame, font theme.Font, text, align string, y float64) {
	a := surface.ParseAlign(align, surface.AlignCenter)
	x := f.width / 2
	switch a {
	case surface.AlignLeft:
		x = scale.Padding
	case surface.AlignRight:
		x = f.width - scale.Padding
	}
	r.font(s, font)
	s.DrawText(text, x, y, a)
}

func (r *lineRenderer) stroke(s surface.Surface, c string, width float64, dash []float64) {
	s.SetColor(r.color(c))
	s.SetLineWidth(width)
	s.SetDash(dash...)
}

func (r *lineRenderer) font(s surface.Surface, f theme.Font) {
	s.SetFont(f)
	s.SetColor(r.color(f.Color))
}

// color falls back to opaque black for unparseable values.
func (r *lineRenderer) color(value string) theme.Color {
	c, err := theme.ParseColor(value)
	if err != nil {
		r.logger.Warn().Err(err).Str("color", value).Msg("invalid color, using black")
		return theme.Black
	}
	return c
}

// formatNumber renders v with a fmt verb, %g when format is empty.
func formatNumber(v float64, format string) string {
	if rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'g', 10, 64), 64); err == nil {
		v = rounded
	}
	if format == "" {
		format = "%g"
	}
	return fmt.Sprintf(format, v)
}

// formatValue renders an x-axis category. format is a time layout for
// dates and a fmt verb for numbers.
func formatValue(v any, format string) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	case time.Time:
		if format == "" || strings.Contains(format, "%") {
			format = "2006-01-02"
		}
		return typed.Format(format)
	}
	if f, ok := data.AsFloat(v); ok {
		if strings.Contains(format, "%") {
			return fmt.Sprintf(format, f)
		}
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return fmt.Sprint(v)
}
