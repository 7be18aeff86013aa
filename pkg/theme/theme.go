// Package theme defines the structured style tree consumed by chart
// renderers and resolves partial overrides onto it.
package theme

const defaultFamily = "'Segoe UI', 'Helvetica Neue', Arial, sans-serif"

// Font describes a text style.
type Font struct {
	Family string  `yaml:"family"`
	Size   float64 `yaml:"size"`
	Weight string  `yaml:"weight"`
	Style  string  `yaml:"style"`
	Color  string  `yaml:"color"`
}

// Axis holds the line, label and grid styling of one axis.
type Axis struct {
	LineColor string    `yaml:"lineColor"`
	LineWidth float64   `yaml:"lineWidth"`
	Labels    Font      `yaml:"labels"`
	Title     Font      `yaml:"title"`
	GridColor string    `yaml:"gridColor"`
	GridWidth float64   `yaml:"gridWidth"`
	GridDash  []float64 `yaml:"gridDash,flow"`
}

// Legend styles the series legend.
type Legend struct {
	Labels          Font    `yaml:"labels"`
	SymbolSize      float64 `yaml:"symbolSize"`
	ItemSpacing     float64 `yaml:"itemSpacing"`
	Padding         float64 `yaml:"padding"`
	BackgroundColor string  `yaml:"backgroundColor"`
	BorderColor     string  `yaml:"borderColor"`
	BorderWidth     float64 `yaml:"borderWidth"`
	BorderRadius    float64 `yaml:"borderRadius"`
}

// Shadow is the tooltip drop shadow.
type Shadow struct {
	Enabled bool    `yaml:"enabled"`
	Color   string  `yaml:"color"`
	Blur    float64 `yaml:"blur"`
	OffsetX float64 `yaml:"offsetX"`
	OffsetY float64 `yaml:"offsetY"`
}

// Tooltip styles hover tooltips. Hosts that implement tooltips read it; the
// base renderer does not draw them.
type Tooltip struct {
	Text            Font    `yaml:"text"`
	Title           Font    `yaml:"title"`
	BackgroundColor string  `yaml:"backgroundColor"`
	BorderColor     string  `yaml:"borderColor"`
	BorderWidth     float64 `yaml:"borderWidth"`
	BorderRadius    float64 `yaml:"borderRadius"`
	Padding         float64 `yaml:"padding"`
	Shadow          Shadow  `yaml:"shadow"`
}

// Marker configures point markers of line series.
type Marker struct {
	Size    float64 `yaml:"size"`
	Enabled bool    `yaml:"enabled"`
}

// LineChart holds line chart defaults.
type LineChart struct {
	LineWidth float64 `yaml:"lineWidth"`
	Marker    Marker  `yaml:"marker"`
}

// BarChart holds bar chart defaults.
type BarChart struct {
	CornerRadius float64 `yaml:"cornerRadius"`
	MaxWidth     float64 `yaml:"maxWidth"`
}

// PieChart holds pie chart defaults.
type PieChart struct {
	InnerRadius  float64 `yaml:"innerRadius"`
	PadAngle     float64 `yaml:"padAngle"`
	CornerRadius float64 `yaml:"cornerRadius"`
}

// Charts groups per-chart-type defaults. Extensions carries settings for
// chart types the core does not know about.
type Charts struct {
	Line       LineChart                 `yaml:"line"`
	Bar        BarChart                  `yaml:"bar"`
	Pie        PieChart                  `yaml:"pie"`
	Extensions map[string]map[string]any `yaml:",inline"`
}

// Theme is a fully populated style tree. Renderers only receive resolved
// themes, never partial ones.
type Theme struct {
	Name            string   `yaml:"name"`
	Description     string   `yaml:"description"`
	Font            Font     `yaml:"font"`
	Title           Font     `yaml:"title"`
	Subtitle        Font     `yaml:"subtitle"`
	Colors          []string `yaml:"colors"`
	BackgroundColor string   `yaml:"backgroundColor"`
	XAxis           Axis     `yaml:"xAxis"`
	YAxis           Axis     `yaml:"yAxis"`
	Legend          Legend   `yaml:"legend"`
	Tooltip         Tooltip  `yaml:"tooltip"`
	Charts          Charts   `yaml:"charts"`
}

// PaletteColor returns the palette entry for series i, cycling through the
// palette. An empty palette yields black.
func (t Theme) PaletteColor(i int) string {
	if len(t.Colors) == 0 {
		return "#000000"
	}
	if i < 0 {
		i = -i
	}
	return t.Colors[i%len(t.Colors)]
}

// Clone returns a deep copy that shares no slices or maps with t.
func (t Theme) Clone() Theme {
	out := t
	out.Colors = append([]string(nil), t.Colors...)
	out.XAxis.GridDash = append([]float64(nil), t.XAxis.GridDash...)
	out.YAxis.GridDash = append([]float64(nil), t.YAxis.GridDash...)
	if t.Charts.Extensions != nil {
		out.Charts.Extensions = make(map[string]map[string]any, len(t.Charts.Extensions))
		for k, v := range t.Charts.Extensions {
			out.Charts.Extensions[k] = copyMap(v)
		}
	}
	return out
}

func font(size float64, weight, color string) Font {
	return Font{Family: defaultFamily, Size: size, Weight: weight, Style: "normal", Color: color}
}

func axis(line, grid string, labels, title Font) Axis {
	return Axis{
		LineColor: line,
		LineWidth: 1,
		Labels:    labels,
		Title:     title,
		GridColor: grid,
		GridWidth: 1,
		GridDash:  []float64{4, 2},
	}
}

// Default returns a fresh copy of the default light theme.
func Default() Theme {
	return Theme{
		Name:        "Default",
		Description: "The default theme for BizCharts",
		Font:        font(12, "normal", "#333333"),
		Title:       font(18, "bold", "#333333"),
		Subtitle:    font(14, "normal", "#666666"),
		Colors: []string{
			"#4285F4", "#34A853", "#FBBC05", "#EA4335", "#8C44A3",
			"#0F9D58", "#3B7FC4", "#DB4437", "#F4B400", "#673AB7",
		},
		BackgroundColor: "#FFFFFF",
		XAxis:           axis("#CCCCCC", "#EEEEEE", font(11, "normal", "#666666"), font(12, "bold", "#333333")),
		YAxis:           axis("#CCCCCC", "#EEEEEE", font(11, "normal", "#666666"), font(12, "bold", "#333333")),
		Legend: Legend{
			Labels:          font(11, "normal", "#333333"),
			SymbolSize:      10,
			ItemSpacing:     10,
			Padding:         8,
			BackgroundColor: "rgba(255, 255, 255, 0.8)",
			BorderColor:     "#DDDDDD",
			BorderWidth:     1,
			BorderRadius:    3,
		},
		Tooltip: Tooltip{
			Text:            font(11, "normal", "#333333"),
			Title:           font(12, "bold", "#333333"),
			BackgroundColor: "rgba(255, 255, 255, 0.95)",
			BorderColor:     "#CCCCCC",
			BorderWidth:     1,
			BorderRadius:    3,
			Padding:         8,
			Shadow: Shadow{
				Enabled: true,
				Color:   "rgba(0, 0, 0, 0.2)",
				Blur:    5,
				OffsetX: 0,
				OffsetY: 2,
			},
		},
		Charts: Charts{
			Line: LineChart{LineWidth: 2, Marker: Marker{Size: 6, Enabled: true}},
			Bar:  BarChart{CornerRadius: 2, MaxWidth: 50},
			Pie:  PieChart{InnerRadius: 0, PadAngle: 0.01, CornerRadius: 2},
		},
	}
}

// Dark returns the dark preset: the default theme with a slate background
// and light text.
func Dark() Theme {
	return ResolveFrom(Default(), Partial{
		Name:            ptr("Dark"),
		Description:     ptr("Dark theme for BizCharts"),
		Font:            &FontPartial{Color: ptr("#E2E8F0")},
		Title:           &FontPartial{Color: ptr("#F8FAFC")},
		Subtitle:        &FontPartial{Color: ptr("#94A3B8")},
		BackgroundColor: ptr("#0F172A"),
		Colors: []string{
			"#60A5FA", "#4ADE80", "#FACC15", "#F87171", "#C084FC",
			"#34D399", "#38BDF8", "#FB923C", "#FBBF24", "#A78BFA",
		},
		XAxis: &AxisPartial{
			LineColor: ptr("#475569"),
			GridColor: ptr("#1E293B"),
			Labels:    &FontPartial{Color: ptr("#94A3B8")},
			Title:     &FontPartial{Color: ptr("#E2E8F0")},
		},
		YAxis: &AxisPartial{
			LineColor: ptr("#475569"),
			GridColor: ptr("#1E293B"),
			Labels:    &FontPartial{Color: ptr("#94A3B8")},
			Title:     &FontPartial{Color: ptr("#E2E8F0")},
		},
		Legend: &LegendPartial{
			Labels:          &FontPartial{Color: ptr("#E2E8F0")},
			BackgroundColor: ptr("rgba(15, 23, 42, 0.8)"),
			BorderColor:     ptr("#334155"),
		},
		Tooltip: &TooltipPartial{
			Text:            &FontPartial{Color: ptr("#E2E8F0")},
			Title:           &FontPartial{Color: ptr("#F8FAFC")},
			BackgroundColor: ptr("rgba(30, 41, 59, 0.95)"),
			BorderColor:     ptr("#475569"),
			Shadow:          &ShadowPartial{Color: ptr("rgba(0, 0, 0, 0.5)")},
		},
	})
}

func ptr[T any](v T) *T {
	return &v
}

// ScaleFonts returns a copy of t with every font size multiplied by factor.
func (t Theme) ScaleFonts(factor float64) Theme {
	out := t.Clone()
	if factor <= 0 || factor == 1 {
		return out
	}
	for _, f := range []*Font{
		&out.Font, &out.Title, &out.Subtitle,
		&out.XAxis.Labels, &out.XAxis.Title,
		&out.YAxis.Labels, &out.YAxis.Title,
		&out.Legend.Labels,
		&out.Tooltip.Text, &out.Tooltip.Title,
	} {
		f.Size *= factor
	}
	return out
}
