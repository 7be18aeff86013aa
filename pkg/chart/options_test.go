package chart

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSeriesListAcceptsMappingOrSequence(t *testing.T) {
	t.Parallel()

	var single LineOptions
	require.NoError(t, yaml.Unmarshal([]byte("series: {field: sales, name: Sales}\n"), &single))
	require.Equal(t, SeriesList{{Field: "sales", Name: "Sales"}}, single.Series)

	var many LineOptions
	require.NoError(t, yaml.Unmarshal([]byte(`
title: {text: Revenue, align: left}
xAxis: {field: month, grid: true}
series:
  - field: sales
    lineStyle: dashed
    marker: {show: false}
  - field: cost
    area: {show: true, opacity: 0.4}
`), &many))
	require.Len(t, many.Series, 2)
	require.Equal(t, "Revenue", many.Title.Text)
	require.Equal(t, "month", many.XAxis.Field)
	require.False(t, *many.Series[0].Marker.Show)
	require.InDelta(t, 0.4, *many.Series[1].Area.Opacity, 1e-9)

	var bad LineOptions
	require.Error(t, yaml.Unmarshal([]byte("series: sales\n"), &bad))
}

func TestSeriesLabel(t *testing.T) {
	t.Parallel()

	require.Equal(t, "sales", SeriesSpec{Field: "sales"}.Label())
	require.Equal(t, "Sales", SeriesSpec{Field: "sales", Name: "Sales"}.Label())
}

func TestValidateReportsYAMLPaths(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		opts  LineOptions
		field string
	}{
		"title align": {
			opts:  LineOptions{ChartOptions: ChartOptions{Title: &TextOptions{Text: "x", Align: "middle"}}, Series: SeriesList{{Field: "a"}}},
			field: "title.align",
		},
		"line style": {
			opts:  LineOptions{Series: SeriesList{{Field: "a", LineStyle: "wavy"}}},
			field: "series[0].lineStyle",
		},
		"marker shape": {
			opts:  LineOptions{Series: SeriesList{{Field: "a", Marker: &MarkerOptions{Shape: "star"}}}},
			field: "series[0].marker.shape",
		},
		"missing field": {
			opts:  LineOptions{Series: SeriesList{{Name: "a"}}},
			field: "series[0].field",
		},
	}
	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			err := Validate(tc.opts)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.field)
		})
	}

	require.NoError(t, Validate(LineOptions{Series: SeriesList{{Field: "a", Color: "rgb(1, 2, 3)"}}}))
}

func TestRegisterValidations(t *testing.T) {
	t.Parallel()

	v := validator.New()
	require.NoError(t, RegisterValidations(v))

	type doc struct {
		Type   string `validate:"chart_type"`
		Format string `validate:"export_format"`
		Color  string `validate:"color"`
	}
	require.NoError(t, v.Struct(doc{Type: "Line", Format: "jpg", Color: "#fff"}))
	require.Error(t, v.Struct(doc{Type: "pie", Format: "jpg", Color: "#fff"}))
	require.Error(t, v.Struct(doc{Type: "line", Format: "gif", Color: "#fff"}))
	require.Error(t, v.Struct(doc{Type: "line", Format: "png", Color: "blurple"}))
}

func TestSharedValidatorKnowsChartRules(t *testing.T) {
	t.Parallel()

	var v *validator.Validate
	require.NotPanics(t, func() { v = validatorInstance() })
	require.NoError(t, v.Var("line", "chart_type"))
	require.Error(t, v.Var("radar", "chart_type"))
	require.NoError(t, v.Var("#336699", "color"))
	require.NoError(t, v.Var("svg", "export_format"))
	require.Contains(t, kinds, KindLine)
}
