package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bzerrors "github.com/alexisbeaulieu97/bizcharts/pkg/errors"
)

func TestResolveEmptyPartialEqualsDefault(t *testing.T) {
	t.Parallel()

	require.Equal(t, Default(), Resolve(Partial{}))
}

func TestResolveKeepsSiblingDefaults(t *testing.T) {
	t.Parallel()

	resolved := Resolve(Partial{
		Charts: &ChartsPartial{Line: &LineChartPartial{LineWidth: ptr(4.0)}},
	})

	assert.Equal(t, 4.0, resolved.Charts.Line.LineWidth)
	assert.Equal(t, 6.0, resolved.Charts.Line.Marker.Size)
	assert.True(t, resolved.Charts.Line.Marker.Enabled)
	assert.Equal(t, Default().Charts.Bar, resolved.Charts.Bar)
	assert.Equal(t, Default().Charts.Pie, resolved.Charts.Pie)
}

func TestResolveMergesTwiceNestedStructures(t *testing.T) {
	t.Parallel()

	resolved := Resolve(Partial{
		Tooltip: &TooltipPartial{Shadow: &ShadowPartial{Blur: ptr(10.0)}},
		Charts: &ChartsPartial{Line: &LineChartPartial{
			Marker: &MarkerPartial{Enabled: ptr(false)},
		}},
	})

	assert.Equal(t, 10.0, resolved.Tooltip.Shadow.Blur)
	assert.True(t, resolved.Tooltip.Shadow.Enabled)
	assert.Equal(t, "rgba(0, 0, 0, 0.2)", resolved.Tooltip.Shadow.Color)
	assert.False(t, resolved.Charts.Line.Marker.Enabled)
	assert.Equal(t, 6.0, resolved.Charts.Line.Marker.Size)
	assert.Equal(t, 2.0, resolved.Charts.Line.LineWidth)
}

func TestResolveMergesFontsKeyByKey(t *testing.T) {
	t.Parallel()

	resolved := Resolve(Partial{
		Title: &FontPartial{Size: ptr(24.0)},
		XAxis: &AxisPartial{Labels: &FontPartial{Color: ptr("#000000")}},
	})

	assert.Equal(t, 24.0, resolved.Title.Size)
	assert.Equal(t, "bold", resolved.Title.Weight)
	assert.Equal(t, "#000000", resolved.XAxis.Labels.Color)
	assert.Equal(t, 11.0, resolved.XAxis.Labels.Size)
	assert.Equal(t, "#CCCCCC", resolved.XAxis.LineColor)
}

func TestResolveDoesNotMutateDefaults(t *testing.T) {
	t.Parallel()

	resolved := Resolve(Partial{
		Colors: []string{"#111111"},
		YAxis:  &AxisPartial{GridDash: []float64{1, 1}},
	})
	resolved.XAxis.GridDash[0] = 99
	resolved.Colors[0] = "#222222"

	fresh := Default()
	require.Equal(t, "#4285F4", fresh.Colors[0])
	require.Len(t, fresh.Colors, 10)
	require.Equal(t, []float64{4, 2}, fresh.XAxis.GridDash)
	require.Equal(t, []float64{4, 2}, fresh.YAxis.GridDash)
}

func TestResolveFromLeavesBaseUntouched(t *testing.T) {
	t.Parallel()

	base := Default()
	_ = ResolveFrom(base, Partial{
		BackgroundColor: ptr("#000000"),
		Colors:          []string{"#ABCDEF"},
	})

	require.Equal(t, "#FFFFFF", base.BackgroundColor)
	require.Equal(t, "#4285F4", base.Colors[0])
}

func TestResolvePassesThroughExtensions(t *testing.T) {
	t.Parallel()

	resolved := Resolve(Partial{Charts: &ChartsPartial{
		Extensions: map[string]map[string]any{
			"radar": {"levels": 5, "fill": true},
		},
	}})
	require.Equal(t, map[string]any{"levels": 5, "fill": true}, resolved.Charts.Extensions["radar"])

	again := ResolveFrom(resolved, Partial{Charts: &ChartsPartial{
		Extensions: map[string]map[string]any{
			"radar": {"levels": 8},
		},
	}})
	require.Equal(t, 8, again.Charts.Extensions["radar"]["levels"])
	require.Equal(t, true, again.Charts.Extensions["radar"]["fill"])
	require.Equal(t, 5, resolved.Charts.Extensions["radar"]["levels"])
}

func TestPreset(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		preset     string
		background string
	}{
		{name: "empty selects default", preset: "", background: "#FFFFFF"},
		{name: "default", preset: "default", background: "#FFFFFF"},
		{name: "case insensitive", preset: "DARK", background: "#0F172A"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			th, err := Preset(tc.preset)
			require.NoError(t, err)
			require.Equal(t, tc.background, th.BackgroundColor)
		})
	}

	_, err := Preset("neon")
	require.ErrorIs(t, err, bzerrors.ErrUnsupportedType)
	require.Equal(t, []string{"dark", "default", "light"}, PresetNames())
}

func TestDarkKeepsStructuralDefaults(t *testing.T) {
	t.Parallel()

	dark := Dark()
	require.Equal(t, "Dark", dark.Name)
	require.Equal(t, Default().Charts, dark.Charts)
	require.Equal(t, 18.0, dark.Title.Size)
	require.NotEqual(t, Default().Colors, dark.Colors)
}

func TestPaletteColorCycles(t *testing.T) {
	t.Parallel()

	th := Default()
	require.Equal(t, "#4285F4", th.PaletteColor(0))
	require.Equal(t, "#34A853", th.PaletteColor(11))
	require.Equal(t, "#000000", Theme{}.PaletteColor(3))
}
