package scale

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/bizcharts/pkg/data"
)

func rowsOf(field string, values ...any) []data.Row {
	rows := make([]data.Row, len(values))
	for i, v := range values {
		rows[i] = data.Row{field: v}
	}
	return rows
}

func float(v float64) *float64 { return &v }

func TestCoerce(t *testing.T) {
	t.Parallel()

	when := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name  string
		value any
		want  float64
		ok    bool
	}{
		{name: "int", value: 7, want: 7, ok: true},
		{name: "float32", value: float32(1.5), want: 1.5, ok: true},
		{name: "true", value: true, want: 1, ok: true},
		{name: "false", value: false, want: 0, ok: true},
		{name: "numeric string", value: " 42.5 ", want: 42.5, ok: true},
		{name: "empty string", value: "", want: 0, ok: true},
		{name: "time", value: when, want: float64(when.UnixMilli()), ok: true},
		{name: "word", value: "n/a", ok: false},
		{name: "nil", value: nil, ok: false},
		{name: "nan", value: math.NaN(), ok: false},
		{name: "slice", value: []int{1}, ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := Coerce(tc.value)
			require.Equal(t, tc.ok, ok)
			if tc.ok {
				require.Equal(t, tc.want, got)
			}
		})
	}
}

func TestDomainPadding(t *testing.T) {
	t.Parallel()

	b := Domain(rowsOf("v", 10, 20, 30), "v", Range{})
	require.InDelta(t, 8, b.Min, 1e-9)
	require.InDelta(t, 32, b.Max, 1e-9)
}

func TestDomainClampsAtZero(t *testing.T) {
	t.Parallel()

	b := Domain(rowsOf("v", 1, 100), "v", Range{})
	require.Equal(t, 0.0, b.Min)
	require.InDelta(t, 109.9, b.Max, 1e-9)

	negative := Domain(rowsOf("v", -10, -5), "v", Range{})
	require.Equal(t, 0.0, negative.Min, "padding never pushes the lower bound below zero")
}

func TestDomainOverrides(t *testing.T) {
	t.Parallel()

	rows := rowsOf("v", 10, 20, 30)

	both := Domain(rows, "v", Range{Min: float(0), Max: float(100)})
	require.Equal(t, Bounds{Min: 0, Max: 100}, both)

	onlyMax := Domain(rows, "v", Range{Max: float(50)})
	require.InDelta(t, 8, onlyMax.Min, 1e-9)
	require.Equal(t, 50.0, onlyMax.Max)
}

func TestDomainWithoutValidValues(t *testing.T) {
	t.Parallel()

	require.Equal(t, Bounds{Min: 0, Max: 1}, Domain(rowsOf("v", "x", nil), "v", Range{}))
	require.Equal(t, Bounds{Min: 0, Max: 1}, Domain(nil, "v", Range{}))
}

func TestExtentSkipsInvalid(t *testing.T) {
	t.Parallel()

	lo, hi, ok := Extent(rowsOf("v", "a", 5, nil, 2, "9"), "v")
	require.True(t, ok)
	assert.Equal(t, 2.0, lo)
	assert.Equal(t, 9.0, hi)

	values, valid := Values(rowsOf("v", 1, "x"), "v")
	require.Equal(t, []bool{true, false}, valid)
	require.Equal(t, 1.0, values[0])
	require.True(t, math.IsNaN(values[1]))
}

func TestPlotMapping(t *testing.T) {
	t.Parallel()

	p := NewPlot(800, 400)
	require.Equal(t, Plot{Left: 50, Top: 50, Width: 700, Height: 300}, p)

	assert.Equal(t, 50.0, p.X(0, 6))
	assert.Equal(t, 750.0, p.X(5, 6))
	assert.Equal(t, 400.0, p.X(0, 1))

	b := Bounds{Min: 0, Max: 100}
	assert.Equal(t, 350.0, p.Y(0, b))
	assert.Equal(t, 50.0, p.Y(100, b))
	assert.Equal(t, 200.0, p.Y(50, b))

	flat := Bounds{Min: 5, Max: 5}
	assert.Equal(t, 200.0, p.Y(5, flat))
	assert.Equal(t, 200.0, p.Y(6, flat))
}

func TestConstantSeriesDrawsMidLine(t *testing.T) {
	t.Parallel()

	p := NewPlot(800, 400)
	b := Domain(rowsOf("v", 7, 7, 7), "v", Range{})
	require.Equal(t, Bounds{Min: 7, Max: 7}, b)
	require.Equal(t, p.Top+p.Height/2, p.Y(7, b))
}

func TestTicks(t *testing.T) {
	t.Parallel()

	require.Equal(t, []float64{0, 25, 50, 75, 100}, Ticks(Bounds{Min: 0, Max: 100}, 4))
	require.Equal(t, []float64{3}, Ticks(Bounds{Min: 3, Max: 9}, 0))
}
