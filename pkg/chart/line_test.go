package chart

import (
	"bytes"
	"testing"

	"github.com/gogpu/gg/recording"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/bizcharts/pkg/data"
	"github.com/alexisbeaulieu97/bizcharts/pkg/surface"
	"github.com/alexisbeaulieu97/bizcharts/pkg/theme"
)

func salesRows() []data.Row {
	return []data.Row{
		{"month": "Jan", "sales": 12.0, "cost": 8.0},
		{"month": "Feb", "sales": 19.0, "cost": 11.0},
		{"month": "Mar", "sales": 3.0, "cost": 2.0},
		{"month": "Apr", "sales": 5.0, "cost": 4.0},
		{"month": "May", "sales": 2.0, "cost": 1.0},
		{"month": "Jun", "sales": 3.0, "cost": 2.0},
	}
}

type drawing struct {
	counts map[recording.CommandType]int
	texts  []string
}

func drawLine(t *testing.T, opts LineOptions, rows []data.Row, th theme.Theme) drawing {
	t.Helper()

	fields := data.InferFieldsOrdered(rows, []string{"month", "sales", "cost"})
	r := &lineRenderer{opts: opts, logger: zerolog.Nop()}
	vec := surface.NewVector(800, 400)
	require.NoError(t, r.draw(vec, frame{
		rows:   rows,
		fields: fields,
		theme:  th,
		width:  800,
		height: 400,
	}))

	out := drawing{counts: map[recording.CommandType]int{}}
	for _, cmd := range vec.Finish().Commands() {
		out.counts[cmd.Type()]++
		if text, ok := cmd.(recording.DrawTextCommand); ok {
			out.texts = append(out.texts, text.Text)
		}
	}
	return out
}

func TestLineSingleSeriesDrawsAxesLineAndMarkers(t *testing.T) {
	t.Parallel()

	out := drawLine(t, LineOptions{Series: SeriesList{{Field: "sales"}}}, salesRows(), theme.Default())

	require.Equal(t, 1, out.counts[recording.CmdFillRect], "background only, no legend")
	require.Equal(t, 3, out.counts[recording.CmdStrokePath], "x axis, y axis, series")
	require.Equal(t, 6, out.counts[recording.CmdFillPath], "one marker per point")
	require.Contains(t, out.texts, "Jan")
	require.Contains(t, out.texts, "Jun")
	require.NotContains(t, out.texts, "sales", "unnamed single series has no legend")
}

func TestLineMarkersFollowSeriesThenTheme(t *testing.T) {
	t.Parallel()

	hidden := false
	out := drawLine(t, LineOptions{Series: SeriesList{{Field: "sales", Marker: &MarkerOptions{Show: &hidden}}}}, salesRows(), theme.Default())
	require.Zero(t, out.counts[recording.CmdFillPath])

	th := theme.Default()
	th.Charts.Line.Marker.Enabled = false
	out = drawLine(t, LineOptions{Series: SeriesList{{Field: "sales"}}}, salesRows(), th)
	require.Zero(t, out.counts[recording.CmdFillPath])

	shown := true
	out = drawLine(t, LineOptions{Series: SeriesList{{Field: "sales", Marker: &MarkerOptions{Show: &shown, Shape: "diamond"}}}}, salesRows(), th)
	require.Equal(t, 6, out.counts[recording.CmdFillPath])
}

func TestLineLegendAndTitle(t *testing.T) {
	t.Parallel()

	opts := LineOptions{
		ChartOptions: ChartOptions{
			Title:    &TextOptions{Text: "Quarterly Sales"},
			Subtitle: &TextOptions{Text: "2024", Align: "left"},
		},
		Series: SeriesList{{Field: "sales", Name: "Sales"}, {Field: "cost"}},
	}
	out := drawLine(t, opts, salesRows(), theme.Default())

	require.Equal(t, 3, out.counts[recording.CmdFillRect], "background and two swatches")
	require.Equal(t, 4, out.counts[recording.CmdStrokePath])
	require.Contains(t, out.texts, "Sales")
	require.Contains(t, out.texts, "cost")
	require.Equal(t, "Quarterly Sales", out.texts[len(out.texts)-1], "title is drawn last")
	require.Equal(t, "2024", out.texts[len(out.texts)-2])
}

func TestLineLegendHiddenExplicitly(t *testing.T) {
	t.Parallel()

	hide := false
	opts := LineOptions{
		ChartOptions: ChartOptions{Legend: &LegendOptions{Show: &hide}},
		Series:       SeriesList{{Field: "sales"}, {Field: "cost"}},
	}
	out := drawLine(t, opts, salesRows(), theme.Default())
	require.Equal(t, 1, out.counts[recording.CmdFillRect])
}

func TestLineInvalidPointsAreSkipped(t *testing.T) {
	t.Parallel()

	rows := salesRows()
	rows[2]["sales"] = "n/a"
	rows[3]["sales"] = nil

	out := drawLine(t, LineOptions{Series: SeriesList{{Field: "sales"}}}, rows, theme.Default())
	require.Equal(t, 4, out.counts[recording.CmdFillPath])
	require.Equal(t, 3, out.counts[recording.CmdStrokePath])
}

func TestLineAreaAndGrid(t *testing.T) {
	t.Parallel()

	hidden := false
	opts := LineOptions{
		XAxis: &XAxisOptions{Grid: true, Title: "Month"},
		YAxis: &YAxisOptions{Grid: true, Title: "Revenue", Format: "%.0f"},
		Series: SeriesList{{
			Field:  "sales",
			Marker: &MarkerOptions{Show: &hidden},
			Area:   &AreaOptions{Show: true},
		}},
	}
	out := drawLine(t, opts, salesRows(), theme.Default())

	require.Equal(t, 5, out.counts[recording.CmdStrokePath], "two grids, two axes, series")
	require.Equal(t, 1, out.counts[recording.CmdFillPath], "area")
	require.Contains(t, out.texts, "Month")
	require.Contains(t, out.texts, "Revenue")
}

func TestLineEmptyRowsDrawsAxesOnly(t *testing.T) {
	t.Parallel()

	r := &lineRenderer{opts: LineOptions{Series: SeriesList{{Field: "sales"}}}, logger: zerolog.Nop()}
	vec := surface.NewVector(800, 400)
	require.NoError(t, r.draw(vec, frame{theme: theme.Default(), width: 800, height: 400}))

	counts := map[recording.CommandType]int{}
	for _, cmd := range vec.Finish().Commands() {
		counts[cmd.Type()]++
	}
	require.Equal(t, 2, counts[recording.CmdStrokePath])
	require.Zero(t, counts[recording.CmdFillPath])
}

func TestLineInvalidColorFallsBackToBlack(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	r := &lineRenderer{logger: zerolog.New(buf)}
	require.Equal(t, theme.Black, r.color("not-a-color"))
	require.Contains(t, buf.String(), "invalid color")
}

func TestFormatHelpers(t *testing.T) {
	t.Parallel()

	require.Equal(t, "12.8", formatNumber(8+4.8, ""))
	require.Equal(t, "13", formatNumber(12.8, "%.0f"))
	require.Equal(t, "Jan", formatValue("Jan", ""))
	require.Equal(t, "", formatValue(nil, ""))
	require.Equal(t, "3.5", formatValue(3.5, ""))
	require.Equal(t, "3.50", formatValue(3.5, "%.2f"))
}
