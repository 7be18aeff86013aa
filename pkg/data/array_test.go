package data

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func salesRows() []Row {
	return []Row{
		{"month": "Jan", "sales": 10},
		{"month": "Feb", "sales": 20},
		{"month": "Mar", "sales": 30},
		{"month": "Apr", "sales": 40},
	}
}

func TestArraySourceCopiesInput(t *testing.T) {
	t.Parallel()

	rows := salesRows()
	src := NewArraySource(rows)
	rows[0]["sales"] = 999
	rows = append(rows[:1], rows[2:]...)

	got, err := src.All(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 4)
	require.Equal(t, 10, got[0]["sales"])

	got[1]["sales"] = -1
	again, err := src.All(context.Background())
	require.NoError(t, err)
	require.Equal(t, 20, again[1]["sales"])
}

func TestArraySourcePipelineComposition(t *testing.T) {
	t.Parallel()

	src := NewArraySource(salesRows())
	double := NewTransform("double", func(rows []Row) []Row {
		out := make([]Row, len(rows))
		for i, r := range rows {
			next := r.Clone()
			next["sales"] = r["sales"].(int) * 2
			out[i] = next
		}
		return out
	})
	dropFirst := NewTransform("drop-first", func(rows []Row) []Row {
		if len(rows) == 0 {
			return rows
		}
		return rows[1:]
	})

	src.AddTransform(double)
	src.AddTransform(dropFirst)

	got, err := src.All(context.Background())
	require.NoError(t, err)
	require.Equal(t, []Row{
		{"month": "Feb", "sales": 40},
		{"month": "Mar", "sales": 60},
		{"month": "Apr", "sales": 80},
	}, got)

	require.True(t, src.RemoveTransform(double))
	require.False(t, src.RemoveTransform(double))

	got, err = src.All(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, 20, got[0]["sales"])

	src.ClearTransforms()
	require.Empty(t, src.Transforms())
	count, err := src.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4, count)
}

func TestArraySourceRemoveUsesIdentity(t *testing.T) {
	t.Parallel()

	src := NewArraySource(salesRows())
	fn := func(rows []Row) []Row { return rows }
	first := NewTransform("same", fn)
	second := NewTransform("same", fn)
	src.AddTransform(first)

	require.False(t, src.RemoveTransform(second))
	require.Len(t, src.Transforms(), 1)
	require.True(t, src.RemoveTransform(first))
}

func TestArraySourceSliceThenTransform(t *testing.T) {
	t.Parallel()

	src := NewArraySource(salesRows())
	src.AddTransform(Limit(1))

	cases := []struct {
		name   string
		start  int
		limit  int
		months []string
	}{
		{name: "middle", start: 1, limit: 2, months: []string{"Feb"}},
		{name: "past end", start: 10, limit: 2, months: []string{}},
		{name: "negative start", start: -3, limit: 2, months: []string{"Jan"}},
		{name: "zero limit", start: 0, limit: 0, months: []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := src.Slice(context.Background(), tc.start, tc.limit)
			require.NoError(t, err)
			months := make([]string, 0, len(got))
			for _, r := range got {
				months = append(months, r["month"].(string))
			}
			require.Equal(t, tc.months, months)
		})
	}
}

func TestArraySourceSetRowsKeepsSchema(t *testing.T) {
	t.Parallel()

	src := NewArraySource(salesRows())
	fields := src.Fields()

	src.SetRows([]Row{{"other": true}})
	require.Equal(t, fields, src.Fields())

	count, err := src.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.NoError(t, src.Refresh(context.Background()))
}

func TestArraySourceHonoursContext(t *testing.T) {
	t.Parallel()

	src := NewArraySource(salesRows())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.All(ctx)
	require.ErrorIs(t, err, context.Canceled)
	_, err = src.Count(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, src.Refresh(ctx), context.Canceled)
}

func TestInferFields(t *testing.T) {
	t.Parallel()

	src := NewArraySource([]Row{{"a": 5, "b": "2023-01-01", "c": "hello", "d": true}})
	require.Equal(t, []Field{
		{Name: "a", Type: FieldNumber, Label: "a"},
		{Name: "b", Type: FieldDate, Label: "b"},
		{Name: "c", Type: FieldString, Label: "c"},
		{Name: "d", Type: FieldBoolean, Label: "d"},
	}, src.Fields())

	require.Empty(t, NewArraySource(nil).Fields())
}

func TestInferType(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		value any
		want  FieldType
	}{
		{name: "nil", value: nil, want: FieldString},
		{name: "float", value: 1.5, want: FieldNumber},
		{name: "uint8", value: uint8(3), want: FieldNumber},
		{name: "time", value: time.Now(), want: FieldDate},
		{name: "rfc3339", value: "2024-03-01T10:00:00Z", want: FieldDate},
		{name: "datetime", value: "2024-03-01 10:00:00", want: FieldDate},
		{name: "slashes", value: "2024/03/01", want: FieldString},
		{name: "dash but not date", value: "north-east", want: FieldString},
		{name: "slice", value: []int{1}, want: FieldString},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, InferType(tc.value))
		})
	}
}

func TestNewArraySourceOrdered(t *testing.T) {
	t.Parallel()

	src := NewArraySourceOrdered([]Row{{"z": 1, "a": "x"}}, []string{"z", "a"})
	fields := src.Fields()
	require.Len(t, fields, 2)
	require.Equal(t, "z", fields[0].Name)
	require.Equal(t, FieldNumber, fields[0].Type)
	require.Equal(t, "a", fields[1].Name)
}
