package data

import (
	"cmp"
	"fmt"
	"slices"
	"time"
)

// Filter keeps the rows for which keep returns true.
func Filter(name string, keep func(Row) bool) Transform {
	return NewTransform("filter:"+name, func(rows []Row) []Row {
		out := make([]Row, 0, len(rows))
		for _, r := range rows {
			if keep(r) {
				out = append(out, r)
			}
		}
		return out
	})
}

// SortBy orders rows by field. Numbers and dates compare numerically, other
// values by their string form. The sort is stable and rows missing the
// field sort last.
func SortBy(field string, descending bool) Transform {
	name := "sort:" + field
	if descending {
		name += ":desc"
	}
	return NewTransform(name, func(rows []Row) []Row {
		out := append([]Row(nil), rows...)
		slices.SortStableFunc(out, func(a, b Row) int {
			av, aok := a[field]
			bv, bok := b[field]
			switch {
			case !aok && !bok:
				return 0
			case !aok:
				return 1
			case !bok:
				return -1
			}
			c := compareValues(av, bv)
			if descending {
				return -c
			}
			return c
		})
		return out
	})
}

// Limit keeps at most n leading rows.
func Limit(n int) Transform {
	if n < 0 {
		n = 0
	}
	return NewTransform(fmt.Sprintf("limit:%d", n), func(rows []Row) []Row {
		if len(rows) <= n {
			return rows
		}
		return rows[:n]
	})
}

// Derive sets field on every row to compute(row). Rows are copied first.
func Derive(field string, compute func(Row) any) Transform {
	return NewTransform("derive:"+field, func(rows []Row) []Row {
		out := make([]Row, len(rows))
		for i, r := range rows {
			next := r.Clone()
			if next == nil {
				next = Row{}
			}
			next[field] = compute(r)
			out[i] = next
		}
		return out
	})
}

func compareValues(a, b any) int {
	af, aok := sortKey(a)
	bf, bok := sortKey(b)
	if aok && bok {
		return cmp.Compare(af, bf)
	}
	return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func sortKey(v any) (float64, bool) {
	if f, ok := AsFloat(v); ok {
		return f, true
	}
	switch typed := v.(type) {
	case time.Time:
		return float64(typed.UnixMilli()), true
	case string:
		if t, ok := ParseDate(typed); ok {
			return float64(t.UnixMilli()), true
		}
	}
	return 0, false
}
