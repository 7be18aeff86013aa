package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexisbeaulieu97/bizcharts/pkg/data"
	bzerrors "github.com/alexisbeaulieu97/bizcharts/pkg/errors"
)

// BuildTransforms converts the declared transforms into pipeline stages in
// document order.
func (d *Document) BuildTransforms() ([]data.Transform, error) {
	out := make([]data.Transform, 0, len(d.Data.Transforms))
	for i, tc := range d.Data.Transforms {
		t, err := tc.Build()
		if err != nil {
			var verr *bzerrors.ValidationError
			if errors.As(err, &verr) {
				verr.Field = fmt.Sprintf("data.transforms[%d].%s", i, verr.Field)
			}
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Build returns the transform tc describes.
func (tc TransformConfig) Build() (data.Transform, error) {
	switch tc.Type {
	case "filter":
		op := tc.Op
		if op == "" {
			op = "eq"
		}
		match, err := predicate(op, tc.Value)
		if err != nil {
			return nil, err
		}
		name := fmt.Sprintf("filter(%s %s %v)", tc.Field, op, tc.Value)
		field := tc.Field
		return data.Filter(name, func(row data.Row) bool {
			return match(row[field])
		}), nil
	case "sort":
		return data.SortBy(tc.Field, tc.Desc), nil
	case "limit":
		return data.Limit(tc.Count), nil
	case "derive":
		if len(tc.From) == 0 {
			return nil, bzerrors.NewValidationError("from", "derive needs at least one source field", nil)
		}
		combine, err := arithmetic(tc.Op)
		if err != nil {
			return nil, err
		}
		from := append([]string(nil), tc.From...)
		return data.Derive(tc.Field, func(row data.Row) any {
			var acc float64
			for i, name := range from {
				v, ok := data.AsFloat(row[name])
				if !ok {
					return nil
				}
				if i == 0 {
					acc = v
					continue
				}
				if acc, ok = combine(acc, v); !ok {
					return nil
				}
			}
			return acc
		}), nil
	default:
		return nil, bzerrors.NewValidationError("type", fmt.Sprintf("unknown transform type %q", tc.Type), nil)
	}
}

func predicate(op string, want any) (func(any) bool, error) {
	if op == "contains" {
		needle := fmt.Sprint(want)
		return func(got any) bool {
			return got != nil && strings.Contains(fmt.Sprint(got), needle)
		}, nil
	}

	var accept func(cmp int) bool
	switch op {
	case "eq":
		accept = func(c int) bool { return c == 0 }
	case "ne":
		accept = func(c int) bool { return c != 0 }
	case "gt":
		accept = func(c int) bool { return c > 0 }
	case "gte":
		accept = func(c int) bool { return c >= 0 }
	case "lt":
		accept = func(c int) bool { return c < 0 }
	case "lte":
		accept = func(c int) bool { return c <= 0 }
	default:
		return nil, bzerrors.NewValidationError("op", fmt.Sprintf("operator %q cannot filter", op), nil)
	}

	return func(got any) bool {
		c, ok := compare(got, want)
		if !ok {
			return op == "ne"
		}
		return accept(c)
	}, nil
}

// compare orders got against want numerically when both are numbers and
// as strings otherwise. Missing values never compare.
func compare(got, want any) (int, bool) {
	if got == nil || want == nil {
		return 0, false
	}
	if a, ok := data.AsFloat(got); ok {
		if b, ok := data.AsFloat(want); ok {
			switch {
			case a < b:
				return -1, true
			case a > b:
				return 1, true
			default:
				return 0, true
			}
		}
	}
	return strings.Compare(fmt.Sprint(got), fmt.Sprint(want)), true
}

func arithmetic(op string) (func(a, b float64) (float64, bool), error) {
	switch op {
	case "", "sum":
		return func(a, b float64) (float64, bool) { return a + b, true }, nil
	case "sub":
		return func(a, b float64) (float64, bool) { return a - b, true }, nil
	case "mul":
		return func(a, b float64) (float64, bool) { return a * b, true }, nil
	case "div":
		return func(a, b float64) (float64, bool) {
			if b == 0 {
				return 0, false
			}
			return a / b, true
		}, nil
	default:
		return nil, bzerrors.NewValidationError("op", fmt.Sprintf("operator %q cannot derive", op), nil)
	}
}
