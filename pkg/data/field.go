// Package data provides the tabular data-source abstraction used by charts
// and the transform pipeline applied on every read.
package data

import (
	"sort"
	"strings"
	"time"
)

// FieldType classifies the values of a column.
type FieldType string

const (
	FieldString   FieldType = "string"
	FieldNumber   FieldType = "number"
	FieldDate     FieldType = "date"
	FieldBoolean  FieldType = "boolean"
	FieldCategory FieldType = "category"
)

// Field describes one column of a data source.
type Field struct {
	Name       string    `yaml:"name" validate:"required"`
	Type       FieldType `yaml:"type" validate:"omitempty,oneof=string number date boolean category"`
	Label      string    `yaml:"label,omitempty"`
	Format     string    `yaml:"format,omitempty"`
	Categories []string  `yaml:"categories,omitempty"`
}

// Row is a single record keyed by field name.
type Row map[string]any

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// dateLayouts are tried in order when classifying string values.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// InferFields derives fields from the first row, visiting keys in sorted
// order. Rows beyond the first are not sampled.
func InferFields(rows []Row) []Field {
	if len(rows) == 0 {
		return []Field{}
	}
	keys := make([]string, 0, len(rows[0]))
	for k := range rows[0] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return InferFieldsOrdered(rows, keys)
}

// InferFieldsOrdered derives fields for the given column order from the
// first row.
func InferFieldsOrdered(rows []Row, columns []string) []Field {
	fields := make([]Field, 0, len(columns))
	var sample Row
	if len(rows) > 0 {
		sample = rows[0]
	}
	for _, name := range columns {
		fields = append(fields, Field{
			Name:  name,
			Type:  InferType(sample[name]),
			Label: name,
		})
	}
	return fields
}

// InferType classifies a single value.
func InferType(v any) FieldType {
	switch typed := v.(type) {
	case nil:
		return FieldString
	case bool:
		return FieldBoolean
	case time.Time:
		return FieldDate
	case string:
		if strings.Contains(typed, "-") {
			if _, ok := ParseDate(typed); ok {
				return FieldDate
			}
		}
		return FieldString
	}
	if _, ok := AsFloat(v); ok {
		return FieldNumber
	}
	return FieldString
}

// ParseDate parses s with the supported date layouts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// AsFloat converts Go numeric kinds to float64. Other values report false.
func AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
