// Package dataload reads chart data files into data sources.
package dataload

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/alexisbeaulieu97/bizcharts/pkg/data"
	"github.com/alexisbeaulieu97/bizcharts/pkg/data/arrowsource"
	bzerrors "github.com/alexisbeaulieu97/bizcharts/pkg/errors"
)

// Format identifies a data file encoding.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatParquet Format = "parquet"
)

// DetectFormat maps a file extension to its Format.
func DetectFormat(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".parquet":
		return FormatParquet, nil
	default:
		return "", bzerrors.UnsupportedType("data file", ext)
	}
}

// Load opens path as a data source. Declared fields replace the inferred
// schema when given.
func Load(ctx context.Context, path string, fields []data.Field) (data.Source, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	if format == FormatParquet {
		src, err := arrowsource.OpenParquet(ctx, path)
		if err != nil {
			return nil, err
		}
		if len(fields) > 0 {
			src.SetFields(fields)
		}
		return src, nil
	}

	rows, columns, err := ReadRows(ctx, path)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		return data.NewArraySource(rows, fields...), nil
	}
	if columns == nil {
		return data.NewArraySource(rows), nil
	}
	return data.NewArraySourceOrdered(rows, columns), nil
}

// Reload re-reads path into src: Parquet sources refresh from their file,
// others get their rows replaced.
func Reload(ctx context.Context, src data.Source, path string) error {
	if pq, ok := src.(*arrowsource.Source); ok {
		return pq.Refresh(ctx)
	}
	rows, _, err := ReadRows(ctx, path)
	if err != nil {
		return err
	}
	src.SetRows(rows)
	return nil
}

// ReadRows reads a CSV or JSON file. columns is the header order for CSV
// and nil for JSON, whose objects carry no order.
func ReadRows(ctx context.Context, path string) ([]data.Row, []string, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	switch format {
	case FormatCSV:
		return readCSV(ctx, f)
	case FormatJSON:
		rows, err := readJSON(f)
		return rows, nil, err
	default:
		return nil, nil, bzerrors.UnsupportedType("row file", string(format))
	}
}

func readCSV(ctx context.Context, r io.Reader) ([]data.Row, []string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []data.Row{}, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}
	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = strings.TrimSpace(name)
	}

	var rows []data.Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read csv: %w", err)
		}
		if len(rows)%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
		}
		row := make(data.Row, len(columns))
		for i, name := range columns {
			if i < len(record) {
				row[name] = parseCell(record[i])
			} else {
				row[name] = nil
			}
		}
		rows = append(rows, row)
	}
	if rows == nil {
		rows = []data.Row{}
	}
	return rows, columns, nil
}

// parseCell types a CSV cell: empty is nil, then float, then true/false,
// else the raw string. Dates stay strings; field inference recognizes them.
func parseCell(cell string) any {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		return f
	}
	switch strings.ToLower(cell) {
	case "true":
		return true
	case "false":
		return false
	}
	return cell
}

func readJSON(r io.Reader) ([]data.Row, error) {
	var records []map[string]any
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode json rows: %w", err)
	}
	rows := make([]data.Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, data.Row(rec))
	}
	return rows, nil
}
