// Package arrowsource exposes Apache Arrow tables and Parquet files as chart
// data sources.
package arrowsource

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/alexisbeaulieu97/bizcharts/pkg/data"
)

// Source materialises an Arrow table into rows once per refresh and serves
// reads from that snapshot.
type Source struct {
	*data.ArraySource

	mu   sync.Mutex
	path string
	mem  memory.Allocator
}

var _ data.Source = (*Source)(nil)

// FromTable builds a source from an in-memory table. Refresh is a no-op for
// such sources.
func FromTable(tbl arrow.Table) (*Source, error) {
	rows, fields, err := TableRows(tbl)
	if err != nil {
		return nil, err
	}
	return &Source{
		ArraySource: data.NewArraySource(rows, fields...),
		mem:         memory.NewGoAllocator(),
	}, nil
}

// OpenParquet reads the Parquet file at path into a new source.
func OpenParquet(ctx context.Context, path string) (*Source, error) {
	s := &Source{
		ArraySource: data.NewArraySource(nil),
		path:        path,
		mem:         memory.NewGoAllocator(),
	}
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing Parquet file, empty for table-built sources.
func (s *Source) Path() string {
	return s.path
}

// Refresh re-reads the Parquet file, replacing both rows and schema.
func (s *Source) Refresh(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.path == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tbl, err := ReadParquet(ctx, s.path, s.mem)
	if err != nil {
		return err
	}
	defer tbl.Release()

	rows, fields, err := TableRows(tbl)
	if err != nil {
		return err
	}
	s.SetFields(fields)
	s.SetRows(rows)
	return nil
}

// ReadParquet loads a Parquet file into an Arrow table. The caller releases
// the table.
func ReadParquet(ctx context.Context, path string, mem memory.Allocator) (arrow.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer f.Close()

	pf, err := file.NewParquetReader(f, file.WithReadProps(&parquet.ReaderProperties{}))
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}
	defer pf.Close()

	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	reader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}

	tbl, err := reader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet data: %w", err)
	}
	return tbl, nil
}

// TableRows converts every record of tbl into rows, with fields derived from
// the table schema.
func TableRows(tbl arrow.Table) ([]data.Row, []data.Field, error) {
	schema := tbl.Schema()
	fields := SchemaFields(schema)

	rows := make([]data.Row, 0, tbl.NumRows())
	tr := array.NewTableReader(tbl, 1024)
	defer tr.Release()

	for tr.Next() {
		rec := tr.Record()
		for i := 0; i < int(rec.NumRows()); i++ {
			row := make(data.Row, rec.NumCols())
			for c := 0; c < int(rec.NumCols()); c++ {
				v, err := cellValue(rec.Column(c), i)
				if err != nil {
					return nil, nil, fmt.Errorf("column %q row %d: %w", schema.Field(c).Name, len(rows), err)
				}
				row[schema.Field(c).Name] = v
			}
			rows = append(rows, row)
		}
	}
	if err := tr.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read arrow records: %w", err)
	}
	return rows, fields, nil
}

// SchemaFields maps Arrow column types onto chart field types.
func SchemaFields(schema *arrow.Schema) []data.Field {
	fields := make([]data.Field, 0, schema.NumFields())
	for _, f := range schema.Fields() {
		fields = append(fields, data.Field{
			Name:  f.Name,
			Type:  fieldType(f.Type),
			Label: f.Name,
		})
	}
	return fields
}

func fieldType(dt arrow.DataType) data.FieldType {
	switch dt.ID() {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64,
		arrow.FLOAT16, arrow.FLOAT32, arrow.FLOAT64,
		arrow.DECIMAL128:
		return data.FieldNumber
	case arrow.BOOL:
		return data.FieldBoolean
	case arrow.DATE32, arrow.DATE64, arrow.TIMESTAMP:
		return data.FieldDate
	case arrow.DICTIONARY:
		return data.FieldCategory
	default:
		return data.FieldString
	}
}

func cellValue(col arrow.Array, pos int) (any, error) {
	if col.IsNull(pos) {
		return nil, nil
	}

	switch col.DataType().ID() {
	case arrow.STRING:
		return col.(*array.String).Value(pos), nil
	case arrow.LARGE_STRING:
		return col.(*array.LargeString).Value(pos), nil
	case arrow.BINARY:
		return string(col.(*array.Binary).Value(pos)), nil
	case arrow.BOOL:
		return col.(*array.Boolean).Value(pos), nil
	case arrow.INT8:
		return int64(col.(*array.Int8).Value(pos)), nil
	case arrow.INT16:
		return int64(col.(*array.Int16).Value(pos)), nil
	case arrow.INT32:
		return int64(col.(*array.Int32).Value(pos)), nil
	case arrow.INT64:
		return col.(*array.Int64).Value(pos), nil
	case arrow.UINT8:
		return uint64(col.(*array.Uint8).Value(pos)), nil
	case arrow.UINT16:
		return uint64(col.(*array.Uint16).Value(pos)), nil
	case arrow.UINT32:
		return uint64(col.(*array.Uint32).Value(pos)), nil
	case arrow.UINT64:
		return col.(*array.Uint64).Value(pos), nil
	case arrow.FLOAT16:
		return float64(col.(*array.Float16).Value(pos).Float32()), nil
	case arrow.FLOAT32:
		return float64(col.(*array.Float32).Value(pos)), nil
	case arrow.FLOAT64:
		return col.(*array.Float64).Value(pos), nil
	case arrow.DECIMAL128:
		scale := col.DataType().(*arrow.Decimal128Type).Scale
		return col.(*array.Decimal128).Value(pos).ToFloat64(scale), nil
	case arrow.DATE32:
		return col.(*array.Date32).Value(pos).ToTime().UTC(), nil
	case arrow.DATE64:
		return col.(*array.Date64).Value(pos).ToTime().UTC(), nil
	case arrow.TIMESTAMP:
		unit := col.DataType().(*arrow.TimestampType).Unit
		return col.(*array.Timestamp).Value(pos).ToTime(unit).UTC(), nil
	case arrow.DICTIONARY:
		dict := col.(*array.Dictionary)
		return cellValue(dict.Dictionary(), dict.GetValueIndex(pos))
	default:
		return nil, fmt.Errorf("unsupported arrow type %s", col.DataType())
	}
}
