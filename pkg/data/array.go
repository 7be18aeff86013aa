package data

import (
	"context"
	"sync"
)

// ArraySource is an in-memory Source. It keeps its own copy of every row so
// callers can reuse their slices and maps after construction.
type ArraySource struct {
	mu     sync.RWMutex
	rows   []Row
	fields []Field
	pipe   pipeline
}

var _ Source = (*ArraySource)(nil)

// NewArraySource copies rows and uses fields as the schema. When no fields
// are given they are inferred from the first row with keys in sorted order.
func NewArraySource(rows []Row, fields ...Field) *ArraySource {
	s := &ArraySource{rows: cloneRows(rows)}
	if len(fields) > 0 {
		s.fields = append([]Field(nil), fields...)
	} else {
		s.fields = InferFields(rows)
	}
	return s
}

// NewArraySourceOrdered is NewArraySource with an explicit column order for
// inference, as produced by tabular loaders.
func NewArraySourceOrdered(rows []Row, columns []string) *ArraySource {
	return &ArraySource{
		rows:   cloneRows(rows),
		fields: InferFieldsOrdered(rows, columns),
	}
}

func (s *ArraySource) Fields() []Field {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Field(nil), s.fields...)
}

func (s *ArraySource) All(ctx context.Context) ([]Row, error) {
	return s.read(ctx, 0, -1)
}

func (s *ArraySource) Slice(ctx context.Context, start, limit int) ([]Row, error) {
	if limit < 0 {
		limit = 0
	}
	return s.read(ctx, start, limit)
}

func (s *ArraySource) read(ctx context.Context, start, limit int) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	n := len(s.rows)
	lo, hi := 0, n
	if limit >= 0 {
		lo, hi = clampWindow(start, limit, n)
	}
	subset := cloneRows(s.rows[lo:hi])
	transforms := s.pipe.snapshot()
	s.mu.RUnlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ApplyTransforms(subset, transforms), nil
}

func (s *ArraySource) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows), nil
}

func (s *ArraySource) AddTransform(t Transform) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pipe.add(t)
}

func (s *ArraySource) RemoveTransform(t Transform) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pipe.remove(t)
}

func (s *ArraySource) ClearTransforms() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pipe.transforms = nil
}

// Transforms returns the current pipeline in application order.
func (s *ArraySource) Transforms() []Transform {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pipe.snapshot()
}

// SetRows replaces the backing rows. The schema is left as is.
func (s *ArraySource) SetRows(rows []Row) {
	copied := cloneRows(rows)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = copied
}

// SetFields replaces the schema.
func (s *ArraySource) SetFields(fields []Field) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields = append([]Field(nil), fields...)
}

// Refresh is a no-op: in-memory rows have no origin to re-read.
func (s *ArraySource) Refresh(ctx context.Context) error {
	return ctx.Err()
}
