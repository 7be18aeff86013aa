package data

import "context"

// Transform rewrites a row set. Implementations must not retain or mutate
// the input slice's row maps beyond returning them.
type Transform interface {
	Apply(rows []Row) []Row
}

// Source is the read contract charts depend on. Reads re-run the transform
// pipeline every time; results are never cached.
type Source interface {
	// Fields returns a copy of the declared or inferred schema.
	Fields() []Field
	// All returns every row after applying the pipeline.
	All(ctx context.Context) ([]Row, error)
	// Slice selects rows [start, start+limit) of the backing data, then
	// applies the pipeline to that subset.
	Slice(ctx context.Context, start, limit int) ([]Row, error)
	// Count returns the number of backing rows, ignoring transforms.
	Count(ctx context.Context) (int, error)

	AddTransform(t Transform)
	// RemoveTransform removes the first transform identical to t and
	// reports whether one was found.
	RemoveTransform(t Transform) bool
	ClearTransforms()

	// SetRows replaces the backing rows wholesale.
	SetRows(rows []Row)
	// Refresh re-reads the data from its origin.
	Refresh(ctx context.Context) error
}

type namedTransform struct {
	name string
	fn   func([]Row) []Row
}

// NewTransform wraps fn as a Transform. Each call returns a distinct value,
// so the result can later be passed to RemoveTransform.
func NewTransform(name string, fn func([]Row) []Row) Transform {
	return &namedTransform{name: name, fn: fn}
}

func (t *namedTransform) Apply(rows []Row) []Row {
	if t.fn == nil {
		return rows
	}
	return t.fn(rows)
}

func (t *namedTransform) Name() string {
	return t.name
}

// TransformName returns the name of t when it has one.
func TransformName(t Transform) string {
	if named, ok := t.(interface{ Name() string }); ok {
		return named.Name()
	}
	return ""
}

// pipeline is the ordered transform list shared by source implementations.
// Callers provide their own locking.
type pipeline struct {
	transforms []Transform
}

func (p *pipeline) add(t Transform) {
	if t == nil {
		return
	}
	p.transforms = append(p.transforms, t)
}

func (p *pipeline) remove(t Transform) bool {
	for i, existing := range p.transforms {
		if existing == t {
			p.transforms = append(p.transforms[:i:i], p.transforms[i+1:]...)
			return true
		}
	}
	return false
}

func (p *pipeline) snapshot() []Transform {
	return append([]Transform(nil), p.transforms...)
}

// ApplyTransforms runs rows through transforms left to right.
func ApplyTransforms(rows []Row, transforms []Transform) []Row {
	for _, t := range transforms {
		rows = t.Apply(rows)
	}
	if rows == nil {
		rows = []Row{}
	}
	return rows
}

func cloneRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}

// clampWindow bounds [start, start+limit) to n backing rows.
func clampWindow(start, limit, n int) (int, int) {
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	if limit < 0 {
		limit = 0
	}
	end := start + limit
	if end > n || end < start {
		end = n
	}
	return start, end
}
