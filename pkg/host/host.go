// Package host defines how charts mount their output into a hosting
// application.
package host

import (
	"strings"
	"sync"

	bzerrors "github.com/alexisbeaulieu97/bizcharts/pkg/errors"
	"github.com/alexisbeaulieu97/bizcharts/pkg/surface"
)

// Container receives a chart's rendered surface. A container shows at most
// one surface or one error message at a time.
type Container interface {
	// Size reports the measured size, or zeros when unknown.
	Size() (width, height int)
	// Attach makes s the container's sole child.
	Attach(s *surface.Raster)
	Clear()
	// ShowError replaces the content with a visible error message.
	ShowError(msg string)
}

// Region is an in-memory Container.
type Region struct {
	mu      sync.RWMutex
	width   int
	height  int
	surface *surface.Raster
	message string
}

var _ Container = (*Region)(nil)

// NewRegion creates a region measuring width x height. Zero sizes mean the
// region has no intrinsic size.
func NewRegion(width, height int) *Region {
	return &Region{width: width, height: height}
}

func (r *Region) Size() (int, int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.width, r.height
}

// Resize changes the measured size.
func (r *Region) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = width, height
}

func (r *Region) Attach(s *surface.Raster) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.surface = s
	r.message = ""
}

func (r *Region) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.surface = nil
	r.message = ""
}

func (r *Region) ShowError(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.surface = nil
	r.message = msg
}

// Surface returns the attached surface, if any.
func (r *Region) Surface() *surface.Raster {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.surface
}

// Error returns the displayed error message, if any.
func (r *Region) Error() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.message
}

// Empty reports whether nothing is displayed.
func (r *Region) Empty() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.surface == nil && r.message == ""
}

// Document resolves lookup keys such as "#sales" to containers.
type Document struct {
	mu         sync.RWMutex
	containers map[string]Container
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{containers: make(map[string]Container)}
}

// Register binds key to c. A leading '#' is ignored.
func (d *Document) Register(key string, c Container) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.containers[normalizeKey(key)] = c
}

// Lookup returns the container registered under key.
func (d *Document) Lookup(key string) (Container, bool) {
	if d == nil {
		return nil, false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	c, ok := d.containers[normalizeKey(key)]
	return c, ok
}

func normalizeKey(key string) string {
	return strings.TrimPrefix(strings.TrimSpace(key), "#")
}

// Target names where a chart renders: a container reference or a lookup key.
type Target struct {
	container Container
	key       string
}

// Ref targets c directly.
func Ref(c Container) Target {
	return Target{container: c}
}

// Key targets the container registered under key.
func Key(key string) Target {
	return Target{key: key}
}

// String describes the target for logs and errors.
func (t Target) String() string {
	if t.container != nil {
		return "<container>"
	}
	return t.key
}

// Resolve finds the container t points at.
func (t Target) Resolve(doc *Document) (Container, error) {
	if t.container != nil {
		return t.container, nil
	}
	if c, ok := doc.Lookup(t.key); ok && c != nil {
		return c, nil
	}
	return nil, bzerrors.NotFound(t.key)
}
