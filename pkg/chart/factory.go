// Package chart creates charts, renders them into host containers and
// exports the result.
package chart

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/alexisbeaulieu97/bizcharts/pkg/data"
	bzerrors "github.com/alexisbeaulieu97/bizcharts/pkg/errors"
	"github.com/alexisbeaulieu97/bizcharts/pkg/events"
	"github.com/alexisbeaulieu97/bizcharts/pkg/host"
	"github.com/alexisbeaulieu97/bizcharts/pkg/theme"
)

// Version of the chart engine.
const Version = "0.1.0"

// KindLine is the only chart kind with a renderer.
const KindLine = "line"

const (
	defaultWidth  = 800
	defaultHeight = 400
)

type builder func(opts Options, logger zerolog.Logger) (renderer, error)

// kinds is filled in init: the line builder validates options, and the
// chart_type rule consults kinds.
var kinds map[string]builder

func init() {
	kinds = map[string]builder{
		KindLine: buildLine,
	}
}

func buildLine(opts Options, logger zerolog.Logger) (renderer, error) {
	var line LineOptions
	switch o := opts.(type) {
	case LineOptions:
		line = o
	case *LineOptions:
		if o == nil {
			return nil, bzerrors.NewValidationError("options", "line options are required", nil)
		}
		line = *o
	default:
		return nil, bzerrors.UnsupportedType("line options", fmt.Sprintf("%T", opts))
	}
	if err := Validate(line); err != nil {
		return nil, err
	}
	return &lineRenderer{opts: line, logger: logger}, nil
}

var exportFormats = map[string]struct{}{
	"png":  {},
	"jpeg": {},
	"jpg":  {},
	"svg":  {},
	"pdf":  {},
}

// Kinds lists the chart kinds Create accepts.
func Kinds() []string {
	out := make([]string, 0, len(kinds))
	for kind := range kinds {
		out = append(out, kind)
	}
	sort.Strings(out)
	return out
}

// IsKnownKind reports whether Create accepts kind.
func IsKnownKind(kind string) bool {
	_, ok := kinds[strings.ToLower(strings.TrimSpace(kind))]
	return ok
}

// Option configures a chart at creation.
type Option func(*Chart)

// WithLogger sets the chart's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Chart) {
		c.logger = logger
	}
}

// WithPublisher receives lifecycle events.
func WithPublisher(p events.Publisher) Option {
	return func(c *Chart) {
		c.publisher = p
	}
}

// WithDocument resolves lookup-key targets.
func WithDocument(doc *host.Document) Option {
	return func(c *Chart) {
		c.document = doc
	}
}

// WithTheme replaces the default theme.
func WithTheme(th theme.Theme) Option {
	return func(c *Chart) {
		c.theme = th.Clone()
	}
}

// WithSize sets the fallback pixel size.
func WithSize(width, height int) Option {
	return func(c *Chart) {
		if width > 0 {
			c.width = width
		}
		if height > 0 {
			c.height = height
		}
	}
}

// WithRenderDefaults sets the values Render falls back to for omitted
// render options.
func WithRenderDefaults(defaults RenderOptions) Option {
	return func(c *Chart) {
		c.defaults = defaults
	}
}

// Create builds a chart of the named kind over source. kind is matched
// case-insensitively.
func Create(kind string, source data.Source, options Options, opts ...Option) (*Chart, error) {
	key := strings.ToLower(strings.TrimSpace(kind))
	build, ok := kinds[key]
	if !ok {
		return nil, bzerrors.UnsupportedType("chart type", kind)
	}
	if source == nil {
		return nil, bzerrors.NewValidationError("source", "data source is required", nil)
	}

	c := &Chart{
		id:       uuid.NewString(),
		kind:     key,
		source:   source,
		logger:   zerolog.Nop(),
		theme:    theme.Default(),
		width:    defaultWidth,
		height:   defaultHeight,
		defaults: RenderOptions{DevicePixelRatio: 1},
		state:    StateCreated,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.logger = c.logger.With().Str("chart_id", c.id).Str("chart_type", key).Logger()

	r, err := build(options, c.logger)
	if err != nil {
		return nil, err
	}
	c.renderer = r
	return c, nil
}
