package chart

import (
	"context"
	"fmt"
	"math"
	"sync"

	"dario.cat/mergo"
	"github.com/rs/zerolog"

	"github.com/alexisbeaulieu97/bizcharts/pkg/data"
	bzerrors "github.com/alexisbeaulieu97/bizcharts/pkg/errors"
	"github.com/alexisbeaulieu97/bizcharts/pkg/events"
	"github.com/alexisbeaulieu97/bizcharts/pkg/host"
	"github.com/alexisbeaulieu97/bizcharts/pkg/surface"
	"github.com/alexisbeaulieu97/bizcharts/pkg/theme"
)

// State is a chart's lifecycle position.
type State int

const (
	StateCreated State = iota
	StateRendered
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRendered:
		return "rendered"
	case StateDestroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Chart binds a data source, options and theme to a host container.
//
// A chart guards its own state, but concurrent Render and Update calls are
// not serialized; callers that render from several goroutines must order
// them.
type Chart struct {
	id        string
	kind      string
	source    data.Source
	renderer  renderer
	logger    zerolog.Logger
	publisher events.Publisher
	document  *host.Document

	mu         sync.Mutex
	theme      theme.Theme
	width      int
	height     int
	defaults   RenderOptions
	render     RenderOptions
	state      State
	container  host.Container
	surface    *surface.Raster
	frame      *frame
	generation uint64
	lastErr    error
}

// ID returns the chart's unique identifier.
func (c *Chart) ID() string { return c.id }

// Kind returns the normalized chart kind.
func (c *Chart) Kind() string { return c.kind }

// Source returns the chart's data source.
func (c *Chart) Source() data.Source { return c.source }

// State reports the lifecycle state.
func (c *Chart) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Theme returns a copy of the chart's theme.
func (c *Chart) Theme() theme.Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.theme.Clone()
}

// Size returns the dimensions of the last render, or the defaults.
func (c *Chart) Size() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

// LastError returns the RenderFailure of the most recent draw, or nil when
// it succeeded.
func (c *Chart) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Render draws the chart into the container target points at.
//
// An unresolvable target is returned as a NotFound error. Failures while
// fetching rows or drawing are shown in the container and reported through
// LastError rather than returned.
func (c *Chart) Render(ctx context.Context, target host.Target, opts RenderOptions) error {
	c.mu.Lock()
	if c.state == StateDestroyed {
		c.mu.Unlock()
		return bzerrors.InvalidState("render", c.state.String())
	}
	container, err := target.Resolve(c.document)
	if err != nil {
		c.mu.Unlock()
		return err
	}

	width, height := c.width, c.height
	if w, h := container.Size(); w > 0 && h > 0 {
		width, height = w, h
	}
	if opts.Width > 0 {
		width = opts.Width
	}
	if opts.Height > 0 {
		height = opts.Height
	}
	if err := mergo.Merge(&opts, c.defaults); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("merge render options: %w", err)
	}
	opts.Width, opts.Height = width, height

	c.width, c.height = width, height
	c.render = opts
	c.container = container
	c.state = StateRendered
	c.mu.Unlock()

	c.logger.Debug().Str("target", target.String()).Int("width", width).Int("height", height).Msg("rendering chart")
	return c.redraw(ctx, events.ChartRendered)
}

// Update clears the container and redraws from a fresh read of the source.
func (c *Chart) Update(ctx context.Context) error {
	c.mu.Lock()
	state := c.state
	c.mu.Unlock()
	if state != StateRendered {
		return bzerrors.InvalidState("update", state.String())
	}
	return c.redraw(ctx, events.ChartUpdated)
}

// SetTheme replaces the theme and redraws when the chart is rendered.
func (c *Chart) SetTheme(ctx context.Context, th theme.Theme) error {
	c.mu.Lock()
	state := c.state
	if state == StateDestroyed {
		c.mu.Unlock()
		return bzerrors.InvalidState("set theme", state.String())
	}
	c.theme = th.Clone()
	c.mu.Unlock()

	if state == StateRendered {
		return c.redraw(ctx, events.ChartUpdated)
	}
	return nil
}

// Destroy clears the container and releases the surface. A destroyed chart
// rejects every further operation.
func (c *Chart) Destroy() error {
	c.mu.Lock()
	if c.state == StateDestroyed {
		c.mu.Unlock()
		return bzerrors.InvalidState("destroy", c.state.String())
	}
	c.state = StateDestroyed
	c.generation++
	container := c.container
	raster := c.surface
	c.container = nil
	c.surface = nil
	c.frame = nil
	c.mu.Unlock()

	if container != nil {
		container.Clear()
	}
	if raster != nil {
		if err := raster.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("close surface")
		}
	}
	c.publish(context.Background(), events.ChartDestroyed, nil)
	return nil
}

// redraw attaches a fresh surface, fetches rows and draws them. A redraw
// superseded by Destroy or a newer redraw while fetching is discarded; one
// that starts after Destroy returns InvalidState.
func (c *Chart) redraw(ctx context.Context, eventType string) error {
	c.mu.Lock()
	if c.state != StateRendered || c.container == nil {
		state := c.state
		c.mu.Unlock()
		return bzerrors.InvalidState("redraw", state.String())
	}
	c.generation++
	gen := c.generation
	container := c.container
	opts := c.render
	th := c.theme

	if opts.BaseFontSize > 0 && th.Font.Size > 0 {
		th = th.ScaleFonts(opts.BaseFontSize / th.Font.Size)
	}
	ratio := opts.DevicePixelRatio
	if ratio <= 0 {
		ratio = 1
	}
	raster := surface.NewRaster(
		int(math.Round(float64(opts.Width)*ratio)),
		int(math.Round(float64(opts.Height)*ratio)),
	)
	raster.Scale(ratio, ratio)
	container.Clear()
	container.Attach(raster)
	c.mu.Unlock()

	rows, err := c.source.All(ctx)

	c.mu.Lock()
	if c.state != StateRendered || c.generation != gen {
		c.mu.Unlock()
		c.logger.Debug().Msg("discarding stale render")
		_ = raster.Close()
		return nil
	}
	var f frame
	if err == nil {
		f = frame{
			rows:   rows,
			fields: c.source.Fields(),
			theme:  th,
			render: opts,
			width:  float64(opts.Width),
			height: float64(opts.Height),
		}
		err = c.renderer.draw(raster, f)
	}
	if err != nil {
		c.lastErr = bzerrors.RenderFailure(c.id, err)
		c.surface = nil
		c.frame = nil
		container.ShowError("Error rendering chart: " + err.Error())
	} else {
		c.lastErr = nil
		c.surface = raster
		c.frame = &f
	}
	c.mu.Unlock()

	if err != nil {
		_ = raster.Close()
		c.logger.Error().Err(err).Msg("render failed")
		c.publish(ctx, events.ChartRenderFailed, map[string]interface{}{"error": err.Error()})
		return nil
	}
	c.publish(ctx, eventType, map[string]interface{}{
		"rows":   len(rows),
		"width":  opts.Width,
		"height": opts.Height,
	})
	return nil
}

func (c *Chart) publish(ctx context.Context, eventType string, payload map[string]interface{}) {
	if c.publisher == nil {
		return
	}
	err := c.publisher.Publish(ctx, events.Event{Type: eventType, ChartID: c.id, Payload: payload})
	if err != nil {
		c.logger.Warn().Err(err).Str("event_type", eventType).Msg("publish event")
	}
}
