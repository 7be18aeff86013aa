package chart

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/gogpu/gg/recording"

	bzerrors "github.com/alexisbeaulieu97/bizcharts/pkg/errors"
	"github.com/alexisbeaulieu97/bizcharts/pkg/surface"
)

const defaultQuality = 0.9

// ExportFormats lists the formats Export recognizes.
func ExportFormats() []string {
	return []string{"png", "jpeg", "svg", "pdf"}
}

// Export encodes the last successful render. png and jpeg encode the
// attached raster; svg and pdf replay the draw into a vector recording and
// need a registered recording backend.
func (c *Chart) Export(ctx context.Context, format string, opts ExportOptions) ([]byte, error) {
	c.mu.Lock()
	state := c.state
	raster := c.surface
	last := c.frame
	renderer := c.renderer
	c.mu.Unlock()

	if state != StateRendered {
		return nil, bzerrors.InvalidState("export", state.String())
	}

	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case "png", "jpeg", "jpg":
		if raster == nil {
			return nil, bzerrors.InvalidState("export", "render failed")
		}
		return encodeAsync(ctx, func(buf *bytes.Buffer) error {
			if f == "png" {
				return raster.EncodePNG(buf)
			}
			return raster.EncodeJPEG(buf, jpegQuality(opts.Quality))
		})
	case "svg", "pdf":
		if last == nil {
			return nil, bzerrors.InvalidState("export", "render failed")
		}
		backend, err := recording.NewBackend(f)
		if err != nil {
			return nil, bzerrors.NotImplemented(f+" export").WithContext(map[string]interface{}{"cause": err.Error()})
		}
		vec := surface.NewVector(int(last.width), int(last.height))
		if err := renderer.draw(vec, *last); err != nil {
			return nil, bzerrors.RenderFailure(c.id, err)
		}
		if err := vec.Finish().Playback(backend); err != nil {
			return nil, fmt.Errorf("replay %s: %w", f, err)
		}
		writer, ok := backend.(recording.WriterBackend)
		if !ok {
			return nil, bzerrors.NotImplemented(f + " export")
		}
		return encodeAsync(ctx, func(buf *bytes.Buffer) error {
			_, err := writer.WriteTo(buf)
			return err
		})
	default:
		return nil, bzerrors.UnsupportedType("export format", format)
	}
}

// jpegQuality maps a ratio in (0, 1] onto the 1..100 encoder scale.
func jpegQuality(ratio float64) int {
	if ratio <= 0 {
		ratio = defaultQuality
	}
	q := int(math.Round(ratio * 100))
	if q < 1 {
		q = 1
	}
	if q > 100 {
		q = 100
	}
	return q
}

func encodeAsync(ctx context.Context, encode func(*bytes.Buffer) error) ([]byte, error) {
	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		var buf bytes.Buffer
		err := encode(&buf)
		done <- result{data: buf.Bytes(), err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("encode: %w", res.err)
		}
		return res.data, nil
	}
}
