package chart

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/bizcharts/pkg/data"
	bzerrors "github.com/alexisbeaulieu97/bizcharts/pkg/errors"
	"github.com/alexisbeaulieu97/bizcharts/pkg/events"
	"github.com/alexisbeaulieu97/bizcharts/pkg/host"
	"github.com/alexisbeaulieu97/bizcharts/pkg/theme"
)

func newSalesChart(t *testing.T, opts ...Option) *Chart {
	t.Helper()

	src := data.NewArraySourceOrdered(salesRows(), []string{"month", "sales", "cost"})
	c, err := Create("line", src, LineOptions{Series: SeriesList{{Field: "sales"}}}, opts...)
	require.NoError(t, err)
	return c
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Subscribe(string, events.Handler) (events.Subscription, error) {
	return nil, errors.New("not supported")
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type failingSource struct {
	*data.ArraySource
}

func (failingSource) All(context.Context) ([]data.Row, error) {
	return nil, errors.New("backend offline")
}

func TestCreateRejectsUnknownKind(t *testing.T) {
	t.Parallel()

	_, err := Create("radar", data.NewArraySource(nil), LineOptions{})
	require.ErrorIs(t, err, bzerrors.ErrUnsupportedType)
}

func TestCreateKindIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	c, err := Create("LINE", data.NewArraySource(salesRows()), &LineOptions{Series: SeriesList{{Field: "sales"}}})
	require.NoError(t, err)
	require.Equal(t, KindLine, c.Kind())
	require.NotEmpty(t, c.ID())
	require.Equal(t, StateCreated, c.State())

	w, h := c.Size()
	require.Equal(t, 800, w)
	require.Equal(t, 400, h)
}

func TestCreateValidatesOptions(t *testing.T) {
	t.Parallel()

	_, err := Create("line", data.NewArraySource(nil), LineOptions{})
	var verr *bzerrors.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "series", verr.Field)

	_, err = Create("line", data.NewArraySource(nil), LineOptions{Series: SeriesList{{Field: "sales", Color: "nope"}}})
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "series[0].color", verr.Field)

	_, err = Create("line", nil, LineOptions{Series: SeriesList{{Field: "sales"}}})
	require.ErrorAs(t, err, &verr)
}

func TestChartIDsAreUnique(t *testing.T) {
	t.Parallel()

	a := newSalesChart(t)
	b := newSalesChart(t)
	require.NotEqual(t, a.ID(), b.ID())
}

func TestRenderAttachesSurface(t *testing.T) {
	t.Parallel()

	pub := &recordingPublisher{}
	c := newSalesChart(t, WithPublisher(pub))
	region := host.NewRegion(0, 0)

	require.NoError(t, c.Render(context.Background(), host.Ref(region), RenderOptions{}))
	require.Equal(t, StateRendered, c.State())
	require.NoError(t, c.LastError())

	s := region.Surface()
	require.NotNil(t, s)
	require.Equal(t, 800, s.Width())
	require.Equal(t, 400, s.Height())
	require.Equal(t, []string{events.ChartRendered}, pub.types())
}

func TestRenderDimensionPrecedence(t *testing.T) {
	t.Parallel()

	c := newSalesChart(t)
	region := host.NewRegion(640, 320)

	require.NoError(t, c.Render(context.Background(), host.Ref(region), RenderOptions{}))
	require.Equal(t, 640, region.Surface().Width())

	require.NoError(t, c.Render(context.Background(), host.Ref(region), RenderOptions{Width: 300, Height: 200, DevicePixelRatio: 2}))
	require.Equal(t, 600, region.Surface().Width())
	require.Equal(t, 400, region.Surface().Height())

	w, h := c.Size()
	require.Equal(t, 300, w)
	require.Equal(t, 200, h)
}

func TestRenderResolvesLookupKey(t *testing.T) {
	t.Parallel()

	doc := host.NewDocument()
	region := host.NewRegion(0, 0)
	doc.Register("sales", region)

	c := newSalesChart(t, WithDocument(doc))
	require.NoError(t, c.Render(context.Background(), host.Key("#sales"), RenderOptions{}))
	require.NotNil(t, region.Surface())

	err := c.Render(context.Background(), host.Key("#missing"), RenderOptions{})
	require.ErrorIs(t, err, bzerrors.ErrNotFound)
}

func TestRenderFailureIsShownNotReturned(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	pub := &recordingPublisher{}
	src := failingSource{data.NewArraySource(salesRows())}
	c, err := Create("line", src, LineOptions{Series: SeriesList{{Field: "sales"}}},
		WithLogger(zerolog.New(buf)), WithPublisher(pub))
	require.NoError(t, err)

	region := host.NewRegion(0, 0)
	require.NoError(t, c.Render(context.Background(), host.Ref(region), RenderOptions{}))

	require.ErrorIs(t, c.LastError(), bzerrors.ErrRenderFailure)
	require.Nil(t, region.Surface())
	require.Contains(t, region.Error(), "Error rendering chart")
	require.Contains(t, region.Error(), "backend offline")
	require.Contains(t, buf.String(), "render failed")
	require.Equal(t, []string{events.ChartRenderFailed}, pub.types())

	_, err = c.Export(context.Background(), "png", ExportOptions{})
	require.ErrorIs(t, err, bzerrors.ErrInvalidState)
}

func TestUpdateRequiresRender(t *testing.T) {
	t.Parallel()

	c := newSalesChart(t)
	require.ErrorIs(t, c.Update(context.Background()), bzerrors.ErrInvalidState)

	region := host.NewRegion(0, 0)
	require.NoError(t, c.Render(context.Background(), host.Ref(region), RenderOptions{}))
	first := region.Surface()

	c.Source().SetRows(salesRows()[:3])
	require.NoError(t, c.Update(context.Background()))
	require.NotSame(t, first, region.Surface())
}

func TestDestroyIsTerminal(t *testing.T) {
	t.Parallel()

	pub := &recordingPublisher{}
	c := newSalesChart(t, WithPublisher(pub))
	region := host.NewRegion(0, 0)
	require.NoError(t, c.Render(context.Background(), host.Ref(region), RenderOptions{}))

	require.NoError(t, c.Destroy())
	require.True(t, region.Empty())
	require.Equal(t, StateDestroyed, c.State())

	require.ErrorIs(t, c.Destroy(), bzerrors.ErrInvalidState)
	require.ErrorIs(t, c.Render(context.Background(), host.Ref(region), RenderOptions{}), bzerrors.ErrInvalidState)
	require.ErrorIs(t, c.Update(context.Background()), bzerrors.ErrInvalidState)
	require.ErrorIs(t, c.SetTheme(context.Background(), theme.Dark()), bzerrors.ErrInvalidState)
	_, err := c.Export(context.Background(), "png", ExportOptions{})
	require.ErrorIs(t, err, bzerrors.ErrInvalidState)

	require.Equal(t, []string{events.ChartRendered, events.ChartDestroyed}, pub.types())
}

type blockingSource struct {
	*data.ArraySource
	started chan struct{}
	release chan struct{}
}

func (s blockingSource) All(ctx context.Context) ([]data.Row, error) {
	close(s.started)
	<-s.release
	return s.ArraySource.All(ctx)
}

func TestDestroyDuringFetchDiscardsDraw(t *testing.T) {
	t.Parallel()

	src := blockingSource{
		ArraySource: data.NewArraySource(salesRows()),
		started:     make(chan struct{}),
		release:     make(chan struct{}),
	}
	c, err := Create("line", src, LineOptions{Series: SeriesList{{Field: "sales"}}})
	require.NoError(t, err)

	region := host.NewRegion(0, 0)
	done := make(chan error, 1)
	go func() {
		done <- c.Render(context.Background(), host.Ref(region), RenderOptions{})
	}()

	<-src.started
	require.NoError(t, c.Destroy())
	close(src.release)
	require.NoError(t, <-done)

	require.True(t, region.Empty())
	require.NoError(t, c.LastError())
}

func TestRedrawAfterDestroyIsRejected(t *testing.T) {
	t.Parallel()

	pub := &recordingPublisher{}
	c := newSalesChart(t, WithPublisher(pub))
	region := host.NewRegion(0, 0)
	require.NoError(t, c.Render(context.Background(), host.Ref(region), RenderOptions{}))

	// Update and SetTheme check the state before redrawing; Destroy may land
	// between that check and the redraw.
	require.NoError(t, c.Destroy())
	require.NotPanics(t, func() {
		require.ErrorIs(t, c.redraw(context.Background(), events.ChartUpdated), bzerrors.ErrInvalidState)
	})

	require.True(t, region.Empty())
	require.Equal(t, []string{events.ChartRendered, events.ChartDestroyed}, pub.types())
}

func TestSetThemeRedraws(t *testing.T) {
	t.Parallel()

	pub := &recordingPublisher{}
	c := newSalesChart(t, WithPublisher(pub))

	require.NoError(t, c.SetTheme(context.Background(), theme.Dark()))
	require.Equal(t, "Dark", c.Theme().Name)
	require.Empty(t, pub.types(), "no redraw before the first render")

	region := host.NewRegion(0, 0)
	require.NoError(t, c.Render(context.Background(), host.Ref(region), RenderOptions{}))
	require.NoError(t, c.SetTheme(context.Background(), theme.Default()))
	require.Equal(t, []string{events.ChartRendered, events.ChartUpdated}, pub.types())
}

func TestVersionAndKinds(t *testing.T) {
	t.Parallel()

	require.Equal(t, "0.1.0", Version)
	require.Equal(t, []string{"line"}, Kinds())
	require.True(t, IsKnownKind(" Line "))
	require.False(t, IsKnownKind("pie"))
}
