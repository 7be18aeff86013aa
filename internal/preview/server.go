// Package preview serves a rendered chart over HTTP and pushes a websocket
// notification whenever the chart is redrawn.
package preview

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/alexisbeaulieu97/bizcharts/internal/dataload"
	"github.com/alexisbeaulieu97/bizcharts/pkg/chart"
	"github.com/alexisbeaulieu97/bizcharts/pkg/events"
)

const (
	defaultMaxClients = 32
	pingInterval      = 30 * time.Second
	readTimeout       = 60 * time.Second
	writeTimeout      = 10 * time.Second
)

// Config tunes a Server.
type Config struct {
	// Addr is the listen address used by Run.
	Addr string
	// DataPath is reloaded into the chart's source when it changes. Empty
	// disables watching.
	DataPath   string
	MaxClients int
	Logger     zerolog.Logger
}

// Message is pushed to websocket clients.
type Message struct {
	Type     string `json:"type"`
	Revision int64  `json:"revision"`
	Error    string `json:"error,omitempty"`
}

// Server exposes a rendered chart.
type Server struct {
	chart    *chart.Chart
	cfg      Config
	logger   zerolog.Logger
	upgrader websocket.Upgrader

	clientsMu sync.RWMutex
	clients   map[*client]struct{}
	// pending counts upgrades holding a slot but not yet in clients.
	pending int

	revision atomic.Int64
	subs     []events.Subscription
	stop     chan struct{}
	stopOnce sync.Once
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(messageType int, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(messageType, payload)
}

// New wires a server to c. publisher must be the one c publishes to; the
// server subscribes to redraw events on it.
func New(c *chart.Chart, publisher events.Publisher, cfg Config) (*Server, error) {
	if c == nil {
		return nil, errors.New("preview: chart is required")
	}
	if cfg.MaxClients <= 0 {
		cfg.MaxClients = defaultMaxClients
	}

	s := &Server{
		chart:  c,
		cfg:    cfg,
		logger: cfg.Logger.With().Str("component", "preview").Logger(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients: make(map[*client]struct{}),
		stop:    make(chan struct{}),
	}

	if publisher != nil {
		for _, eventType := range []string{events.ChartRendered, events.ChartUpdated, events.ChartRenderFailed} {
			sub, err := publisher.Subscribe(eventType, s.onChartEvent)
			if err != nil {
				return nil, fmt.Errorf("subscribe %s: %w", eventType, err)
			}
			s.subs = append(s.subs, sub)
		}
	}
	return s, nil
}

// Handler returns the HTTP routes: / (page), /chart.png and /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/chart.png", s.handleChart)
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// Run serves until ctx is cancelled, watching the data file when one is
// configured.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 2)
	if s.cfg.DataPath != "" {
		go func() {
			if err := s.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- err
			}
		}()
	}
	go func() {
		s.logger.Info().Str("addr", s.cfg.Addr).Msg("preview listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	s.Close()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// Close disconnects websocket clients and drops event subscriptions.
func (s *Server) Close() {
	s.stopOnce.Do(func() {
		close(s.stop)
		for _, sub := range s.subs {
			sub.Unsubscribe()
		}
	})
}

// Reload re-reads the data file and redraws the chart.
func (s *Server) Reload(ctx context.Context) error {
	if err := dataload.Reload(ctx, s.chart.Source(), s.cfg.DataPath); err != nil {
		return fmt.Errorf("reload %s: %w", s.cfg.DataPath, err)
	}
	return s.chart.Update(ctx)
}

// ClientCount reports connected websocket clients.
func (s *Server) ClientCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

func (s *Server) onChartEvent(_ context.Context, event events.Event) error {
	msg := Message{Type: "updated", Revision: s.revision.Add(1)}
	if event.Type == events.ChartRenderFailed {
		msg.Type = "error"
		if e, ok := event.Payload["error"].(string); ok {
			msg.Error = e
		}
	}
	s.broadcast(msg)
	return nil
}

func (s *Server) broadcast(msg Message) {
	s.clientsMu.RLock()
	if len(s.clients) == 0 {
		s.clientsMu.RUnlock()
		return
	}
	targets := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		targets = append(targets, c)
	}
	s.clientsMu.RUnlock()

	payload, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error().Err(err).Msg("marshal preview message")
		return
	}

	var failed []*client
	for _, c := range targets {
		if err := c.write(websocket.TextMessage, payload); err != nil {
			_ = c.conn.Close()
			failed = append(failed, c)
		}
	}
	if len(failed) > 0 {
		s.clientsMu.Lock()
		for _, c := range failed {
			delete(s.clients, c)
		}
		s.clientsMu.Unlock()
		s.logger.Debug().Int("dropped", len(failed)).Msg("dropped preview clients")
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexPage))
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	png, err := s.chart.Export(r.Context(), "png", chart.ExportOptions{})
	if err != nil {
		s.logger.Warn().Err(err).Msg("export preview")
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.clientsMu.Lock()
	if len(s.clients)+s.pending >= s.cfg.MaxClients {
		s.clientsMu.Unlock()
		http.Error(w, "maximum clients reached", http.StatusServiceUnavailable)
		return
	}
	s.pending++
	s.clientsMu.Unlock()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.clientsMu.Lock()
		s.pending--
		s.clientsMu.Unlock()
		s.logger.Debug().Err(err).Msg("websocket upgrade")
		return
	}
	c := &client{conn: conn}
	defer conn.Close()

	s.clientsMu.Lock()
	s.pending--
	s.clients[c] = struct{}{}
	s.clientsMu.Unlock()
	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, c)
		s.clientsMu.Unlock()
	}()

	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	// Reads detect disconnects; clients never send anything meaningful.
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					s.logger.Debug().Err(err).Msg("websocket read")
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-readDone:
			return
		case <-s.stop:
			_ = c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

const indexPage = `<!DOCTYPE html>
<html>
<head>
  <title>bizchart preview</title>
  <style>
    body { font-family: sans-serif; margin: 0; padding: 24px; background: #f5f5f5; }
    img { background: white; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
    #status { color: #666; margin-top: 8px; }
  </style>
</head>
<body>
  <img id="chart" src="/chart.png" alt="chart">
  <div id="status">waiting for changes</div>
  <script>
    const img = document.getElementById("chart");
    const status = document.getElementById("status");
    const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
    ws.onmessage = (ev) => {
      const msg = JSON.parse(ev.data);
      if (msg.type === "updated") {
        img.src = "/chart.png?rev=" + msg.revision;
        status.textContent = "revision " + msg.revision;
      } else if (msg.type === "error") {
        status.textContent = msg.error;
      }
    };
    ws.onclose = () => { status.textContent = "disconnected"; };
  </script>
</body>
</html>
`
