// Package events distributes chart lifecycle notifications.
package events

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

const (
	// ChartRendered is emitted after the first successful draw.
	ChartRendered = "chart.rendered"
	// ChartUpdated is emitted after a successful redraw.
	ChartUpdated = "chart.updated"
	// ChartRenderFailed is emitted when fetching or drawing fails.
	ChartRenderFailed = "chart.render_failed"
	// ChartDestroyed is emitted once a chart is torn down.
	ChartDestroyed = "chart.destroyed"
)

// Event is a lifecycle notification with a structured payload.
type Event struct {
	Type    string
	ChartID string
	Payload map[string]interface{}
}

// Handler processes an event. Returned errors are logged and do not stop
// delivery to other handlers.
type Handler func(context.Context, Event) error

// Subscription cancels a registered handler.
type Subscription interface {
	Unsubscribe()
}

// Publisher fans events out to subscribers. Dispatch is synchronous.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType string, handler Handler) (Subscription, error)
}

// LoggingPublisher logs each event before invoking its subscribers.
type LoggingPublisher struct {
	logger zerolog.Logger
	subs   map[string][]subscriptionEntry
	nextID int
	mu     sync.RWMutex
}

var _ Publisher = (*LoggingPublisher)(nil)

// NewLoggingPublisher creates a publisher that writes each event as a
// structured log entry.
func NewLoggingPublisher(logger zerolog.Logger) *LoggingPublisher {
	return &LoggingPublisher{
		logger: logger,
		subs:   make(map[string][]subscriptionEntry),
	}
}

// Publish logs the event and runs the handlers subscribed to its type.
func (p *LoggingPublisher) Publish(ctx context.Context, event Event) error {
	if p == nil || event.Type == "" {
		return nil
	}

	p.mu.RLock()
	handlers := append([]subscriptionEntry(nil), p.subs[event.Type]...)
	p.mu.RUnlock()

	entry := p.logger.Info().Str("event_type", event.Type)
	if event.ChartID != "" {
		entry = entry.Str("chart_id", event.ChartID)
	}
	keys := make([]string, 0, len(event.Payload))
	for key := range event.Payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		entry = entry.Interface(key, event.Payload[key])
	}
	entry.Msg("chart event")

	for _, sub := range handlers {
		if sub.handler == nil {
			continue
		}
		if err := sub.handler(ctx, event); err != nil {
			p.logger.Warn().Err(err).Str("event_type", event.Type).Msg("event handler failed")
		}
	}

	return nil
}

// Subscribe registers a handler for the provided event type.
func (p *LoggingPublisher) Subscribe(eventType string, handler Handler) (Subscription, error) {
	if p == nil || handler == nil {
		return noopSubscription{}, nil
	}
	p.mu.Lock()
	p.nextID++
	id := p.nextID
	p.subs[eventType] = append(p.subs[eventType], subscriptionEntry{id: id, handler: handler})
	p.mu.Unlock()

	return subscription{
		cancel: func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			handlers := p.subs[eventType]
			for i, entry := range handlers {
				if entry.id == id {
					p.subs[eventType] = append(handlers[:i:i], handlers[i+1:]...)
					break
				}
			}
		},
	}, nil
}

type noopSubscription struct{}

func (noopSubscription) Unsubscribe() {}

type subscription struct {
	cancel func()
}

func (s subscription) Unsubscribe() {
	if s.cancel != nil {
		s.cancel()
	}
}

type subscriptionEntry struct {
	id      int
	handler Handler
}
