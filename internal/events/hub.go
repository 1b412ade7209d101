// Package events fans dice and history change notifications out to
// in-process subscribers such as the TUI.
package events

import (
	"log/slog"
	"sync"
	"time"

	"github.com/mmunhall/dice-sack/internal/model"
)

const (
	// Buffer size for pending broadcasts
	broadcastBufferSize = 256

	// Buffer size for each subscriber's outgoing events
	sendBufferSize = 256
)

// Subscriber receives events from a hub until it is unsubscribed or the
// hub closes, at which point its channel is closed
type Subscriber struct {
	name        string
	send        chan model.Event
	connectedAt time.Time
}

// Events returns the channel events are delivered on
func (s *Subscriber) Events() <-chan model.Event {
	return s.send
}

// Hub manages subscribers for one session
type Hub struct {
	subscribers map[*Subscriber]bool
	mu          sync.RWMutex
	logger      *slog.Logger
	closeOnce   sync.Once

	// Channels for managing subscribers
	register   chan *Subscriber
	unregister chan *Subscriber
	broadcast  chan model.Event
	done       chan struct{}
}

// NewHub creates a new Hub. Run must be started before subscribing.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		subscribers: make(map[*Subscriber]bool),
		logger:      logger.With(slog.String("component", "events")),
		register:    make(chan *Subscriber),
		unregister:  make(chan *Subscriber),
		broadcast:   make(chan model.Event, broadcastBufferSize),
		done:        make(chan struct{}),
	}
}

// Ensure Hub implements the notifier interface
var _ model.Notifier = (*Hub)(nil)

// Run starts the hub's event loop
func (h *Hub) Run() {
	h.logger.Debug("event hub started")
	for {
		select {
		case sub := <-h.register:
			h.mu.Lock()
			h.subscribers[sub] = true
			count := len(h.subscribers)
			h.mu.Unlock()
			h.logger.Debug("subscriber registered",
				slog.String("subscriber", sub.name),
				slog.Int("total_subscribers", count))

		case sub := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.subscribers[sub]; ok {
				delete(h.subscribers, sub)
				close(sub.send)
				count := len(h.subscribers)
				h.mu.Unlock()
				h.logger.Debug("subscriber unregistered",
					slog.String("subscriber", sub.name),
					slog.Duration("subscribed_for", time.Since(sub.connectedAt)),
					slog.Int("total_subscribers", count))
			} else {
				h.mu.Unlock()
			}

		case event := <-h.broadcast:
			h.mu.RLock()
			dropped := 0
			for sub := range h.subscribers {
				select {
				case sub.send <- event:
				default:
					dropped++
					h.logger.Warn("event dropped - subscriber buffer full",
						slog.String("subscriber", sub.name),
						slog.String("event", string(event.Type)))
				}
			}
			h.mu.RUnlock()
			if dropped > 0 {
				h.logger.Warn("event broadcast partial failure",
					slog.String("event", string(event.Type)),
					slog.Int("dropped", dropped))
			}

		case <-h.done:
			h.mu.Lock()
			count := len(h.subscribers)
			for sub := range h.subscribers {
				close(sub.send)
				delete(h.subscribers, sub)
			}
			h.mu.Unlock()
			h.logger.Debug("event hub stopped", slog.Int("disconnected_subscribers", count))
			return
		}
	}
}

// Subscribe registers a new subscriber. On a closed hub the returned
// subscriber's channel is already closed.
func (h *Hub) Subscribe(name string) *Subscriber {
	sub := &Subscriber{
		name:        name,
		send:        make(chan model.Event, sendBufferSize),
		connectedAt: time.Now(),
	}
	select {
	case h.register <- sub:
	case <-h.done:
		close(sub.send)
	}
	return sub
}

// Unsubscribe removes a subscriber and closes its channel
func (h *Hub) Unsubscribe(sub *Subscriber) {
	select {
	case h.unregister <- sub:
	case <-h.done:
	}
}

// Notify queues an event for every subscriber without blocking the caller.
// Animation goroutines call this while holding no locks.
func (h *Hub) Notify(event model.Event) {
	select {
	case <-h.done:
		return
	default:
	}
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("event broadcast dropped - hub buffer full",
			slog.String("event", string(event.Type)))
	}
}

// Close shuts down the hub. Safe to call more than once.
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
	})
}

// SubscriberCount returns the number of registered subscribers
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
