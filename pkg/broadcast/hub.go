package broadcast

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/relay/core/logger"
)

// Filter reports whether a subscriber is interested in key.
// A nil Filter accepts every key.
type Filter func(key string) bool

// Subscriber is a registered recipient of hub deliveries.
type Subscriber[T any] struct {
	id     uint64
	filter Filter
	sink   Sink[T]
}

// ID returns the hub-local identifier of the subscriber.
func (s *Subscriber[T]) ID() uint64 {
	return s.id
}

// Accepts reports whether the subscriber's filter accepts key.
func (s *Subscriber[T]) Accepts(key string) bool {
	return s.filter == nil || s.filter(key)
}

// Hub keeps the live subscriber set and fans messages out to it.
type Hub[T any] struct {
	mu     sync.RWMutex
	subs   map[uint64]*Subscriber[T]
	nextID uint64
	logger *slog.Logger
}

// NewHub creates an empty hub.
func NewHub[T any](opts ...Option) *Hub[T] {
	o := &options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(o)
	}

	return &Hub[T]{
		subs:   make(map[uint64]*Subscriber[T]),
		logger: o.logger,
	}
}

// Register adds a subscriber with the given filter and sink to the live set.
func (h *Hub[T]) Register(filter Filter, sink Sink[T]) *Subscriber[T] {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	sub := &Subscriber[T]{
		id:     h.nextID,
		filter: filter,
		sink:   sink,
	}
	h.subs[sub.id] = sub

	return sub
}

// Deregister removes the subscriber. Unknown or already removed
// subscribers are ignored.
func (h *Hub[T]) Deregister(sub *Subscriber[T]) {
	if sub == nil {
		return
	}

	h.mu.Lock()
	delete(h.subs, sub.id)
	h.mu.Unlock()
}

// Deliver sends msg to every subscriber accepting key and returns the
// number of successful sends. Sink errors are logged and do not stop
// delivery to the remaining subscribers.
func (h *Hub[T]) Deliver(ctx context.Context, key string, msg T) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, sub := range h.subs {
		if !sub.Accepts(key) {
			continue
		}
		if err := sub.sink.Send(msg); err != nil {
			h.logger.WarnContext(ctx, "delivery failed",
				logger.Component("broadcast"),
				slog.Uint64("subscriber_id", sub.id),
				logger.MessageKey(key),
				logger.Error(err),
			)
			continue
		}
		delivered++
	}

	return delivered
}

// Len returns the number of registered subscribers.
func (h *Hub[T]) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
