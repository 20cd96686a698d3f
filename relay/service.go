package relay

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/relay/core/logger"
	"github.com/dmitrymomot/relay/pkg/broadcast"
)

// DefaultSubscriberBuffer is the number of live messages a subscriber may
// fall behind before deliveries to it are dropped.
const DefaultSubscriberBuffer = 256

// Service owns the store, the subscriber set and the activity clock.
// One mutex serializes publish, subscribe, snapshot and reset, so each runs
// atomically with respect to the others.
type Service struct {
	mu           sync.Mutex
	store        *Store
	hub          *broadcast.Hub[*Record]
	lastActivity time.Time
	closed       bool

	subsMu sync.Mutex
	subs   map[*Subscription]struct{}

	now    func() time.Time
	buffer int
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger. The broadcast hub logs through it too.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithClock replaces time.Now for the activity clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSubscriberBuffer sets the per-subscriber live buffer size.
func WithSubscriberBuffer(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.buffer = n
		}
	}
}

// New creates an empty service.
func New(opts ...Option) *Service {
	s := &Service{
		store:  NewStore(),
		subs:   make(map[*Subscription]struct{}),
		now:    time.Now,
		buffer: DefaultSubscriberBuffer,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.hub = broadcast.NewHub[*Record](broadcast.WithLogger(s.logger))
	s.lastActivity = s.now()

	return s
}

// touch records activity. Callers hold s.mu.
func (s *Service) touch() {
	s.lastActivity = s.now()
}

// Stats is a point-in-time view of the service.
type Stats struct {
	Keys         int
	Subscribers  int
	LastActivity time.Time
}

// Stats reports the number of keys and live subscribers. It does not count
// as activity.
func (s *Service) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{
		Keys:         s.store.Len(),
		Subscribers:  s.hub.Len(),
		LastActivity: s.lastActivity,
	}
}

// Reset drops every key. Live subscribers stay connected and are not
// notified; the next publish to any key must declare version 1, so they
// will observe that key's version going down.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()
}

// ResetIfIdle resets the store when no activity happened within window.
// It reports whether a reset happened.
func (s *Service) ResetIfIdle(window time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.now().Sub(s.lastActivity) <= window {
		return false
	}
	return s.reset()
}

func (s *Service) reset() bool {
	keys := s.store.Len()
	if keys == 0 {
		return false
	}
	s.store.Clear()

	s.logger.Info("store reset",
		logger.Component("relay"),
		logger.Count("keys", keys),
		slog.Time("last_activity", s.lastActivity),
	)
	return true
}

// Close ends every subscription and rejects further publishes and
// subscriptions with ErrClosed. It is safe to call more than once.
func (s *Service) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.subsMu.Lock()
	subs := make([]*Subscription, 0, len(s.subs))
	for sub := range s.subs {
		subs = append(subs, sub)
	}
	s.subsMu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}
}

// Ready returns ErrClosed once the service has been closed.
func (s *Service) Ready(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	return ctx.Err()
}
