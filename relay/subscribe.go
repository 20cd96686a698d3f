package relay

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/relay/core/logger"
	"github.com/dmitrymomot/relay/pkg/broadcast"
)

// Subscription is one live subscriber. Records arrive on C in acceptance
// order, starting with the replay of current state.
type Subscription struct {
	id       string
	replayed int
	svc      *Service
	sub      *broadcast.Subscriber[*Record]
	sink     *broadcast.ChannelSink[*Record]
	once     sync.Once
}

// ID returns a unique identifier for logging.
func (s *Subscription) ID() string {
	return s.id
}

// Replayed returns the number of records replayed on subscribe.
func (s *Subscription) Replayed() int {
	return s.replayed
}

// C returns the delivery channel. It is closed by Close.
func (s *Subscription) C() <-chan *Record {
	return s.sink.C()
}

// Close deregisters the subscriber and closes its channel. Records already
// buffered remain readable. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.svc.hub.Deregister(s.sub)
		s.sink.Close()

		s.svc.subsMu.Lock()
		delete(s.svc.subs, s)
		s.svc.subsMu.Unlock()

		s.svc.logger.Debug("subscription closed",
			logger.Component("relay"),
			logger.SubscriptionID(s.id),
		)
	})
}

// Subscribe replays the latest record of every key accepted by filter and
// registers a live subscriber. Replay and registration run under the service
// lock, so no publish is missed or delivered twice.
func (s *Service) Subscribe(ctx context.Context, filter Filter) (*Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	s.touch()

	records := s.store.Latest(filter)
	sink := broadcast.NewChannelSink[*Record](s.buffer + len(records))
	for _, rec := range records {
		// Sized for the replay, so this cannot fail.
		_ = sink.Send(rec)
	}

	var accept broadcast.Filter
	if !filter.IsZero() {
		accept = filter.Accept
	}

	sub := &Subscription{
		id:       uuid.New().String(),
		replayed: len(records),
		svc:      s,
		sub:      s.hub.Register(accept, sink),
		sink:     sink,
	}

	s.subsMu.Lock()
	s.subs[sub] = struct{}{}
	s.subsMu.Unlock()

	s.logger.DebugContext(ctx, "subscription opened",
		logger.Component("relay"),
		logger.SubscriptionID(sub.id),
		logger.Count("replayed", sub.replayed),
	)

	return sub, nil
}

// Snapshot returns the snapshot of the latest record of every key accepted
// by filter, in first-publish order. It registers nothing.
func (s *Service) Snapshot(ctx context.Context, filter Filter) []json.RawMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch()

	records := s.store.Latest(filter)
	out := make([]json.RawMessage, len(records))
	for i, rec := range records {
		out[i] = rec.Snapshot()
	}
	return out
}
