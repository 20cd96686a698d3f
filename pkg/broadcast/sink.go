package broadcast

import "sync"

// Sink receives messages for a single subscriber.
type Sink[T any] interface {
	Send(msg T) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc[T any] func(msg T) error

// Send calls f(msg).
func (f SinkFunc[T]) Send(msg T) error {
	return f(msg)
}

// ChannelSink is a Sink backed by a buffered channel.
type ChannelSink[T any] struct {
	mu     sync.RWMutex
	ch     chan T
	closed bool
}

// NewChannelSink creates a sink that buffers up to size messages.
// A size below 1 is treated as 1.
func NewChannelSink[T any](size int) *ChannelSink[T] {
	if size < 1 {
		size = 1
	}
	return &ChannelSink[T]{ch: make(chan T, size)}
}

// Send enqueues msg without blocking.
func (s *ChannelSink[T]) Send(msg T) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrSinkClosed
	}

	select {
	case s.ch <- msg:
		return nil
	default:
		return ErrSinkFull
	}
}

// C returns the receive side of the sink. It is closed by Close.
func (s *ChannelSink[T]) C() <-chan T {
	return s.ch
}

// Len returns the number of buffered messages.
func (s *ChannelSink[T]) Len() int {
	return len(s.ch)
}

// Close closes the channel. Buffered messages stay readable.
func (s *ChannelSink[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}
