package relay

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/dmitrymomot/relay/core/logger"
)

// DefaultIdleCheckInterval is how often IdleReset compares the activity
// clock with its window.
const DefaultIdleCheckInterval = time.Minute

// IdleReset periodically wipes the service's store after a window without
// activity.
type IdleReset struct {
	svc      *Service
	window   time.Duration
	interval time.Duration
	logger   *slog.Logger
}

// IdleResetOption configures an IdleReset.
type IdleResetOption func(*IdleReset)

// WithCheckInterval sets how often the activity clock is checked.
// Intervals longer than the window are clamped to it.
func WithCheckInterval(d time.Duration) IdleResetOption {
	return func(r *IdleReset) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithIdleLogger sets the logger for reset loop events.
func WithIdleLogger(log *slog.Logger) IdleResetOption {
	return func(r *IdleReset) {
		if log != nil {
			r.logger = log
		}
	}
}

// NewIdleReset creates a reset loop for svc. A window of zero or less
// disables it: Start returns immediately.
func NewIdleReset(svc *Service, window time.Duration, opts ...IdleResetOption) *IdleReset {
	r := &IdleReset{
		svc:      svc,
		window:   window,
		interval: DefaultIdleCheckInterval,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.window > 0 && r.interval > r.window {
		r.interval = r.window
	}

	return r
}

// Enabled reports whether the loop will run.
func (r *IdleReset) Enabled() bool {
	return r.window > 0
}

// Check runs one idle check and reports whether the store was wiped.
func (r *IdleReset) Check() bool {
	if !r.Enabled() {
		return false
	}
	return r.svc.ResetIfIdle(r.window)
}

// Start checks the activity clock every interval until ctx is cancelled.
// Each check finishes before the next tick is awaited.
func (r *IdleReset) Start(ctx context.Context) error {
	if !r.Enabled() {
		r.logger.InfoContext(ctx, "idle reset disabled", logger.Component("idle_reset"))
		return nil
	}

	r.logger.InfoContext(ctx, "idle reset started",
		logger.Component("idle_reset"),
		slog.Duration("window", r.window),
		slog.Duration("interval", r.interval),
	)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if r.Check() {
				r.logger.InfoContext(ctx, "store wiped after idle window",
					logger.Component("idle_reset"),
					slog.Duration("window", r.window),
				)
			}
		}
	}
}

// Run returns a function suitable for errgroup.Go. Cancellation is a
// normal shutdown and yields nil.
func (r *IdleReset) Run(ctx context.Context) func() error {
	return func() error {
		if err := r.Start(ctx); err != nil &&
			!errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return nil
	}
}
