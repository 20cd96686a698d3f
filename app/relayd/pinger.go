package relayd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/dmitrymomot/relay/core/logger"
)

// ErrPingStatus is returned when the health endpoint answers with a non-200 status.
var ErrPingStatus = errors.New("unexpected ping status")

// Pinger requests {address}/health on an interval so hosting platforms that
// idle out quiet services keep this one awake. Pings bypass the relay
// service and do not count as activity.
type Pinger struct {
	url      string
	interval time.Duration
	retries  uint64
	client   *http.Client
	logger   *slog.Logger
}

// PingerOption configures a Pinger.
type PingerOption func(*Pinger)

func WithPingClient(client *http.Client) PingerOption {
	return func(p *Pinger) {
		if client != nil {
			p.client = client
		}
	}
}

func WithPingLogger(log *slog.Logger) PingerOption {
	return func(p *Pinger) {
		if log != nil {
			p.logger = log
		}
	}
}

// WithPingRetries sets how many times a failed ping is retried with
// exponential backoff before it is logged as failed.
func WithPingRetries(n uint64) PingerOption {
	return func(p *Pinger) {
		p.retries = n
	}
}

// NewPinger creates a pinger for address. It is disabled unless both
// address and interval are set.
func NewPinger(address string, interval time.Duration, opts ...PingerOption) *Pinger {
	p := &Pinger{
		interval: interval,
		retries:  2,
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if address != "" {
		p.url = strings.TrimRight(address, "/") + "/health"
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Enabled reports whether the pinger will run.
func (p *Pinger) Enabled() bool {
	return p.url != "" && p.interval > 0
}

// Ping performs one health request, retrying transient failures.
func (p *Pinger) Ping(ctx context.Context) error {
	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), p.retries),
		ctx,
	)
	return backoff.Retry(func() error { return p.ping(ctx) }, b)
}

func (p *Pinger) ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("build ping request: %w", err))
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("ping %s: %w", p.url, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %d", ErrPingStatus, resp.StatusCode)
	}
	return nil
}

// Start pings every interval until ctx is cancelled. Failures are logged
// and never stop the loop.
func (p *Pinger) Start(ctx context.Context) error {
	if !p.Enabled() {
		p.logger.InfoContext(ctx, "keep-alive ping disabled", logger.Component("pinger"))
		return nil
	}

	p.logger.InfoContext(ctx, "keep-alive ping started",
		logger.Component("pinger"),
		slog.String("url", p.url),
		slog.Duration("interval", p.interval),
	)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			if err := p.Ping(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				p.logger.WarnContext(ctx, "keep-alive ping failed",
					logger.Component("pinger"),
					logger.Error(err),
				)
				continue
			}
			p.logger.DebugContext(ctx, "keep-alive ping",
				logger.Component("pinger"),
				logger.Elapsed(start),
			)
		}
	}
}

// Run returns a function suitable for errgroup.Go.
func (p *Pinger) Run(ctx context.Context) func() error {
	return func() error {
		if err := p.Start(ctx); err != nil &&
			!errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return nil
	}
}
