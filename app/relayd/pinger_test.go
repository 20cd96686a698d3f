package relayd_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/relay/app/relayd"
)

func TestPinger(t *testing.T) {
	t.Parallel()

	t.Run("disabled_without_address_or_interval", func(t *testing.T) {
		t.Parallel()

		assert.False(t, relayd.NewPinger("", time.Second).Enabled())
		assert.False(t, relayd.NewPinger("http://example.com", 0).Enabled())
		assert.NoError(t, relayd.NewPinger("", 0).Start(context.Background()))
	})

	t.Run("pings_health_on_interval", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				hits.Add(1)
			}
			_, _ = w.Write([]byte("OK"))
		}))
		defer srv.Close()

		p := relayd.NewPinger(srv.URL+"/", 5*time.Millisecond)
		require.True(t, p.Enabled())

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- p.Run(ctx)() }()

		assert.Eventually(t, func() bool { return hits.Load() >= 2 }, time.Second, 5*time.Millisecond)
		cancel()
		assert.NoError(t, <-done)
	})

	t.Run("non_200_fails", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		err := relayd.NewPinger(srv.URL, time.Second, relayd.WithPingRetries(0)).Ping(context.Background())
		assert.ErrorIs(t, err, relayd.ErrPingStatus)
	})

	t.Run("retries_transient_failures", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte("OK"))
		}))
		defer srv.Close()

		err := relayd.NewPinger(srv.URL, time.Second, relayd.WithPingRetries(2)).Ping(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, int32(2), calls.Load())
	})
}
