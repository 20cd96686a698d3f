package relay_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/relay/relay"
)

func id(key string, version int64) relay.ID {
	return relay.ID{Key: key, Version: version}
}

func receive(t *testing.T, sub *relay.Subscription, n int) []relay.ID {
	t.Helper()

	ids := make([]relay.ID, 0, n)
	for range n {
		select {
		case rec, ok := <-sub.C():
			require.True(t, ok, "subscription closed early")
			ids = append(ids, rec.ID)
		case <-time.After(time.Second):
			t.Fatalf("timed out after %d of %d records", len(ids), n)
		}
	}
	return ids
}

func assertNothingPending(t *testing.T, sub *relay.Subscription) {
	t.Helper()

	select {
	case rec := <-sub.C():
		t.Fatalf("unexpected record %+v", rec.ID)
	default:
	}
}

func mustPublish(t *testing.T, svc *relay.Service, key string, version int64) {
	t.Helper()

	_, err := svc.Publish(context.Background(), key, version, json.RawMessage(fmt.Sprintf(`{"v":%d}`, version)))
	require.NoError(t, err)
}

func TestSubscribe(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("unfiltered_receives_everything_in_order", func(t *testing.T) {
		t.Parallel()

		svc := relay.New()
		sub, err := svc.Subscribe(ctx, relay.Filter{})
		require.NoError(t, err)
		defer sub.Close()

		mustPublish(t, svc, "a", 1)
		mustPublish(t, svc, "b", 1)
		mustPublish(t, svc, "a", 2)

		assert.Equal(t, []relay.ID{id("a", 1), id("b", 1), id("a", 2)}, receive(t, sub, 3))
		assertNothingPending(t, sub)
	})

	t.Run("matches_receives_only_its_key", func(t *testing.T) {
		t.Parallel()

		svc := relay.New()
		f, err := relay.NewFilter([]string{"a"}, nil)
		require.NoError(t, err)
		sub, err := svc.Subscribe(ctx, f)
		require.NoError(t, err)
		defer sub.Close()

		mustPublish(t, svc, "b", 1)
		mustPublish(t, svc, "a", 1)
		mustPublish(t, svc, "ab", 1)

		assert.Equal(t, []relay.ID{id("a", 1)}, receive(t, sub, 1))
		assertNothingPending(t, sub)
	})

	t.Run("replay_then_live_without_gaps_or_duplicates", func(t *testing.T) {
		t.Parallel()

		svc := relay.New()
		mustPublish(t, svc, "a", 1)
		mustPublish(t, svc, "b", 1)
		mustPublish(t, svc, "a", 2)

		sub, err := svc.Subscribe(ctx, relay.Filter{})
		require.NoError(t, err)
		defer sub.Close()
		assert.Equal(t, 2, sub.Replayed())

		mustPublish(t, svc, "b", 2)
		mustPublish(t, svc, "c", 1)

		assert.Equal(t,
			[]relay.ID{id("a", 2), id("b", 1), id("b", 2), id("c", 1)},
			receive(t, sub, 4))
		assertNothingPending(t, sub)
	})

	t.Run("replay_respects_filter", func(t *testing.T) {
		t.Parallel()

		svc := relay.New()
		mustPublish(t, svc, "user.1", 1)
		mustPublish(t, svc, "order.1", 1)

		f, err := relay.NewFilter(nil, []string{"user."})
		require.NoError(t, err)
		sub, err := svc.Subscribe(ctx, f)
		require.NoError(t, err)
		defer sub.Close()

		assert.Equal(t, []relay.ID{id("user.1", 1)}, receive(t, sub, 1))
		assertNothingPending(t, sub)
	})

	t.Run("subscribe_during_publish_stream", func(t *testing.T) {
		t.Parallel()

		const total = 200
		svc := relay.New(relay.WithSubscriberBuffer(total))

		started := make(chan struct{})
		finished := make(chan struct{})
		go func() {
			defer close(finished)
			for v := int64(1); v <= total; v++ {
				if v == total/4 {
					close(started)
				}
				_, err := svc.Publish(ctx, "k", v, nil)
				if err != nil {
					t.Error(err)
					return
				}
			}
		}()

		<-started
		sub, err := svc.Subscribe(ctx, relay.Filter{})
		require.NoError(t, err)
		defer sub.Close()
		<-finished

		first := receive(t, sub, 1)[0]
		remaining := int(total - first.Version)
		got := receive(t, sub, remaining)
		for i, id := range got {
			assert.Equal(t, first.Version+int64(i)+1, id.Version)
		}
		assertNothingPending(t, sub)
	})

	t.Run("close_is_idempotent_and_stops_delivery", func(t *testing.T) {
		t.Parallel()

		svc := relay.New()
		sub, err := svc.Subscribe(ctx, relay.Filter{})
		require.NoError(t, err)
		assert.Equal(t, 1, svc.Stats().Subscribers)

		sub.Close()
		sub.Close()
		assert.Equal(t, 0, svc.Stats().Subscribers)

		mustPublish(t, svc, "a", 1)
		_, ok := <-sub.C()
		assert.False(t, ok)
	})

	t.Run("full_buffer_drops_only_for_slow_subscriber", func(t *testing.T) {
		t.Parallel()

		svc := relay.New(relay.WithSubscriberBuffer(1))
		slow, err := svc.Subscribe(ctx, relay.Filter{})
		require.NoError(t, err)
		defer slow.Close()

		fast, err := svc.Subscribe(ctx, relay.Filter{})
		require.NoError(t, err)
		defer fast.Close()

		mustPublish(t, svc, "a", 1)
		assert.Equal(t, []relay.ID{id("a", 1)}, receive(t, fast, 1))

		mustPublish(t, svc, "a", 2)
		assert.Equal(t, []relay.ID{id("a", 2)}, receive(t, fast, 1))

		assert.Equal(t, []relay.ID{id("a", 1)}, receive(t, slow, 1))
		assertNothingPending(t, slow)

		mustPublish(t, svc, "a", 3)
		assert.Equal(t, []relay.ID{id("a", 3)}, receive(t, slow, 1))
	})
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := relay.New()
	mustPublish(t, svc, "a", 1)
	mustPublish(t, svc, "b", 1)
	mustPublish(t, svc, "a", 2)

	all := svc.Snapshot(ctx, relay.Filter{})
	require.Len(t, all, 2)
	assert.JSONEq(t, `{"id":{"key":"a","version":2},"data":{"v":2}}`, string(all[0]))
	assert.JSONEq(t, `{"id":{"key":"b","version":1},"data":{"v":1}}`, string(all[1]))

	f, err := relay.NewFilter([]string{"b"}, nil)
	require.NoError(t, err)
	only := svc.Snapshot(ctx, f)
	require.Len(t, only, 1)
	assert.JSONEq(t, `{"id":{"key":"b","version":1},"data":{"v":1}}`, string(only[0]))

	assert.Equal(t, 0, svc.Stats().Subscribers)
}

func TestService_Close(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := relay.New()
	mustPublish(t, svc, "a", 1)

	sub, err := svc.Subscribe(ctx, relay.Filter{})
	require.NoError(t, err)
	require.NoError(t, svc.Ready(ctx))

	svc.Close()
	svc.Close()

	// Buffered replay stays readable, then the channel is closed.
	assert.Equal(t, []relay.ID{id("a", 1)}, receive(t, sub, 1))
	_, ok := <-sub.C()
	assert.False(t, ok)

	_, err = svc.Publish(ctx, "a", 2, nil)
	assert.ErrorIs(t, err, relay.ErrClosed)
	_, err = svc.Subscribe(ctx, relay.Filter{})
	assert.ErrorIs(t, err, relay.ErrClosed)
	assert.ErrorIs(t, svc.Ready(ctx), relay.ErrClosed)
	assert.Equal(t, 0, svc.Stats().Subscribers)
}
