package relay_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/relay/relay"
)

func TestIdleReset_Check(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := newFakeClock()
	svc := relay.New(relay.WithClock(clock.Now))
	idle := relay.NewIdleReset(svc, time.Hour)

	mustPublish(t, svc, "a", 1)

	clock.Advance(59 * time.Minute)
	assert.False(t, idle.Check())
	assert.Equal(t, 1, svc.Stats().Keys)

	// A read counts as activity.
	svc.Snapshot(ctx, relay.Filter{})
	clock.Advance(59 * time.Minute)
	assert.False(t, idle.Check())

	clock.Advance(2 * time.Minute)
	assert.True(t, idle.Check())
	assert.Equal(t, 0, svc.Stats().Keys)

	// Nothing left to wipe.
	assert.False(t, idle.Check())
}

func TestIdleReset_VersionRestartsAfterReset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := newFakeClock()
	svc := relay.New(relay.WithClock(clock.Now))

	sub, err := svc.Subscribe(ctx, relay.Filter{})
	require.NoError(t, err)
	defer sub.Close()

	mustPublish(t, svc, "a", 1)
	mustPublish(t, svc, "a", 2)

	clock.Advance(2 * time.Hour)
	require.True(t, relay.NewIdleReset(svc, time.Hour).Check())

	_, err = svc.Publish(ctx, "a", 3, nil)
	require.ErrorIs(t, err, relay.ErrVersionConflict)
	mustPublish(t, svc, "a", 1)

	// The live subscriber is not notified of the reset and sees the
	// version go from 2 back to 1.
	assert.Equal(t, []relay.ID{id("a", 1), id("a", 2), id("a", 1)}, receive(t, sub, 3))
	assert.Equal(t, 1, svc.Stats().Subscribers)
}

func TestIdleReset_Disabled(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	svc := relay.New(relay.WithClock(clock.Now))
	mustPublish(t, svc, "a", 1)
	clock.Advance(365 * 24 * time.Hour)

	idle := relay.NewIdleReset(svc, 0)
	assert.False(t, idle.Enabled())
	assert.False(t, idle.Check())
	assert.NoError(t, idle.Start(context.Background()))
	assert.Equal(t, 1, svc.Stats().Keys)
}

func TestIdleReset_Run(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	svc := relay.New(relay.WithClock(clock.Now))
	mustPublish(t, svc, "a", 1)

	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)
	g.Go(relay.NewIdleReset(svc, time.Minute, relay.WithCheckInterval(time.Millisecond)).Run(gctx))

	clock.Advance(2 * time.Minute)
	assert.Eventually(t, func() bool { return svc.Stats().Keys == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	assert.NoError(t, g.Wait())
}

func TestService_Reset(t *testing.T) {
	t.Parallel()

	svc := relay.New()
	mustPublish(t, svc, "a", 1)
	mustPublish(t, svc, "b", 1)

	svc.Reset()

	assert.Equal(t, 0, svc.Stats().Keys)
	assert.Empty(t, svc.Snapshot(context.Background(), relay.Filter{}))
	mustPublish(t, svc, "a", 1)
}
