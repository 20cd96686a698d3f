// Package relay is the in-memory message distribution engine: a per-key
// versioned store, an optimistic-concurrency publish protocol, filtered
// fan-out to live subscribers and an idle-triggered reset.
//
// # Publishing
//
// Every key carries a version starting at 1. A publisher declares the version
// it expects to create, which must be exactly the current version plus one:
//
//	rec, err := svc.Publish(ctx, "a", 1, json.RawMessage(`{"x":1}`))
//	_, err = svc.Publish(ctx, "a", 1, nil) // errors.Is(err, relay.ErrVersionConflict)
//
// On conflict nothing changes; the publisher re-reads the current version
// and retries.
//
// # Subscribing
//
// Subscribe replays the latest record of every matching key, in first
// publish order, then switches to live delivery. Replay and registration
// happen under the service lock, so a subscriber sees each accepted message
// exactly once:
//
//	filter, err := relay.NewFilter([]string{"a"}, []string{"user."})
//	sub, err := svc.Subscribe(ctx, filter)
//	defer sub.Close()
//	for rec := range sub.C() {
//		// rec.EventID() == `{"key":"a","version":1}`
//	}
//
// Delivery is best effort. A subscriber whose buffer is full misses that
// message; the failure is logged and other subscribers are unaffected.
//
// # Idle reset
//
// IdleReset wipes the store when nothing was published or read within the
// configured window. Versions then restart at 1, so a long-lived subscriber
// can observe a key's version going down after a reset.
package relay
