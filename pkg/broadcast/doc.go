// Package broadcast provides an in-memory fan-out hub that delivers keyed
// messages to a live set of subscribers.
//
// Each subscriber is registered with an optional key filter and a Sink.
// Hub.Deliver hands a message to every subscriber whose filter accepts the
// message key. Delivery to one sink never blocks or fails delivery to the
// others: a failing sink is logged and skipped.
//
// # Usage
//
//	hub := broadcast.NewHub[string](broadcast.WithLogger(log))
//
//	sink := broadcast.NewChannelSink[string](100)
//	sub := hub.Register(func(key string) bool {
//		return strings.HasPrefix(key, "orders.")
//	}, sink)
//	defer hub.Deregister(sub)
//
//	go func() {
//		for msg := range sink.C() {
//			fmt.Println(msg)
//		}
//	}()
//
//	hub.Deliver(ctx, "orders.42", "created")
//
// # Sinks
//
// Sink is the transport-facing side of a subscriber: an append-only Send.
// ChannelSink is the in-memory implementation backed by a buffered channel.
// Send never blocks: when the buffer is full it returns ErrSinkFull and the
// message is dropped for that subscriber only. Sending to a closed sink
// returns ErrSinkClosed.
//
// # Ordering
//
// Messages delivered to a single subscriber arrive in the order Deliver was
// called. No ordering is defined between different subscribers.
//
// # Thread Safety
//
// Hub and ChannelSink are safe for concurrent use. Deregister and Close are
// idempotent.
package broadcast
