// Package response provides HTTP response builders: plain text, JSON,
// Server-Sent Events and WebSocket streams, plus structured HTTP errors.
//
// Every builder returns a handler.Response that the router renders:
//
//	func snapshot(ctx *router.Context) handler.Response {
//		return response.JSONArray(items)
//	}
//
// # Errors
//
// HTTPError carries status, machine-readable code and message. Handlers return
// response.Error(err); the router passes err to its error handler, and
// JSONErrorHandler renders:
//
//	{"code":"version_conflict","message":"version conflict","details":{...}}
//
// Errors that are not HTTPError are mapped through their StatusCode() method
// when present, otherwise to 500.
//
// # Server-Sent Events
//
// SSE drains a channel until it closes or the client disconnects, emitting
// ": connected" on open and ": keepalive" comments while idle. Values that
// implement Event supply their own id and data lines:
//
//	return response.SSE(sink.C(),
//		response.WithKeepAlive(15*time.Second),
//		response.WithSSEErrorHandler(func(ctx context.Context, err error) {
//			log.WarnContext(ctx, "stream failed", logger.Error(err))
//		}),
//	)
//
// # WebSocket
//
// WebSocketStream upgrades the connection and writes every channel value as a
// text message:
//
//	return response.WebSocketStream(sink.C(), encode,
//		response.WithWSAllowAnyOrigin(),
//		response.WithWSPingInterval(30*time.Second),
//	)
package response
