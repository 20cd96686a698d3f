// Package middleware provides generic handler.Middleware implementations for
// the cross-cutting concerns of the relay HTTP surface.
//
// All middleware follows one pattern: a default constructor, a WithConfig
// constructor taking a config struct, and a Skip hook for bypassing specific
// requests.
//
//	r := router.New[*router.Context](
//		router.WithErrorHandler(response.JSONErrorHandler[*router.Context]),
//	)
//	r.Use(
//		middleware.RequestID[*router.Context](),
//		middleware.LoggingWithLogger[*router.Context](log),
//		middleware.CORSWithConfig[*router.Context](middleware.CORSConfig{
//			AllowOrigins: cfg.AllowOrigins,
//		}),
//	)
//	r.With(middleware.BodyLimitWithSize[*router.Context](cfg.MaxBodySize)).
//		Post("/message/{key}/{version}", publish)
//
// # Request ID
//
// RequestID stores an identifier in the request context and echoes it in the
// X-Request-ID response header. GetRequestID reads it back; Logging attaches
// it to every log line.
//
// # Logging
//
// Logging emits one "HTTP request completed" line per request with method,
// path, status, bytes written and duration. Its response writer passes
// Flush and Hijack through, so event streams and WebSocket upgrades work
// behind it.
//
// # Body limit
//
// BodyLimit rejects requests whose Content-Length exceeds the limit and caps
// reads of chunked bodies. Reads past the limit fail with
// response.ErrRequestEntityTooLarge, so handlers can return the error as is.
package middleware
