// Package router provides a typed HTTP router on top of net/http's pattern
// matching, with middleware chains, panic recovery and pluggable error
// handling.
//
// # Basic Usage
//
//	r := router.New[*router.Context]()
//
//	r.Post("/message/{key}/{version}", publishHandler)
//	r.Get("/messages", subscribeHandler)
//	r.Get("/health", health.Liveness[*router.Context])
//
//	http.ListenAndServe(":8080", r)
//
// Path wildcards are read with ctx.Param:
//
//	func publishHandler(ctx *router.Context) handler.Response {
//		key := ctx.Param("key")
//		...
//	}
//
// # Middleware
//
// Router-wide middleware must be registered before routes and runs for every
// request, including unmatched ones (so CORS preflights and request logging
// see 404 and 405 responses too):
//
//	r := router.New[*router.Context](
//		router.WithMiddleware(
//			middleware.RequestID[*router.Context](),
//			middleware.CORS[*router.Context](),
//		),
//	)
//
// Inline groups add middleware to a subset of routes:
//
//	r.Group(func(api router.Router[*router.Context]) {
//		api.Use(middleware.BodyLimit[*router.Context](1 << 20))
//		api.Post("/message/{key}/{version}", publishHandler)
//	})
//
// # Error Handling
//
// Errors returned by handlers' responses, routing errors (ErrNotFound,
// ErrMethodNotAllowed) and recovered panics (PanicError) go to the error
// handler. The default handler writes plain text using the error's
// StatusCode() when available. Use response.JSONErrorHandler for JSON bodies:
//
//	r := router.New[*router.Context](
//		router.WithErrorHandler(response.JSONErrorHandler[*router.Context]),
//	)
//
// Once a response has written its status line, errors can no longer be
// rendered and are dropped by the default handler.
package router
