// Package handler defines the request processing contract shared by the
// router, responses and middleware.
//
// A handler receives a typed request context and returns a Response, a
// deferred renderer that writes headers and body when the router invokes it:
//
//	func publish(ctx *relay.Context) handler.Response {
//		if err := svc.Publish(ctx, ctx.Param("key"), ctx.Param("version"), body); err != nil {
//			return response.Error(err)
//		}
//		return response.Status(http.StatusOK)
//	}
//
// Middleware wraps a HandlerFunc and may decorate the Response it returns:
//
//	func Timing[C handler.Context]() handler.Middleware[C] {
//		return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
//			return func(ctx C) handler.Response {
//				start := time.Now()
//				resp := next(ctx)
//				return func(w http.ResponseWriter, r *http.Request) error {
//					w.Header().Set("X-Handler-Time", time.Since(start).String())
//					return resp(w, r)
//				}
//			}
//		}
//	}
//
// Errors returned by a Response are passed to the router's ErrorHandler.
package handler
