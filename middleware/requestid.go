package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/relay/core/handler"
)

// MaxInboundRequestIDLength bounds request ids accepted from clients.
const MaxInboundRequestIDLength = 128

type requestIDContextKey struct{}

// RequestIDConfig configures the request ID middleware.
type RequestIDConfig struct {
	Skip func(ctx handler.Context) bool
	// Generator defaults to random UUIDs.
	Generator func() string
	// Header defaults to X-Request-ID.
	Header string
	// TrustInbound reuses a well-formed id sent by the client.
	TrustInbound bool
}

// RequestID tags every request with a fresh UUID.
func RequestID[C handler.Context]() handler.Middleware[C] {
	return RequestIDWithConfig[C](RequestIDConfig{})
}

// RequestIDWithConfig stores a request id in the context and echoes it in the
// response header. The header is written to the underlying writer as soon as
// the id is known, so error pages rendered by the router carry it too.
func RequestIDWithConfig[C handler.Context](cfg RequestIDConfig) handler.Middleware[C] {
	header := cfg.Header
	if header == "" {
		header = "X-Request-ID"
	}
	generate := cfg.Generator
	if generate == nil {
		generate = uuid.NewString
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			id := ""
			if cfg.TrustInbound {
				id = ctx.Request().Header.Get(header)
				if !validInboundID(id) {
					id = ""
				}
			}
			if id == "" {
				id = generate()
			}

			ctx.SetValue(requestIDContextKey{}, id)
			ctx.ResponseWriter().Header().Set(header, id)

			resp := next(ctx)
			return func(w http.ResponseWriter, r *http.Request) error {
				w.Header().Set(header, id)
				return resp(w, r)
			}
		}
	}
}

// validInboundID admits short ids of printable ASCII only, keeping log lines
// and headers free of injected control characters.
func validInboundID(id string) bool {
	if id == "" || len(id) > MaxInboundRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

// GetRequestID returns the id stored by RequestID.
func GetRequestID(ctx handler.Context) (string, bool) {
	id, ok := ctx.Value(requestIDContextKey{}).(string)
	return id, ok
}
