package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrymomot/relay/core/handler"
)

// Origins is a compiled origin allow-list. An empty list or one containing
// "*" admits every origin.
type Origins struct {
	any  bool
	list map[string]struct{}
}

// NewOrigins compiles an allow-list.
func NewOrigins(origins []string) Origins {
	o := Origins{
		any:  len(origins) == 0 || slices.Contains(origins, "*"),
		list: make(map[string]struct{}, len(origins)),
	}
	for _, origin := range origins {
		o.list[origin] = struct{}{}
	}
	return o
}

// Resolve returns the Access-Control-Allow-Origin value for origin and
// whether the origin is admitted.
func (o Origins) Resolve(origin string) (string, bool) {
	if o.any {
		return "*", true
	}
	if _, ok := o.list[origin]; ok && origin != "" {
		return origin, true
	}
	return "", false
}

// CheckOrigin fits websocket.Upgrader.CheckOrigin. Requests without an
// Origin header are not browser cross-origin requests and pass.
func (o Origins) CheckOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	_, ok := o.Resolve(origin)
	return ok
}

// CORSConfig defines configuration options for CORS middleware.
type CORSConfig struct {
	// Skip bypasses CORS handling for matching requests.
	Skip func(ctx handler.Context) bool

	// AllowOrigins lists admitted origins. Empty or "*" admits all.
	AllowOrigins []string

	// AllowMethods defaults to GET, HEAD, POST, OPTIONS.
	AllowMethods []string

	// AllowHeaders defaults to what publishers and event stream clients send.
	AllowHeaders []string

	// ExposeHeaders defaults to X-Request-ID.
	ExposeHeaders []string

	// MaxAge is the preflight cache lifetime in seconds; zero omits the header.
	MaxAge int
}

// corsPolicy is CORSConfig with defaults applied and header values joined.
type corsPolicy struct {
	origins       Origins
	methods       []string
	allowMethods  string
	allowHeaders  string
	exposeHeaders string
	maxAge        string
}

func newCORSPolicy(cfg CORSConfig) corsPolicy {
	methods := cfg.AllowMethods
	if len(methods) == 0 {
		methods = []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodOptions}
	}
	headers := cfg.AllowHeaders
	if len(headers) == 0 {
		headers = []string{"Accept", "Cache-Control", "Content-Type", "Last-Event-ID", "X-Request-ID"}
	}
	expose := cfg.ExposeHeaders
	if len(expose) == 0 {
		expose = []string{"X-Request-ID"}
	}

	p := corsPolicy{
		origins:       NewOrigins(cfg.AllowOrigins),
		methods:       methods,
		allowMethods:  strings.Join(methods, ","),
		allowHeaders:  strings.Join(headers, ","),
		exposeHeaders: strings.Join(expose, ","),
	}
	if cfg.MaxAge > 0 {
		p.maxAge = strconv.Itoa(cfg.MaxAge)
	}
	return p
}

// preflight answers an OPTIONS preflight without reaching the router.
func (p corsPolicy) preflight(origin string, ok bool) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if !ok || !slices.Contains(p.methods, r.Header.Get("Access-Control-Request-Method")) {
			w.WriteHeader(http.StatusForbidden)
			return nil
		}

		h := w.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Methods", p.allowMethods)
		if r.Header.Get("Access-Control-Request-Headers") != "" {
			h.Set("Access-Control-Allow-Headers", p.allowHeaders)
		}
		if p.maxAge != "" {
			h.Set("Access-Control-Max-Age", p.maxAge)
		}
		h.Add("Vary", "Origin")
		h.Add("Vary", "Access-Control-Request-Method")
		h.Add("Vary", "Access-Control-Request-Headers")
		w.WriteHeader(http.StatusNoContent)
		return nil
	}
}

// decorate adds the simple-request CORS headers before next renders.
func (p corsPolicy) decorate(origin string, next handler.Response) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Expose-Headers", p.exposeHeaders)
		h.Add("Vary", "Origin")
		return next(w, r)
	}
}

// CORS returns a CORS middleware that admits every origin.
func CORS[C handler.Context]() handler.Middleware[C] {
	return CORSWithConfig[C](CORSConfig{})
}

// CORSWithConfig returns a CORS middleware with custom configuration.
// Preflight requests are answered directly with 204, or 403 when the origin
// or requested method is not allowed.
func CORSWithConfig[C handler.Context](cfg CORSConfig) handler.Middleware[C] {
	p := newCORSPolicy(cfg)

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			req := ctx.Request()
			origin, ok := p.origins.Resolve(req.Header.Get("Origin"))

			if req.Method == http.MethodOptions && req.Header.Get("Access-Control-Request-Method") != "" {
				return p.preflight(origin, ok)
			}

			resp := next(ctx)
			if !ok {
				return resp
			}
			return p.decorate(origin, resp)
		}
	}
}
