package router

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrymomot/relay/core/handler"
)

// routeTable is shared by a root mux and its inline groups.
type routeTable struct {
	mu      sync.RWMutex
	mux     *http.ServeMux
	routes  []Route
	methods []string
}

// mux is the private implementation of Router.
type mux[C handler.Context] struct {
	table        *routeTable
	root         *mux[C]
	middlewares  []handler.Middleware[C]
	errorHandler handler.ErrorHandler[C]
	newContext   func(http.ResponseWriter, *http.Request) C
	logger       *slog.Logger
	sealed       bool // routes were registered; Use is no longer allowed
}

func newMux[C handler.Context](opts ...Option[C]) *mux[C] {
	m := &mux[C]{
		table:        &routeTable{mux: http.NewServeMux()},
		errorHandler: defaultErrorHandler[C],
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	m.root = m

	for _, opt := range opts {
		opt(m)
	}

	if m.newContext == nil {
		var zero C
		if _, ok := any(zero).(*Context); !ok {
			panic(ErrNoContextFactory)
		}
		m.newContext = func(w http.ResponseWriter, r *http.Request) C {
			return any(NewContext(w, r)).(C)
		}
	}

	return m
}

// ServeHTTP implements http.Handler.
func (m *mux[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if _, pattern := m.table.mux.Handler(r); pattern != "" {
		m.table.mux.ServeHTTP(w, r)
		return
	}

	// Unmatched requests still run through the middleware chain so that
	// cross-cutting concerns (CORS preflight, request ids, logging) apply.
	err := ErrNotFound
	if allowed := m.allowedMethods(r); len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
		err = ErrMethodNotAllowed
	}
	m.serve(w, r, nil, func(C) handler.Response {
		return func(http.ResponseWriter, *http.Request) error { return err }
	})
}

// allowedMethods probes the route table with every registered method.
func (m *mux[C]) allowedMethods(r *http.Request) []string {
	m.table.mu.RLock()
	methods := slices.Clone(m.table.methods)
	m.table.mu.RUnlock()

	var allowed []string
	for _, method := range methods {
		if method == r.Method {
			continue
		}
		probe := r.Clone(r.Context())
		probe.Method = method
		if _, pattern := m.table.mux.Handler(probe); pattern != "" {
			allowed = append(allowed, method)
		}
	}
	return allowed
}

// serve runs the root middlewares, then the route's own chain, then renders.
func (m *mux[C]) serve(w http.ResponseWriter, r *http.Request, routeMiddlewares []handler.Middleware[C], fn handler.HandlerFunc[C]) {
	ww := newResponseWriter(w)
	ctx := m.root.newContext(ww, r)

	defer func() {
		if p := recover(); p != nil {
			panicErr := &panicError{value: p, stack: debug.Stack()}
			if ww.Written() {
				m.root.logger.Error("panic after response written",
					"value", panicErr.value,
					"stack", string(panicErr.stack),
					"path", r.URL.Path,
					"method", r.Method,
					"status", ww.Status(),
				)
				return
			}
			m.root.errorHandler(ctx, panicErr)
		}
	}()

	h := fn
	if len(routeMiddlewares) > 0 {
		h = chain(routeMiddlewares, h)
	}
	if len(m.root.middlewares) > 0 {
		h = chain(m.root.middlewares, h)
	}

	response := h(ctx)
	if response == nil {
		m.root.errorHandler(ctx, ErrNilResponse)
		return
	}

	// ctx.Request() carries values added by middleware through SetValue.
	if err := response(ww, ctx.Request()); err != nil {
		m.root.errorHandler(ctx, err)
	}
}

// Get registers a handler for GET (and HEAD) requests.
func (m *mux[C]) Get(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodGet, pattern, h)
}

// Post registers a handler for POST requests.
func (m *mux[C]) Post(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodPost, pattern, h)
}

// Put registers a handler for PUT requests.
func (m *mux[C]) Put(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodPut, pattern, h)
}

// Delete registers a handler for DELETE requests.
func (m *mux[C]) Delete(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodDelete, pattern, h)
}

// Options registers a handler for OPTIONS requests.
func (m *mux[C]) Options(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodOptions, pattern, h)
}

// Handle registers a handler for all methods.
func (m *mux[C]) Handle(pattern string, h handler.HandlerFunc[C]) {
	m.handle("", pattern, h)
}

// Use appends middleware. It must be called before any route is registered.
func (m *mux[C]) Use(middlewares ...handler.Middleware[C]) {
	if m.sealed {
		panic("router: all middlewares must be defined before routes on a mux")
	}
	m.middlewares = append(m.middlewares, middlewares...)
}

// With returns an inline router that shares the route table and adds middlewares.
func (m *mux[C]) With(middlewares ...handler.Middleware[C]) Router[C] {
	var inherited []handler.Middleware[C]
	if m != m.root {
		inherited = m.middlewares
	}

	return &mux[C]{
		table:        m.table,
		root:         m.root,
		middlewares:  append(slices.Clone(inherited), middlewares...),
		errorHandler: m.errorHandler,
		newContext:   m.newContext,
		logger:       m.logger,
	}
}

// Group creates an inline router for grouping routes.
func (m *mux[C]) Group(fn func(r Router[C])) Router[C] {
	im := m.With()
	if fn != nil {
		fn(im)
	}
	return im
}

// Routes returns registered routes in registration order.
func (m *mux[C]) Routes() []Route {
	m.table.mu.RLock()
	defer m.table.mu.RUnlock()
	return slices.Clone(m.table.routes)
}

func (m *mux[C]) handle(method, pattern string, fn handler.HandlerFunc[C]) {
	if len(pattern) == 0 || pattern[0] != '/' {
		panic(fmt.Errorf("%w: '%s'", ErrInvalidPattern, pattern))
	}
	if fn == nil {
		panic(fmt.Errorf("%w on '%s'", ErrNilHandler, pattern))
	}

	m.sealed = true
	m.root.sealed = true

	var routeMiddlewares []handler.Middleware[C]
	if m != m.root {
		routeMiddlewares = slices.Clone(m.middlewares)
	}

	key := pattern
	if method != "" {
		key = method + " " + pattern
	}

	m.table.mu.Lock()
	m.table.routes = append(m.table.routes, Route{Method: method, Pattern: pattern})
	if method != "" && !slices.Contains(m.table.methods, method) {
		m.table.methods = append(m.table.methods, method)
	}
	m.table.mu.Unlock()

	m.table.mux.HandleFunc(key, func(w http.ResponseWriter, r *http.Request) {
		m.serve(w, r, routeMiddlewares, fn)
	})
}
