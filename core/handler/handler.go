package handler

import "net/http"

// Response renders an HTTP response: headers, status code and body.
// A returned error is handed to the router's ErrorHandler; a Response that
// already wrote its status must not expect the error to be rendered.
type Response func(w http.ResponseWriter, r *http.Request) error

// HandlerFunc handles a request with a typed context.
type HandlerFunc[C Context] func(ctx C) Response

// ErrorHandler renders errors raised while handling a request.
type ErrorHandler[C Context] func(ctx C, err error)

// Middleware wraps handlers to add cross-cutting behavior.
type Middleware[C Context] func(next HandlerFunc[C]) HandlerFunc[C]
