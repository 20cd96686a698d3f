package handler

import (
	"context"
	"net/http"
)

// Context is the request context seen by handlers and middleware.
// It embeds the request's context.Context, so it can be passed to any
// blocking call and is cancelled when the client goes away.
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
	Param(key string) string
	SetValue(key, val any)
}
