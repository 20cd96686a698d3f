package relayd

import (
	"net/http"

	"github.com/dmitrymomot/relay/core/router"
	"github.com/dmitrymomot/relay/middleware"
	"github.com/dmitrymomot/relay/relay"
)

// Context is the request context of the relay HTTP surface.
type Context struct {
	*router.Context
}

func newContext(w http.ResponseWriter, r *http.Request) *Context {
	return &Context{Context: router.NewContext(w, r)}
}

// RequestID returns the id assigned by the request id middleware.
func (c *Context) RequestID() string {
	id, _ := middleware.GetRequestID(c)
	return id
}

// Filter parses the matches and starts-with query parameters.
func (c *Context) Filter() (relay.Filter, error) {
	return parseFilter(c.Request().URL.Query())
}
