package health

import (
	"github.com/dmitrymomot/relay/core/handler"
	"github.com/dmitrymomot/relay/core/response"
)

// Liveness indicates if the service process is running.
// Always returns "OK" with 200. No dependency checks.
func Liveness[C handler.Context](C) handler.Response {
	return response.String("OK")
}
