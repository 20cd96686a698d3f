package health

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/relay/core/handler"
	"github.com/dmitrymomot/relay/core/logger"
	"github.com/dmitrymomot/relay/core/response"
)

// Readiness runs every check in order. It returns "READY" when all pass and
// 503 Service Unavailable on the first failure.
func Readiness[C handler.Context](log *slog.Logger, checks ...func(context.Context) error) handler.HandlerFunc[C] {
	return func(ctx C) handler.Response {
		for _, check := range checks {
			if err := check(ctx); err != nil {
				log.WarnContext(ctx, "readiness check failed", logger.Error(err))
				return response.Error(response.ErrServiceUnavailable.WithError(err))
			}
		}

		return response.String("READY")
	}
}
