package relayd

import (
	"bytes"
	"context"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/dmitrymomot/relay/core/handler"
	"github.com/dmitrymomot/relay/core/health"
	"github.com/dmitrymomot/relay/core/logger"
	"github.com/dmitrymomot/relay/core/response"
	"github.com/dmitrymomot/relay/relay"
)

// publish handles POST /message/{key}/{version}. Checks run in order: key,
// version, content type, body, version conflict.
func (a *App) publish(ctx *Context) handler.Response {
	key := ctx.Param("key")
	if !relay.ValidKey(key) {
		return response.Error(ErrBadKey)
	}

	version, err := relay.ParseVersion(ctx.Param("version"))
	if err != nil {
		return response.Error(toHTTPError(err))
	}

	req := ctx.Request()
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return response.Error(toHTTPError(err))
	}

	if len(bytes.TrimSpace(body)) > 0 && !isJSON(req.Header.Get("Content-Type")) {
		return response.Error(ErrWrongContentType)
	}

	if _, err := a.relay.Publish(ctx, key, version, body); err != nil {
		return response.Error(toHTTPError(err))
	}

	return response.Status(0)
}

// isJSON accepts application/json and any +json structured syntax suffix.
func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// subscribe handles GET /messages as a Server-Sent Events stream.
func (a *App) subscribe(ctx *Context) handler.Response {
	return a.stream(ctx, func(sub *relay.Subscription) handler.Response {
		return response.SSE(sub.C(),
			response.WithKeepAlive(a.config.SSEKeepAlive),
			response.WithSSEErrorHandler(a.streamError(sub)),
		)
	})
}

// subscribeWS handles GET /messages/ws. Each record is sent as one text
// message holding its snapshot JSON.
func (a *App) subscribeWS(ctx *Context) handler.Response {
	return a.stream(ctx, func(sub *relay.Subscription) handler.Response {
		return response.WebSocketStream(sub.C(),
			func(rec *relay.Record) ([]byte, error) { return rec.Snapshot(), nil },
			response.WithWSOriginCheck(a.origins.CheckOrigin),
			response.WithWSPingInterval(a.config.SSEKeepAlive),
			response.WithWSErrorHandler(a.streamError(sub)),
		)
	})
}

// stream opens a subscription and hands it to build. The subscription is
// closed when the built response returns, or right away when build does not
// produce one.
func (a *App) stream(ctx *Context, build func(*relay.Subscription) handler.Response) (resp handler.Response) {
	sub, err := a.open(ctx)
	if err != nil {
		return response.Error(toHTTPError(err))
	}
	defer func() {
		if resp == nil {
			sub.Close()
		}
	}()

	stream := build(sub)
	if stream == nil {
		return nil
	}
	return closing(sub, stream)
}

func (a *App) open(ctx *Context) (*relay.Subscription, error) {
	filter, err := ctx.Filter()
	if err != nil {
		return nil, err
	}

	sub, err := a.relay.Subscribe(ctx, filter)
	if err != nil {
		return nil, err
	}

	a.logger.DebugContext(ctx, "subscriber connected",
		logger.Component("relay"),
		logger.SubscriptionID(sub.ID()),
		logger.RequestID(ctx.RequestID()),
		logger.Count("replayed", sub.Replayed()),
	)

	return sub, nil
}

// closing ends the subscription as soon as the stream returns, so the
// subscriber is deregistered promptly on disconnect.
func closing(sub *relay.Subscription, stream handler.Response) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		defer sub.Close()
		return stream(w, r)
	}
}

func (a *App) streamError(sub *relay.Subscription) func(context.Context, error) {
	return func(ctx context.Context, err error) {
		a.logger.DebugContext(ctx, "subscriber stream ended",
			logger.Component("relay"),
			logger.SubscriptionID(sub.ID()),
			logger.Error(err),
		)
	}
}

// snapshot handles GET /messages/snapshot.
func (a *App) snapshot(ctx *Context) handler.Response {
	filter, err := ctx.Filter()
	if err != nil {
		return response.Error(toHTTPError(err))
	}
	return response.JSONArray(a.relay.Snapshot(ctx, filter))
}

// health handles GET /health. It does not count as activity.
func (a *App) health(ctx *Context) handler.Response {
	stats := a.relay.Stats()
	a.logger.DebugContext(ctx, "health check",
		logger.Component("relay"),
		logger.Count("keys", stats.Keys),
		logger.Count("subscribers", stats.Subscribers),
	)
	return health.Liveness(ctx)
}
