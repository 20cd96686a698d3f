package middleware_test

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/relay/core/handler"
	"github.com/dmitrymomot/relay/core/logger"
	"github.com/dmitrymomot/relay/core/response"
	"github.com/dmitrymomot/relay/core/router"
	"github.com/dmitrymomot/relay/middleware"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newLoggedRouter(out *syncBuffer) router.Router[*router.Context] {
	log := logger.New(logger.WithJSONFormatter(), logger.WithOutput(out), logger.WithLevel(slog.LevelDebug))
	r := router.New[*router.Context](router.WithErrorHandler(response.JSONErrorHandler[*router.Context]))
	r.Use(
		middleware.RequestID[*router.Context](),
		middleware.LoggingWithLogger[*router.Context](log),
	)
	return r
}

func TestLogging(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		var out syncBuffer
		r := newLoggedRouter(&out)
		r.Get("/snapshot", okHandler)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/snapshot?x=1", nil))

		logged := out.String()
		assert.Contains(t, logged, `"msg":"HTTP request completed"`)
		assert.Contains(t, logged, `"level":"INFO"`)
		assert.Contains(t, logged, `"status_code":200`)
		assert.Contains(t, logged, `"path":"/snapshot"`)
		assert.Contains(t, logged, `"query":"x=1"`)
		assert.Contains(t, logged, `"request_id":"`+w.Header().Get("X-Request-ID")+`"`)
	})

	t.Run("error_response_status", func(t *testing.T) {
		t.Parallel()

		var out syncBuffer
		r := newLoggedRouter(&out)
		r.Post("/message/{key}/{version}", func(*router.Context) handler.Response {
			return response.Error(response.ErrConflict)
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/message/a/1", nil))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, out.String(), `"status_code":409`)
		assert.Contains(t, out.String(), `"level":"WARN"`)
	})

	t.Run("internal_error", func(t *testing.T) {
		t.Parallel()

		var out syncBuffer
		r := newLoggedRouter(&out)
		r.Get("/boom", func(*router.Context) handler.Response {
			return response.Error(errors.New("boom"))
		})

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

		assert.Contains(t, out.String(), `"level":"ERROR"`)
		assert.Contains(t, out.String(), `"error":"boom"`)
	})

	t.Run("streams_flush_through", func(t *testing.T) {
		t.Parallel()

		var out syncBuffer
		r := newLoggedRouter(&out)
		events := make(chan string, 1)
		events <- "hello"
		close(events)
		r.Get("/messages", func(*router.Context) handler.Response {
			return response.SSE(events, response.WithoutKeepAlive())
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/messages", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, w.Flushed)
		assert.Contains(t, w.Body.String(), "data: hello\n\n")
	})
}
