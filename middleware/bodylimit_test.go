package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/relay/core/handler"
	"github.com/dmitrymomot/relay/core/response"
	"github.com/dmitrymomot/relay/core/router"
	"github.com/dmitrymomot/relay/middleware"
)

func newLimitedRouter(limit int64) http.Handler {
	r := router.New[*router.Context](router.WithErrorHandler(response.JSONErrorHandler[*router.Context]))
	r.Use(middleware.BodyLimitWithSize[*router.Context](limit))
	r.Post("/echo", func(ctx *router.Context) handler.Response {
		body, err := io.ReadAll(ctx.Request().Body)
		if err != nil {
			return response.Error(err)
		}
		return response.String(string(body))
	})
	return r
}

func TestBodyLimit(t *testing.T) {
	t.Parallel()

	t.Run("within_limit", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		newLimitedRouter(5).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("12345")))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "12345", w.Body.String())
	})

	t.Run("content_length_exceeds", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		newLimitedRouter(4).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("12345")))

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), `"code":"request_entity_too_large"`)
	})

	t.Run("chunked_body_exceeds", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/echo", io.NopCloser(strings.NewReader("123456789")))
		req.ContentLength = -1
		req.Header.Del("Content-Length")

		w := httptest.NewRecorder()
		newLimitedRouter(4).ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}
