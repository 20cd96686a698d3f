package response_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/relay/core/response"
	"github.com/dmitrymomot/relay/core/router"
)

type teapotError struct{}

func (teapotError) Error() string   { return "short and stout" }
func (teapotError) StatusCode() int { return http.StatusTeapot }

type tooLargeError struct{}

func (tooLargeError) Error() string   { return "too large" }
func (tooLargeError) StatusCode() int { return http.StatusRequestEntityTooLarge }

type unknownStatusError struct{}

func (unknownStatusError) Error() string   { return "odd" }
func (unknownStatusError) StatusCode() int { return 599 }

func TestJSONErrorHandler(t *testing.T) {
	t.Parallel()

	conflict := response.NewHTTPError(http.StatusConflict, "version_conflict", "version conflict")

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"http_error", conflict, http.StatusConflict, "version_conflict"},
		{"wrapped_http_error", fmt.Errorf("publish: %w", conflict), http.StatusConflict, "version_conflict"},
		{"status_code_interface", teapotError{}, http.StatusTeapot, "im_a_teapot"},
		{"catalogued_status_code", fmt.Errorf("read body: %w", tooLargeError{}), http.StatusRequestEntityTooLarge, "request_entity_too_large"},
		{"unknown_status_code", unknownStatusError{}, http.StatusInternalServerError, "internal_server_error"},
		{"plain_error", errors.New("boom"), http.StatusInternalServerError, "internal_server_error"},
		{"router_not_found", router.ErrNotFound, http.StatusNotFound, "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			ctx := router.NewContext(w, httptest.NewRequest(http.MethodGet, "/", nil))
			response.JSONErrorHandler(ctx, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), `"code":"`+tt.wantCode+`"`)
		})
	}
}

func TestErrorHandler_PlainText(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	ctx := router.NewContext(w, httptest.NewRequest(http.MethodGet, "/", nil))
	response.ErrorHandler(ctx, response.ErrBadRequest.WithMessage("bad key"))

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "bad key", w.Body.String())
}

func TestHTTPError_WithError(t *testing.T) {
	t.Parallel()

	base := response.ErrBadRequest
	withCause := base.WithError(errors.New("cause"))

	assert.Equal(t, "cause", withCause.Details["cause"])
	assert.Nil(t, base.Details, "base error must not be mutated")
}
