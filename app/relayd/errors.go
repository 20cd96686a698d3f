package relayd

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/relay/core/response"
	"github.com/dmitrymomot/relay/relay"
)

var (
	ErrBadKey           = response.NewHTTPError(http.StatusBadRequest, "bad_key", "key must match ^(\\w|-|\\.)+$")
	ErrBadVersion       = response.NewHTTPError(http.StatusBadRequest, "bad_version", "version must be a positive integer of at most 15 digits")
	ErrWrongContentType = response.NewHTTPError(http.StatusBadRequest, "wrong_content_type", "body must be JSON")
	ErrBadBody          = response.NewHTTPError(http.StatusBadRequest, "bad_body", "body is not valid JSON")
	ErrBadFilters       = response.NewHTTPError(http.StatusBadRequest, "bad_filters", "matches and starts-with must be non-empty lists of keys")
	ErrVersionConflict  = response.NewHTTPError(http.StatusConflict, "version_conflict", "version conflict")
	ErrUnavailable      = response.ErrServiceUnavailable.WithMessage("relay is shutting down")
)

// toHTTPError maps relay errors to HTTP errors. Errors that already carry
// an HTTP status pass through.
func toHTTPError(err error) error {
	var httpErr response.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var conflict *relay.ConflictError
	switch {
	case errors.As(err, &conflict):
		return ErrVersionConflict.WithDetails(map[string]any{
			"key":      conflict.Key,
			"current":  conflict.Current,
			"expected": conflict.Current + 1,
			"declared": conflict.Declared,
		})
	case errors.Is(err, relay.ErrBadKey):
		return ErrBadKey
	case errors.Is(err, relay.ErrBadVersion):
		return ErrBadVersion
	case errors.Is(err, relay.ErrWrongContentType):
		return ErrWrongContentType
	case errors.Is(err, relay.ErrBadBody):
		return ErrBadBody.WithError(err)
	case errors.Is(err, relay.ErrBadFilters):
		return ErrBadFilters.WithError(err)
	case errors.Is(err, relay.ErrClosed):
		return ErrUnavailable
	}
	return err
}
