package response

import (
	"errors"
	"net/http"
	"strings"
	"unicode"

	"github.com/dmitrymomot/relay/core/handler"
)

// statusCode is implemented by errors that provide their own HTTP status.
type statusCode interface {
	StatusCode() int
}

// alreadyWritten is implemented by response writers that track the status line.
type alreadyWritten interface {
	Written() bool
}

// convertToHTTPError converts any error to an HTTPError.
func convertToHTTPError(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	status := http.StatusInternalServerError
	var sc statusCode
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}

	baseErr, ok := httpErrorsByStatus[status]
	if !ok {
		baseErr = statusError(status)
	}

	return baseErr.WithError(err)
}

// statusError builds an HTTPError for a status missing from the catalogue.
// The code is the snake_case status text; unknown statuses become 500.
func statusError(status int) HTTPError {
	text := http.StatusText(status)
	if text == "" {
		return ErrInternalServerError
	}

	var code strings.Builder
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if code.Len() > 0 {
			code.WriteByte('_')
		}
		for _, r := range word {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				code.WriteRune(r)
			}
		}
	}
	return NewHTTPError(status, code.String(), text)
}

func written(ctx handler.Context) bool {
	w, ok := ctx.ResponseWriter().(alreadyWritten)
	return ok && w.Written()
}

// ErrorHandler renders errors as plain text.
func ErrorHandler[C handler.Context](ctx C, err error) {
	if written(ctx) {
		return
	}
	httpErr := convertToHTTPError(err)
	Render(ctx, StringWithStatus(httpErr.Error(), httpErr.Status))
}

// JSONErrorHandler renders errors as {"code","message","details"} JSON.
func JSONErrorHandler[C handler.Context](ctx C, err error) {
	if written(ctx) {
		return
	}
	httpErr := convertToHTTPError(err)
	Render(ctx, JSONWithStatus(httpErr, httpErr.Status))
}
