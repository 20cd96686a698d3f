package middleware

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dmitrymomot/relay/core/handler"
	"github.com/dmitrymomot/relay/core/response"
)

// Common size constants for convenience
const (
	KB int64 = 1024
	MB       = 1024 * KB
)

// BodyLimitConfig configures the request body limit middleware.
type BodyLimitConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool

	// MaxSize is the maximum allowed size in bytes (default: 1MB)
	MaxSize int64
}

// BodyLimit creates a body limit middleware with the default 1MB limit.
func BodyLimit[C handler.Context]() handler.Middleware[C] {
	return BodyLimitWithConfig[C](BodyLimitConfig{})
}

// BodyLimitWithSize creates a body limit middleware with a specified size limit.
func BodyLimitWithSize[C handler.Context](maxSize int64) handler.Middleware[C] {
	return BodyLimitWithConfig[C](BodyLimitConfig{
		MaxSize: maxSize,
	})
}

// BodyLimitWithConfig rejects declared oversize bodies up front and wraps the
// body so reading past the limit fails with response.ErrRequestEntityTooLarge.
func BodyLimitWithConfig[C handler.Context](cfg BodyLimitConfig) handler.Middleware[C] {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = MB
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			req := ctx.Request()

			if v := req.Header.Get("Content-Length"); v != "" {
				if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > cfg.MaxSize {
					return response.Error(tooLarge(cfg.MaxSize))
				}
			}

			if req.Body != nil {
				req.Body = &limitedReader{reader: req.Body, limit: cfg.MaxSize}
			}

			return next(ctx)
		}
	}
}

func tooLarge(limit int64) error {
	return response.ErrRequestEntityTooLarge.
		WithMessage(fmt.Sprintf("request body exceeds %d bytes", limit)).
		WithDetails(map[string]any{"limit": limit})
}

// limitedReader fails once more than limit bytes have been read.
type limitedReader struct {
	reader io.ReadCloser
	limit  int64
	read   int64
}

func (lr *limitedReader) Read(p []byte) (int, error) {
	if lr.read > lr.limit {
		return 0, tooLarge(lr.limit)
	}

	// Allow one byte past the limit so an exact-size body still sees io.EOF.
	if remaining := lr.limit + 1 - lr.read; int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err := lr.reader.Read(p)
	lr.read += int64(n)
	if lr.read > lr.limit {
		return n, tooLarge(lr.limit)
	}
	return n, err
}

func (lr *limitedReader) Close() error {
	return lr.reader.Close()
}
