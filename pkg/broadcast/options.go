package broadcast

import "log/slog"

// Option configures a Hub.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger used to report failed deliveries.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
