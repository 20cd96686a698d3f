// Package logger provides structured logging utilities built on Go's standard slog package.
// It offers environment-specific configurations and a set of pre-built
// attributes for common logging scenarios.
//
// # Basic Usage
//
//	import "github.com/dmitrymomot/relay/core/logger"
//
//	// Development: text format, debug level, stdout
//	log := logger.New(logger.WithDevelopment("relay"))
//
//	// Production: JSON format, info level, stdout
//	log := logger.New(logger.WithProduction("relay"))
//
//	// Custom configuration
//	log := logger.New(
//		logger.WithLevel(logger.ParseLevel(os.Getenv("LOG_LEVEL"))),
//		logger.WithJSONFormatter(),
//		logger.WithAttr(slog.String("service", "relay")),
//		logger.WithOutput(os.Stderr),
//	)
//
// # Attribute Helpers
//
// Helpers keep attribute names consistent across the code base and return an
// empty attribute for nil or empty input:
//
//	log.Warn("delivery failed",
//		logger.Component("broadcast"),
//		logger.MessageKey(key),
//		logger.Error(err), // no-op when err == nil
//	)
//
//	log.Info("HTTP request completed",
//		logger.Method(r.Method),
//		logger.Path(r.URL.Path),
//		logger.StatusCode(status),
//		logger.Duration(time.Since(start)),
//	)
//
// # Testing with Custom Output
//
//	var buf bytes.Buffer
//	log := logger.New(logger.WithJSONFormatter(), logger.WithOutput(&buf))
//	log.Info("Test message", logger.Component("test"))
//	assert.Contains(t, buf.String(), `"component":"test"`)
package logger
