// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package automatically loads .env files on first use and uses the
// caarlos0/env library for parsing environment variables into struct fields.
//
// Basic usage:
//
//	import "github.com/dmitrymomot/relay/core/config"
//
//	type RelayConfig struct {
//		Port          string        `env:"PORT" envDefault:"8080"`
//		ResetInterval time.Duration `env:"RESET_INTERVAL"`
//		AllowOrigins  []string      `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
//	}
//
//	func main() {
//		var cfg RelayConfig
//
//		// Load with error handling
//		if err := config.Load(&cfg); err != nil {
//			log.Fatal(err)
//		}
//
//		// Or panic on failure (useful for startup)
//		config.MustLoad(&cfg)
//	}
//
// # Caching Behavior
//
// Each configuration type is loaded only once per application lifetime:
//
//	var cfg1 RelayConfig
//	config.Load(&cfg1) // Loads from environment
//
//	var cfg2 RelayConfig
//	config.Load(&cfg2) // Returns cached value, cfg1 == cfg2
//
// Different types are cached independently:
//
//	type ServerConfig struct {
//		Port int `env:"PORT" envDefault:"8080"`
//	}
//
//	type PingConfig struct {
//		Address string `env:"EXTERNAL_ADDRESS,required"`
//	}
//
//	// Each type has its own cache entry
//	config.MustLoad(&ServerConfig{})
//	config.MustLoad(&PingConfig{})
//
// Tests that change the environment between loads call Reset first.
package config
