package relayd

import (
	"time"

	"github.com/dmitrymomot/relay/core/server"
)

type Config struct {
	Server server.Config

	AppName  string `env:"APP_NAME" envDefault:"relay"`
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Port overrides Server.Addr with ":PORT" when set.
	Port string `env:"PORT"`

	// Keep-alive self ping; enabled only when both are set.
	ExternalAddress string        `env:"EXTERNAL_ADDRESS"`
	PingInterval    time.Duration `env:"PING_INTERVAL"`

	// Idle window after which the store is wiped; 0 disables it.
	ResetInterval      time.Duration `env:"RESET_INTERVAL"`
	ResetCheckInterval time.Duration `env:"RESET_CHECK_INTERVAL" envDefault:"1m"`

	AllowOrigins     []string      `env:"CORS_ALLOW_ORIGINS" envDefault:"*" envSeparator:","`
	SubscriberBuffer int           `env:"SUBSCRIBER_BUFFER" envDefault:"256"`
	SSEKeepAlive     time.Duration `env:"SSE_KEEPALIVE" envDefault:"30s"`
	MaxBodySize      int64         `env:"MAX_BODY_SIZE" envDefault:"1048576"`
}

// ListenAddr returns the address the HTTP server binds to.
func (c Config) ListenAddr() string {
	if c.Port != "" {
		return ":" + c.Port
	}
	return c.Server.Addr
}

// IsProduction reports whether APP_ENV is "production".
func (c Config) IsProduction() bool {
	return c.Env == "production"
}
