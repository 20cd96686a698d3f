package relayd_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/relay/app/relayd"
	"github.com/dmitrymomot/relay/core/config"
)

// Not parallel: reads the process environment.
func TestConfigFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("RESET_INTERVAL", "15m")
	t.Setenv("EXTERNAL_ADDRESS", "https://relay.example.com")
	t.Setenv("PING_INTERVAL", "10m")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example,https://b.example")
	config.Reset()
	t.Cleanup(config.Reset)

	var cfg relayd.Config
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, ":9000", cfg.ListenAddr())
	assert.Equal(t, 15*time.Minute, cfg.ResetInterval)
	assert.Equal(t, time.Minute, cfg.ResetCheckInterval)
	assert.Equal(t, "https://relay.example.com", cfg.ExternalAddress)
	assert.Equal(t, 10*time.Minute, cfg.PingInterval)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowOrigins)
	assert.Equal(t, 256, cfg.SubscriberBuffer)
	assert.Equal(t, 30*time.Second, cfg.SSEKeepAlive)
	assert.Equal(t, int64(1<<20), cfg.MaxBodySize)
	assert.Equal(t, "relay", cfg.AppName)
	assert.Equal(t, time.Duration(0), cfg.Server.WriteTimeout)
}

func TestConfigListenAddr(t *testing.T) {
	t.Parallel()

	cfg := relayd.Config{}
	cfg.Server.Addr = ":8080"
	assert.Equal(t, ":8080", cfg.ListenAddr())

	cfg.Port = "3000"
	assert.Equal(t, ":3000", cfg.ListenAddr())
}
