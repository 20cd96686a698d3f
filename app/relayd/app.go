package relayd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/relay/core/config"
	"github.com/dmitrymomot/relay/core/health"
	"github.com/dmitrymomot/relay/core/logger"
	"github.com/dmitrymomot/relay/core/response"
	"github.com/dmitrymomot/relay/core/router"
	"github.com/dmitrymomot/relay/core/server"
	"github.com/dmitrymomot/relay/middleware"
	"github.com/dmitrymomot/relay/relay"
)

// App wires the relay service to its HTTP surface and background loops.
type App struct {
	config     Config
	configured bool
	relay      *relay.Service
	router     router.Router[*Context]
	server     *server.Server
	idle       *relay.IdleReset
	pinger     *Pinger
	origins    middleware.Origins
	logger     *slog.Logger
}

type AppOption func(*App) error

// NewApp builds the application. Without WithConfig the configuration is
// loaded from the environment.
func NewApp(opts ...AppOption) (*App, error) {
	app := &App{}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if !app.configured {
		if err := config.Load(&app.config); err != nil {
			return nil, err
		}
	}

	if app.logger == nil {
		app.logger = newLogger(app.config)
	}

	if app.relay == nil {
		app.relay = relay.New(
			relay.WithLogger(app.logger),
			relay.WithSubscriberBuffer(app.config.SubscriberBuffer),
		)
	}

	if app.server == nil {
		srvCfg := app.config.Server
		srvCfg.Addr = app.config.ListenAddr()
		s, err := server.NewFromConfig(srvCfg, server.WithLogger(app.logger.With(logger.Component("server"))))
		if err != nil {
			return nil, err
		}
		app.server = s
	}

	app.idle = relay.NewIdleReset(app.relay, app.config.ResetInterval,
		relay.WithCheckInterval(app.config.ResetCheckInterval),
		relay.WithIdleLogger(app.logger),
	)

	if app.pinger == nil {
		app.pinger = NewPinger(app.config.ExternalAddress, app.config.PingInterval,
			WithPingLogger(app.logger),
		)
	}

	app.router = app.routes()

	return app, nil
}

func newLogger(cfg Config) *slog.Logger {
	name := cfg.AppName
	if cfg.IsProduction() {
		return logger.New(logger.WithProduction(name), logger.WithLevel(logger.ParseLevel(cfg.LogLevel)))
	}
	return logger.New(logger.WithDevelopment(name), logger.WithLevel(logger.ParseLevel(cfg.LogLevel)))
}

func (a *App) routes() router.Router[*Context] {
	a.origins = middleware.NewOrigins(a.config.AllowOrigins)

	r := router.New[*Context](
		router.WithContextFactory(newContext),
		router.WithErrorHandler(response.JSONErrorHandler[*Context]),
		router.WithLogger[*Context](a.logger),
	)

	r.Use(
		middleware.RequestIDWithConfig[*Context](middleware.RequestIDConfig{TrustInbound: true}),
		middleware.LoggingWithConfig[*Context](middleware.LoggingConfig{
			Logger:   a.logger,
			LogLevel: slog.LevelDebug,
		}),
		middleware.CORSWithConfig[*Context](middleware.CORSConfig{
			AllowOrigins: a.config.AllowOrigins,
		}),
	)

	r.With(middleware.BodyLimitWithSize[*Context](a.config.MaxBodySize)).
		Post("/message/{key}/{version}", a.publish)

	r.Get("/messages", a.subscribe)
	r.Get("/messages/ws", a.subscribeWS)
	r.Get("/messages/snapshot", a.snapshot)
	r.Get("/health", a.health)
	r.Get("/health/ready", health.Readiness[*Context](a.logger, a.relay.Ready))

	return r
}

// Handler returns the HTTP handler, for tests and embedding.
func (a *App) Handler() http.Handler {
	return a.router
}

// Service returns the relay service.
func (a *App) Service() *relay.Service {
	return a.relay
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Run serves HTTP and runs the idle reset and keep-alive loops until ctx is
// cancelled. On shutdown open subscriptions are closed so streams end before
// the server drains.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(a.server.Run(ctx, a.router))
	g.Go(a.idle.Run(ctx))
	g.Go(a.pinger.Run(ctx))
	g.Go(func() error {
		<-ctx.Done()
		a.relay.Close()
		return nil
	})

	a.logger.InfoContext(ctx, "relay started",
		slog.String("addr", a.config.ListenAddr()),
		slog.Bool("idle_reset", a.idle.Enabled()),
		slog.Bool("keep_alive_ping", a.pinger.Enabled()),
	)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Addr returns the bound listen address once the server is ready.
func (a *App) Addr(ctx context.Context) (string, error) {
	select {
	case <-a.server.Ready():
		return a.server.Addr(), nil
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(10 * time.Second):
		return "", errors.New("server did not start")
	}
}

func WithConfig(cfg Config) AppOption {
	return func(app *App) error {
		app.config = cfg
		app.configured = true
		return nil
	}
}

func WithLogger(logger *slog.Logger) AppOption {
	return func(app *App) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		app.logger = logger
		return nil
	}
}

func WithService(svc *relay.Service) AppOption {
	return func(app *App) error {
		if svc == nil {
			return errors.New("relay service cannot be nil")
		}
		app.relay = svc
		return nil
	}
}

func WithServer(server *server.Server) AppOption {
	return func(app *App) error {
		if server == nil {
			return errors.New("server cannot be nil")
		}
		app.server = server
		return nil
	}
}

func WithPinger(pinger *Pinger) AppOption {
	return func(app *App) error {
		if pinger == nil {
			return errors.New("pinger cannot be nil")
		}
		app.pinger = pinger
		return nil
	}
}
