// Command relay runs the in-memory publish/subscribe relay.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/relay/app/relayd"
	"github.com/dmitrymomot/relay/core/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := relayd.NewApp()
	if err != nil {
		logger.New().Error("failed to initialize relay", logger.Error(err))
		os.Exit(1)
	}
	logger.SetAsDefault(app.Logger())

	if err := app.Run(ctx); err != nil {
		app.Logger().Error("relay stopped with error", logger.Error(err))
		os.Exit(1)
	}

	app.Logger().Info("relay stopped")
}
