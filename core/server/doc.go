// Package server wraps http.Server with functional options, environment
// configuration and graceful shutdown.
//
// # Usage
//
//	var cfg server.Config
//	config.MustLoad(&cfg)
//
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, handler))
//	return g.Wait()
//
// Run starts listening and, once ctx is cancelled, shuts the server down
// within the configured timeout. Addr reports the bound address, which is
// useful when listening on ":0".
//
// # Defaults
//
//   - ReadTimeout: 15 seconds
//   - WriteTimeout: none, so event streams are not cut off
//   - IdleTimeout: 60 seconds
//   - MaxHeaderBytes: 1MB
//   - Graceful shutdown timeout: 30 seconds
//   - Logger: discards output
package server
