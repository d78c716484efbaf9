// Package httpserver runs bluebird's HTTP listener with graceful shutdown
// and serves the health probes.
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	if err := srv.Run(ctx, router); err != nil {
//	    log.Error("server stopped", logger.Error(err))
//	}
//
// Run returns nil after a graceful shutdown triggered by context
// cancellation or Shutdown.
package httpserver
