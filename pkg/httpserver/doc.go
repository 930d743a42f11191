// Package httpserver runs an http.Handler with graceful shutdown.
//
// Run blocks until the context is cancelled or SIGINT/SIGTERM arrives, then
// calls Shutdown, which drains in-flight requests within the configured
// deadline and closes the resources registered with WithCloser in reverse
// order. Session managers and backend clients are closed this way only once no
// request can use them anymore.
//
// LivenessHandler and ReadinessHandler serve /healthz and /readyz style probes;
// readiness runs the given checks with the request context.
//
// # Usage
//
//	srv := httpserver.NewFromConfig(cfg,
//	    httpserver.WithLogger(log),
//	    httpserver.WithCloser("session", func(context.Context) error { return manager.Close() }),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//	    log.Error("server stopped", logger.Error(err))
//	}
package httpserver
