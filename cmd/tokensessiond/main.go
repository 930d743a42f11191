// Command tokensessiond serves a small session API on top of the session
// manager, backed by memory, Redis, PostgreSQL or MongoDB.
//
// Configuration comes from the environment (and an optional .env file):
// SESSION_BACKEND selects the store, SESSION_* tune the manager, LOG_* the
// logger, HTTP_* the server and REDIS_*, PG_*, MONGODB_* the chosen backend.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dmitrymomot/tokensession/pkg/config"
	"github.com/dmitrymomot/tokensession/pkg/httpserver"
	"github.com/dmitrymomot/tokensession/pkg/logger"
	"github.com/dmitrymomot/tokensession/pkg/requestid"
	"github.com/dmitrymomot/tokensession/pkg/session"
)

type appConfig struct {
	Backend      string        `env:"SESSION_BACKEND" envDefault:"memory"`
	ReadyTimeout time.Duration `env:"READY_TIMEOUT" envDefault:"2s"`
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		appCfg     appConfig
		logCfg     logger.Config
		sessionCfg session.Config
		httpCfg    httpserver.Config
	)
	for _, load := range []func() error{
		func() error { return config.Load(&appCfg) },
		func() error { return config.Load(&logCfg) },
		func() error { return config.Load(&sessionCfg) },
		func() error { return config.Load(&httpCfg) },
	} {
		if err := load(); err != nil {
			return err
		}
	}

	log, err := logger.NewFromConfig(logCfg, logger.WithContextExtractors(requestid.LoggerExtractor()))
	if err != nil {
		return err
	}
	logger.SetAsDefault(log)

	b, err := openBackend(ctx, appCfg.Backend, log)
	if err != nil {
		return err
	}
	log.InfoContext(ctx, "session backend ready", logger.Backend(b.name))

	opts := []session.Option{session.WithLogger(log)}
	if b.store != nil {
		opts = append(opts, session.WithStore(b.store))
	}
	manager, err := session.NewFromConfig(sessionCfg, opts...)
	if err != nil {
		_ = b.close(ctx)
		return err
	}

	ready := httpserver.ReadinessHandler(log, appCfg.ReadyTimeout, b.checks...)

	srv := httpserver.NewFromConfig(httpCfg,
		httpserver.WithLogger(log),
		httpserver.WithCloser(b.name, b.close),
		httpserver.WithCloser("session", func(context.Context) error { return manager.Close() }),
	)

	return srv.Run(ctx, newRouter(manager, log, ready))
}
