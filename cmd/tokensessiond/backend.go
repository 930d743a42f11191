package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/tokensession/pkg/config"
	"github.com/dmitrymomot/tokensession/pkg/httpserver"
	"github.com/dmitrymomot/tokensession/pkg/mongo"
	"github.com/dmitrymomot/tokensession/pkg/pg"
	"github.com/dmitrymomot/tokensession/pkg/redis"
	"github.com/dmitrymomot/tokensession/pkg/session"
)

// Backend names accepted by SESSION_BACKEND.
const (
	backendMemory   = "memory"
	backendRedis    = "redis"
	backendPostgres = "postgres"
	backendMongo    = "mongo"
)

var errUnknownBackend = errors.New("unknown session backend")

// backend is an opened session store with its probes and cleanup. A nil store
// lets the manager build its default in-memory store.
type backend struct {
	name    string
	store   session.Store
	checks  []httpserver.Check
	closers []func(context.Context) error
}

// close runs the closers in reverse order and joins their errors.
func (b *backend) close(ctx context.Context) error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func openBackend(ctx context.Context, name string, log *slog.Logger) (*backend, error) {
	switch name {
	case backendMemory, "":
		return &backend{name: backendMemory}, nil
	case backendRedis:
		return openRedis(ctx)
	case backendPostgres, "pg":
		return openPostgres(ctx, log)
	case backendMongo, "mongodb":
		return openMongo(ctx)
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownBackend, name)
	}
}

func openRedis(ctx context.Context) (*backend, error) {
	var cfg redis.Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}

	client, err := redis.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &backend{
		name:    backendRedis,
		store:   redis.NewStoreFromConfig(client, cfg),
		checks:  []httpserver.Check{{Name: backendRedis, Fn: redis.Healthcheck(client)}},
		closers: []func(context.Context) error{func(context.Context) error { return client.Close() }},
	}, nil
}

func openPostgres(ctx context.Context, log *slog.Logger) (*backend, error) {
	var cfg pg.Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}

	pool, err := pg.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := pg.Migrate(ctx, pool, cfg, log); err != nil {
		pool.Close()
		return nil, err
	}

	store := pg.NewStoreFromConfig(pool, cfg, pg.WithLogger(log))
	cleanupCtx, stopCleanup := context.WithCancel(context.WithoutCancel(ctx))
	store.StartCleanup(cleanupCtx, cfg.CleanupInterval)

	return &backend{
		name:   backendPostgres,
		store:  store,
		checks: []httpserver.Check{{Name: backendPostgres, Fn: pg.Healthcheck(pool)}},
		closers: []func(context.Context) error{
			func(context.Context) error { pool.Close(); return nil },
			func(context.Context) error { stopCleanup(); return nil },
		},
	}, nil
}

func openMongo(ctx context.Context) (*backend, error) {
	var cfg mongo.Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}

	client, err := mongo.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store := mongo.NewStoreFromConfig(client, cfg)
	if err := store.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &backend{
		name:    backendMongo,
		store:   store,
		checks:  []httpserver.Check{{Name: backendMongo, Fn: mongo.Healthcheck(client)}},
		closers: []func(context.Context) error{client.Disconnect},
	}, nil
}
