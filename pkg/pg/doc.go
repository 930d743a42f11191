// Package pg provides PostgreSQL helpers built on pgx/v5 and a session store
// backed by a single table.
//
// # Architecture
//
//   - Config is populated from environment variables via
//     github.com/caarlos0/env. It controls pool limits, health-check cadence,
//     migrations and the session table.
//   - Connect opens a *pgxpool.Pool, retrying with a growing back-off until the
//     database becomes available.
//   - Migrate runs goose migrations over the same pool. With an empty
//     MigrationsPath it applies the embedded schema creating the "sessions" table.
//   - Store implements session.Store and session.Toucher. Its default expiry
//     lives in a nested options object (Store.Options().Expiration()), the shape
//     the session manager's TTL shim knows how to override per write.
//
// # Usage
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    panic(err)
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, slog.Default()); err != nil {
//	    panic(err)
//	}
//
//	store := pg.NewStoreFromConfig(pool, cfg, pg.WithLogger(slog.Default()))
//	store.StartCleanup(ctx, cfg.CleanupInterval)
//
//	manager, err := session.New(session.WithStore(store))
//
// Expired rows are filtered out by every read, so the cleanup loop only
// reclaims space.
//
// # Error Handling
//
// IsNotFoundError and IsUndefinedTableError classify errors returned by pgx.
package pg
