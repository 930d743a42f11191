package pg

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/tokensession/pkg/session"
)

// DB is the subset of *pgxpool.Pool used by Store.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// StoreOptions holds the mutable settings of a Store. The session manager
// reaches the default expiry through Store.Options.
type StoreOptions struct {
	mu         sync.RWMutex
	expiration time.Duration
}

// Expiration returns the default session expiry.
func (o *StoreOptions) Expiration() time.Duration {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.expiration
}

// SetExpiration changes the default session expiry for subsequent writes.
func (o *StoreOptions) SetExpiration(ttl time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.expiration = ttl
}

// Store persists sessions in a PostgreSQL table with a JSONB payload column
// and a nullable expiry timestamp.
type Store struct {
	db      DB
	opts    *StoreOptions
	queries storeQueries
	log     *slog.Logger
}

type storeQueries struct {
	get, upsert, touch, destroy, deleteExpired string
}

// StoreOption configures a Store.
type StoreOption func(*storeConfig)

type storeConfig struct {
	table      string
	expiration time.Duration
	log        *slog.Logger
}

// WithTable sets the session table, e.g. "sessions" or "auth.sessions".
func WithTable(table string) StoreOption {
	return func(c *storeConfig) {
		if table != "" {
			c.table = table
		}
	}
}

// WithExpiration sets the default session expiry. Zero stores sessions without expiry.
func WithExpiration(ttl time.Duration) StoreOption {
	return func(c *storeConfig) {
		c.expiration = ttl
	}
}

// WithLogger sets the logger used by the cleanup loop.
func WithLogger(log *slog.Logger) StoreOption {
	return func(c *storeConfig) {
		if log != nil {
			c.log = log
		}
	}
}

// NewStore creates a session store on top of db. The table must exist; Migrate
// creates the default "sessions" table.
func NewStore(db DB, opts ...StoreOption) *Store {
	cfg := storeConfig{
		table:      "sessions",
		expiration: 30 * time.Minute,
		log:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	table := pgx.Identifier(strings.Split(cfg.table, ".")).Sanitize()

	return &Store{
		db:   db,
		opts: &StoreOptions{expiration: cfg.expiration},
		queries: storeQueries{
			get: `SELECT data FROM ` + table +
				` WHERE id = $1 AND (expires_at IS NULL OR expires_at > now())`,
			upsert: `INSERT INTO ` + table + ` (id, data, expires_at)
				VALUES ($1, $2, CASE WHEN $3::bigint > 0 THEN now() + $3::bigint * interval '1 millisecond' END)
				ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, expires_at = EXCLUDED.expires_at`,
			touch: `UPDATE ` + table +
				` SET expires_at = CASE WHEN $2::bigint > 0 THEN now() + $2::bigint * interval '1 millisecond' END` +
				` WHERE id = $1 AND (expires_at IS NULL OR expires_at > now())`,
			destroy:       `DELETE FROM ` + table + ` WHERE id = $1`,
			deleteExpired: `DELETE FROM ` + table + ` WHERE expires_at IS NOT NULL AND expires_at <= now()`,
		},
		log: cfg.log,
	}
}

// NewStoreFromConfig creates a store using the session fields of cfg.
func NewStoreFromConfig(db DB, cfg Config, opts ...StoreOption) *Store {
	base := []StoreOption{
		WithTable(cfg.SessionTable),
		WithExpiration(cfg.SessionTTL),
	}
	return NewStore(db, append(base, opts...)...)
}

// Options exposes the store settings, including the default expiry.
func (s *Store) Options() session.ExpirationOptions {
	return s.opts
}

// Get returns nil for missing or expired sessions.
func (s *Store) Get(ctx context.Context, id string) (*session.Envelope, error) {
	var raw []byte
	err := s.db.QueryRow(ctx, s.queries.get, id).Scan(&raw)
	if IsNotFoundError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var env session.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, errors.Join(ErrInvalidSessionData, err)
	}
	return &env, nil
}

// Set inserts or replaces the session, expiring it after the current default expiry.
func (s *Store) Set(ctx context.Context, id string, env session.Envelope) error {
	if id == "" {
		return session.ErrInvalidSession
	}

	raw, err := json.Marshal(env)
	if err != nil {
		return errors.Join(session.ErrInvalidSession, err)
	}

	_, err = s.db.Exec(ctx, s.queries.upsert, id, string(raw), s.opts.Expiration().Milliseconds())
	return err
}

// Touch moves the expiry of a live session to now plus the current default expiry.
func (s *Store) Touch(ctx context.Context, id string, _ session.Envelope) error {
	_, err := s.db.Exec(ctx, s.queries.touch, id, s.opts.Expiration().Milliseconds())
	return err
}

// Destroy deletes the session. Missing rows are not an error.
func (s *Store) Destroy(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, s.queries.destroy, id)
	return err
}

// DeleteExpired removes expired rows and returns how many were deleted.
func (s *Store) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, s.queries.deleteExpired)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// StartCleanup deletes expired rows every interval until ctx is done.
// Reads already ignore expired rows; the sweep only reclaims space.
func (s *Store) StartCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := s.DeleteExpired(ctx)
				if err != nil {
					if ctx.Err() == nil {
						s.log.ErrorContext(ctx, "failed to delete expired sessions", "error", err)
					}
					continue
				}
				if n > 0 {
					s.log.DebugContext(ctx, "deleted expired sessions", "count", n)
				}
			}
		}
	}()
}
