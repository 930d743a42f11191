package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/tokensession/pkg/session"
)

// DefaultSessionPrefix namespaces session keys when no prefix is configured.
const DefaultSessionPrefix = "sess:"

// Store persists sessions as JSON strings in Redis. Keys expire after the
// store's default TTL, which the session manager may override per write
// through TTL and SetTTL.
type Store struct {
	db            redis.UniversalClient
	prefix        string
	scanBatchSize int64
	ttl           atomic.Int64
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) StoreOption {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithTTL sets the default expiry. Zero stores sessions without expiry.
func WithTTL(ttl time.Duration) StoreOption {
	return func(s *Store) {
		s.ttl.Store(int64(ttl))
	}
}

// WithScanBatchSize sets the COUNT hint used by Len and Reset.
func WithScanBatchSize(n int) StoreOption {
	return func(s *Store) {
		if n > 0 {
			s.scanBatchSize = int64(n)
		}
	}
}

// NewStore creates a Redis backed session store.
// Defaults: "sess:" prefix, 30 minute TTL, scan batch of 1000.
func NewStore(client redis.UniversalClient, opts ...StoreOption) *Store {
	s := &Store{
		db:            client,
		prefix:        DefaultSessionPrefix,
		scanBatchSize: 1000,
	}
	s.ttl.Store(int64(30 * time.Minute))

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// NewStoreFromConfig creates a store using the session fields of cfg.
func NewStoreFromConfig(client redis.UniversalClient, cfg Config) *Store {
	return NewStore(client,
		WithPrefix(cfg.SessionPrefix),
		WithTTL(cfg.SessionTTL),
		WithScanBatchSize(cfg.ScanBatchSize),
	)
}

// TTL returns the default expiry applied by Set and Touch.
func (s *Store) TTL() time.Duration {
	return time.Duration(s.ttl.Load())
}

// SetTTL changes the default expiry for subsequent writes.
func (s *Store) SetTTL(ttl time.Duration) {
	s.ttl.Store(int64(ttl))
}

// Get returns nil for missing keys (redis.Nil becomes nil, nil).
func (s *Store) Get(ctx context.Context, id string) (*session.Envelope, error) {
	if id == "" {
		return nil, nil
	}

	val, err := s.db.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var env session.Envelope
	if err := json.Unmarshal(val, &env); err != nil {
		return nil, errors.Join(ErrInvalidSessionData, err)
	}
	return &env, nil
}

// Set stores env under id with the current default TTL.
func (s *Store) Set(ctx context.Context, id string, env session.Envelope) error {
	if id == "" {
		return session.ErrInvalidSession
	}

	val, err := json.Marshal(env)
	if err != nil {
		return errors.Join(session.ErrInvalidSession, err)
	}

	return s.db.Set(ctx, s.key(id), val, s.TTL()).Err()
}

// Destroy removes a key. Missing keys are not an error.
func (s *Store) Destroy(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.db.Del(ctx, s.key(id)).Err()
}

// Touch resets the key expiry to the current default TTL without rewriting the value.
// With a zero TTL the key is made persistent.
func (s *Store) Touch(ctx context.Context, id string, _ session.Envelope) error {
	if id == "" {
		return nil
	}

	ttl := s.TTL()
	if ttl <= 0 {
		return s.db.Persist(ctx, s.key(id)).Err()
	}
	return s.db.Expire(ctx, s.key(id), ttl).Err()
}

// Len counts stored sessions using SCAN to avoid blocking Redis.
func (s *Store) Len(ctx context.Context) (int, error) {
	n := 0
	err := s.scan(ctx, func(keys []string) error {
		n += len(keys)
		return nil
	})
	return n, err
}

// Reset removes every session under the store prefix. Other keys are left alone.
func (s *Store) Reset(ctx context.Context) error {
	return s.scan(ctx, func(keys []string) error {
		if len(keys) == 0 {
			return nil
		}
		return s.db.Del(ctx, keys...).Err()
	})
}

// Conn returns the underlying Redis client for advanced operations.
func (s *Store) Conn() redis.UniversalClient {
	return s.db
}

func (s *Store) key(id string) string {
	return s.prefix + id
}

func (s *Store) scan(ctx context.Context, fn func(keys []string) error) error {
	var cursor uint64
	for {
		batch, next, err := s.db.Scan(ctx, cursor, s.prefix+"*", s.scanBatchSize).Result()
		if err != nil {
			return err
		}
		if err := fn(batch); err != nil {
			return err
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
