package session

import (
	"context"
	"time"

	"github.com/dmitrymomot/tokensession/pkg/cache"
)

// MemoryStore implements Store, Toucher and NestedTTL on top of an in-process
// TTL cache swept at a fixed interval.
type MemoryStore struct {
	entries *cache.Cache[string, Envelope]
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*cache.Options)

// WithMemoryMaxEntries bounds the store; the least recently used session is evicted first.
func WithMemoryMaxEntries(n int) MemoryStoreOption {
	return func(o *cache.Options) {
		o.MaxEntries = n
	}
}

// WithMemoryClock overrides the clock used for expiry.
func WithMemoryClock(now func() time.Time) MemoryStoreOption {
	return func(o *cache.Options) {
		o.Now = now
	}
}

// NewMemoryStore creates a new in-memory session store. Sessions live for ttl
// unless touched; expired sessions are swept every sweepInterval (0 disables sweeping).
func NewMemoryStore(ttl, sweepInterval time.Duration, opts ...MemoryStoreOption) *MemoryStore {
	cacheOpts := cache.Options{
		StdTTL:      ttl,
		CheckPeriod: sweepInterval,
	}
	for _, opt := range opts {
		opt(&cacheOpts)
	}

	return &MemoryStore{
		entries: cache.New[string, Envelope](cacheOpts),
	}
}

// Get retrieves a session by id
func (m *MemoryStore) Get(_ context.Context, id string) (*Envelope, error) {
	env, ok := m.entries.Get(id)
	if !ok {
		return nil, nil
	}

	out := env.Clone()
	return &out, nil
}

// Set stores a session under the current default TTL
func (m *MemoryStore) Set(_ context.Context, id string, env Envelope) error {
	if id == "" {
		return ErrInvalidSession
	}

	m.entries.Set(id, env.Clone())
	return nil
}

// Destroy removes a session by id
func (m *MemoryStore) Destroy(_ context.Context, id string) error {
	m.entries.Delete(id)
	return nil
}

// Touch extends the session expiry by the current default TTL.
// Touching an absent session is a no-op.
func (m *MemoryStore) Touch(_ context.Context, id string, _ Envelope) error {
	m.entries.Touch(id)
	return nil
}

// Reset removes every stored session.
func (m *MemoryStore) Reset(_ context.Context) error {
	m.entries.Clear()
	return nil
}

// Inner exposes the cache so TTL shims can reach its default TTL
func (m *MemoryStore) Inner() InnerTTL {
	return m.entries
}

// Len returns the number of stored sessions, including expired ones not yet swept
func (m *MemoryStore) Len() int {
	return m.entries.Len()
}

// Close stops the sweep goroutine
func (m *MemoryStore) Close() error {
	return m.entries.Close()
}
