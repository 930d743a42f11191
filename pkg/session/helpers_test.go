package session_test

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrymomot/tokensession/pkg/session"
)

// plainStore implements only the mandatory Store methods.
type plainStore struct {
	mu      sync.Mutex
	entries map[string]session.Envelope

	getErr     error
	setErr     error
	destroyErr error
}

func newPlainStore() *plainStore {
	return &plainStore{entries: make(map[string]session.Envelope)}
}

func (s *plainStore) Get(_ context.Context, id string) (*session.Envelope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.getErr != nil {
		return nil, s.getErr
	}
	env, ok := s.entries[id]
	if !ok {
		return nil, nil
	}
	out := env.Clone()
	return &out, nil
}

func (s *plainStore) Set(_ context.Context, id string, env session.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.setErr != nil {
		return s.setErr
	}
	s.entries[id] = env.Clone()
	return nil
}

func (s *plainStore) Destroy(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyErr != nil {
		return s.destroyErr
	}
	delete(s.entries, id)
	return nil
}

func (s *plainStore) envelope(id string) (session.Envelope, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	env, ok := s.entries[id]
	return env, ok
}

// countingStore adds Touch and a direct TTL, and records every call.
type countingStore struct {
	*plainStore

	mu       sync.Mutex
	ttl      time.Duration
	touchErr error
	setDelay time.Duration
	calls    map[string]int
	setTTLs  []time.Duration
}

func newCountingStore(ttl time.Duration) *countingStore {
	return &countingStore{
		plainStore: newPlainStore(),
		ttl:        ttl,
		calls:      make(map[string]int),
	}
}

func (s *countingStore) record(op string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[op]++
}

func (s *countingStore) count(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *countingStore) Get(ctx context.Context, id string) (*session.Envelope, error) {
	s.record("get")
	return s.plainStore.Get(ctx, id)
}

func (s *countingStore) Set(ctx context.Context, id string, env session.Envelope) error {
	s.record("set")
	if s.setDelay > 0 {
		time.Sleep(s.setDelay)
	}
	s.mu.Lock()
	s.setTTLs = append(s.setTTLs, s.ttl)
	s.mu.Unlock()
	return s.plainStore.Set(ctx, id, env)
}

func (s *countingStore) Destroy(ctx context.Context, id string) error {
	s.record("destroy")
	return s.plainStore.Destroy(ctx, id)
}

func (s *countingStore) Touch(_ context.Context, _ string, _ session.Envelope) error {
	s.record("touch")
	return s.touchErr
}

func (s *countingStore) TTL() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ttl
}

func (s *countingStore) SetTTL(ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ttl = ttl
}

func (s *countingStore) observedTTLs() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.setTTLs...)
}

func newTestManager(t interface{ Fatalf(string, ...any) }, opts ...session.Option) *session.Manager {
	m, err := session.New(opts...)
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	return m
}
