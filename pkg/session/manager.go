package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/dmitrymomot/tokensession/pkg/async"
	"github.com/dmitrymomot/tokensession/pkg/logger"
)

// Manager handles the session lifecycle on top of a Store.
//
// Every operation runs asynchronously and returns a future; optional callbacks
// observe exactly the outcome the future settles with. Store calls for one id
// are issued in the order the operations were invoked, whether or not the
// caller waits for each future. Ordering is per manager, not across processes.
type Manager struct {
	store        Store
	storeSet     bool
	ownsStore    bool
	generator    IDGenerator
	generatorSet bool
	shim         TTLShim
	transport    Transport
	transportSet bool
	config       Config
	log          *slog.Logger
	queue        *idQueue
}

// New creates a new session manager with the given options.
// A nil generator, TTL shim, store or transport yields an error wrapping
// ErrInvalidConfiguration.
func New(opts ...Option) (*Manager, error) {
	m := &Manager{
		config: DefaultConfig(),
		shim:   DefaultTTLShim,
		log:    slog.New(slog.DiscardHandler),
		queue:  newIDQueue(),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.generatorSet && m.generator == nil {
		return nil, errors.Join(ErrInvalidConfiguration, ErrInvalidGenerator)
	}
	if m.shim == nil {
		return nil, errors.Join(ErrInvalidConfiguration, ErrInvalidTTLShim)
	}
	if m.storeSet && m.store == nil {
		return nil, errors.Join(ErrInvalidConfiguration, ErrInvalidStore)
	}
	if m.transportSet && m.transport == nil {
		return nil, errors.Join(ErrInvalidConfiguration, ErrNoTransport)
	}

	if m.generator == nil {
		m.generator = m.config.Generator()
	}

	if m.store == nil {
		m.store = NewMemoryStore(
			m.config.DefaultTTL,
			m.config.SweepInterval,
			WithMemoryMaxEntries(m.config.MaxEntries),
		)
		m.ownsStore = true
	}

	if m.transport == nil {
		header := m.config.HeaderName
		if header == "" {
			header = DefaultConfig().HeaderName
		}
		m.transport = NewHeaderTransport(header)
	}

	m.log = m.log.With(logger.Component("session"))

	return m, nil
}

// Store returns the backing store
func (m *Manager) Store() Store {
	return m.store
}

// Config returns the effective configuration
func (m *Manager) Config() Config {
	return m.config
}

// ReadTTL reports the store's current default TTL as seen by the configured shim
func (m *Manager) ReadTTL() (time.Duration, bool) {
	return m.shim.ReadTTL(m.store)
}

// Create stores payload under a freshly generated id and resolves to that id.
// A positive ttl overrides the store's default TTL for this write only.
// Create is not retry-safe: every call mints a new id.
func (m *Manager) Create(ctx context.Context, payload Payload, ttl time.Duration, callbacks ...async.Callback[string]) *async.Future[string] {
	return async.Run(ctx, func(ctx context.Context) (string, error) {
		id, err := m.newID()
		if err != nil {
			return "", err
		}

		if err := m.write(ctx, id, payload, ttl); err != nil {
			return "", err
		}

		return id, nil
	}, callbacks...)
}

// Read resolves to the payload stored under id, or nil if there is none.
// With AutoTouch enabled a found session is touched before the future settles;
// touch failures are logged and otherwise ignored.
func (m *Manager) Read(ctx context.Context, id string, callbacks ...async.Callback[Payload]) *async.Future[Payload] {
	return inOrder(ctx, m, id, func(ctx context.Context) (Payload, error) {
		return m.read(ctx, id)
	}, callbacks)
}

// Write stores payload under id and resolves to the stored payload.
// A positive ttl overrides the store's default TTL for this write only.
func (m *Manager) Write(ctx context.Context, id string, payload Payload, ttl time.Duration, callbacks ...async.Callback[Payload]) *async.Future[Payload] {
	return inOrder(ctx, m, id, func(ctx context.Context) (Payload, error) {
		if err := m.write(ctx, id, payload, ttl); err != nil {
			return nil, err
		}
		return payload, nil
	}, callbacks)
}

// Destroy removes the session. Destroying an absent session succeeds.
func (m *Manager) Destroy(ctx context.Context, id string, callbacks ...async.Callback[struct{}]) *async.Future[struct{}] {
	return inOrder(ctx, m, id, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, m.destroy(ctx, id)
	}, callbacks)
}

// Regenerate destroys id and stores payload under a new id, resolving to the new id.
//
// If destroy fails nothing else happens. If destroy succeeds and the write fails
// the write error is returned and the old id is gone regardless.
func (m *Manager) Regenerate(ctx context.Context, id string, payload Payload, callbacks ...async.Callback[string]) *async.Future[string] {
	return inOrder(ctx, m, id, func(ctx context.Context) (string, error) {
		if err := m.destroy(ctx, id); err != nil {
			return "", err
		}

		newID, err := m.newID()
		if err != nil {
			return "", err
		}

		if err := m.write(ctx, newID, payload, 0); err != nil {
			return "", err
		}

		return newID, nil
	}, callbacks)
}

// Touch refreshes the session expiry. Stores without touch support resolve successfully untouched.
func (m *Manager) Touch(ctx context.Context, id string, payload Payload, callbacks ...async.Callback[struct{}]) *async.Future[struct{}] {
	return inOrder(ctx, m, id, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, m.touch(ctx, id, NewEnvelope(payload))
	}, callbacks)
}

// GenerateID resolves to a new session id. It always settles on another
// goroutine, whatever the generator does.
func (m *Manager) GenerateID(ctx context.Context, callbacks ...async.Callback[string]) *async.Future[string] {
	return async.Run(ctx, func(context.Context) (string, error) {
		return m.newID()
	}, callbacks...)
}

// Close releases the default store. Stores supplied through WithStore are left to their owner.
func (m *Manager) Close() error {
	if !m.ownsStore {
		return nil
	}
	if c, ok := m.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (m *Manager) newID() (string, error) {
	id := m.generator()
	if id == "" {
		return "", ErrTokenGeneration
	}
	return id, nil
}

func (m *Manager) read(ctx context.Context, id string) (Payload, error) {
	env, err := m.store.Get(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if env == nil {
		return nil, nil
	}

	if m.config.AutoTouch {
		if err := m.touch(ctx, id, *env); err != nil {
			m.log.WarnContext(ctx, "session auto-touch failed", logger.SessionID(id), logger.Error(err))
		}
	}

	if env.Data == nil {
		return Payload{}, nil
	}
	return env.Data, nil
}

func (m *Manager) write(ctx context.Context, id string, payload Payload, ttl time.Duration) error {
	if id == "" {
		return ErrInvalidSession
	}

	env := NewEnvelope(payload)
	if ttl > 0 {
		env.Metadata.MaxAge = maxAgeSeconds(ttl)
	}

	return withTTLOverride(m.shim, m.store, ttl, func() error {
		return m.store.Set(ctx, id, env)
	})
}

// maxAgeSeconds rounds a positive override up to whole seconds, so a sub-second
// override never reads as "no override".
func maxAgeSeconds(ttl time.Duration) int {
	return int((ttl + time.Second - 1) / time.Second)
}

func (m *Manager) destroy(ctx context.Context, id string) error {
	if err := m.store.Destroy(ctx, id); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return err
	}
	return nil
}

func (m *Manager) touch(ctx context.Context, id string, env Envelope) error {
	toucher, ok := m.store.(Toucher)
	if !ok {
		return nil
	}

	return withTTLOverride(m.shim, m.store, 0, func() error {
		return toucher.Touch(ctx, id, env)
	})
}
