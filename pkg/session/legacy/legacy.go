// Package legacy keeps the pre-future method names of the session manager
// available for callers that have not migrated yet.
//
// Every method forwards to *session.Manager and logs a deprecation warning the
// first time it is used. No lifecycle logic lives here.
package legacy

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/tokensession/pkg/async"
	"github.com/dmitrymomot/tokensession/pkg/logger"
	"github.com/dmitrymomot/tokensession/pkg/session"
)

// Manager exposes the deprecated method set on top of a session.Manager.
//
// Deprecated: use *session.Manager directly.
type Manager struct {
	m     *session.Manager
	log   *slog.Logger
	warns sync.Map // method name -> *sync.Once
}

// Option configures the adapter.
type Option func(*Manager)

// WithLogger sets the logger receiving deprecation warnings.
func WithLogger(log *slog.Logger) Option {
	return func(a *Manager) {
		if log != nil {
			a.log = log
		}
	}
}

// Wrap returns the deprecated API bound to m.
func Wrap(m *session.Manager, opts ...Option) *Manager {
	a := &Manager{
		m:   m,
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.With(logger.Component("session.legacy"))
	return a
}

// Unwrap returns the underlying manager.
func (a *Manager) Unwrap() *session.Manager {
	return a.m
}

// New is the deprecated name of Create without a TTL override.
//
// Deprecated: use (*session.Manager).Create.
func (a *Manager) New(ctx context.Context, payload session.Payload, callbacks ...async.Callback[string]) *async.Future[string] {
	a.deprecated(ctx, "New", "Create")
	return a.m.Create(ctx, payload, 0, callbacks...)
}

// NewWithTTL is the deprecated name of Create with a TTL override.
//
// Deprecated: use (*session.Manager).Create.
func (a *Manager) NewWithTTL(ctx context.Context, payload session.Payload, ttl time.Duration, callbacks ...async.Callback[string]) *async.Future[string] {
	a.deprecated(ctx, "NewWithTTL", "Create")
	return a.m.Create(ctx, payload, ttl, callbacks...)
}

// Get is the deprecated name of Read.
//
// Deprecated: use (*session.Manager).Read.
func (a *Manager) Get(ctx context.Context, id string, callbacks ...async.Callback[session.Payload]) *async.Future[session.Payload] {
	a.deprecated(ctx, "Get", "Read")
	return a.m.Read(ctx, id, callbacks...)
}

// GetAndTouch is the deprecated name of Read. Touching follows the manager's AutoTouch setting.
//
// Deprecated: use (*session.Manager).Read.
func (a *Manager) GetAndTouch(ctx context.Context, id string, callbacks ...async.Callback[session.Payload]) *async.Future[session.Payload] {
	a.deprecated(ctx, "GetAndTouch", "Read")
	return a.m.Read(ctx, id, callbacks...)
}

// Set is the deprecated name of Write without a TTL override.
//
// Deprecated: use (*session.Manager).Write.
func (a *Manager) Set(ctx context.Context, id string, payload session.Payload, callbacks ...async.Callback[session.Payload]) *async.Future[session.Payload] {
	a.deprecated(ctx, "Set", "Write")
	return a.m.Write(ctx, id, payload, 0, callbacks...)
}

// SetWithTTL is the deprecated name of Write with a TTL override.
//
// Deprecated: use (*session.Manager).Write.
func (a *Manager) SetWithTTL(ctx context.Context, id string, payload session.Payload, ttl time.Duration, callbacks ...async.Callback[session.Payload]) *async.Future[session.Payload] {
	a.deprecated(ctx, "SetWithTTL", "Write")
	return a.m.Write(ctx, id, payload, ttl, callbacks...)
}

// NewSessionID is the deprecated name of GenerateID.
//
// Deprecated: use (*session.Manager).GenerateID.
func (a *Manager) NewSessionID(ctx context.Context, callbacks ...async.Callback[string]) *async.Future[string] {
	a.deprecated(ctx, "NewSessionID", "GenerateID")
	return a.m.GenerateID(ctx, callbacks...)
}

func (a *Manager) deprecated(ctx context.Context, name, replacement string) {
	once, _ := a.warns.LoadOrStore(name, new(sync.Once))
	once.(*sync.Once).Do(func() {
		a.log.WarnContext(ctx, "deprecated session method called",
			slog.String("method", name),
			slog.String("use", replacement),
		)
	})
}
