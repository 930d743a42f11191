package session

import (
	"log/slog"
)

// Option is a functional option for configuring the Manager
type Option func(*Manager)

// WithStore sets a custom session store
func WithStore(store Store) Option {
	return func(m *Manager) {
		m.store = store
		m.storeSet = true
	}
}

// WithIDGenerator sets a custom session id generator
func WithIDGenerator(gen IDGenerator) Option {
	return func(m *Manager) {
		m.generator = gen
		m.generatorSet = true
	}
}

// WithTTLShim sets a custom TTL shim for stores with non-standard TTL layouts
func WithTTLShim(shim TTLShim) Option {
	return func(m *Manager) {
		m.shim = shim
	}
}

// WithTransport sets a custom session transport used by the middleware
func WithTransport(transport Transport) Option {
	return func(m *Manager) {
		m.transport = transport
		m.transportSet = true
	}
}

// WithConfig sets custom configuration
func WithConfig(config Config) Option {
	return func(m *Manager) {
		m.config = config
	}
}

// WithAutoTouch toggles TTL refresh on successful reads
func WithAutoTouch(enabled bool) Option {
	return func(m *Manager) {
		m.config.AutoTouch = enabled
	}
}

// WithHeaderName sets the header carrying the session id
func WithHeaderName(name string) Option {
	return func(m *Manager) {
		m.config.HeaderName = name
	}
}

// WithSessionFieldName sets the request-scoped slot name of the session object
func WithSessionFieldName(name string) Option {
	return func(m *Manager) {
		m.config.SessionFieldName = name
	}
}

// WithLogger sets the logger used for best-effort failures
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}
