package session

import "time"

// ID formats accepted by Config.IDFormat.
const (
	IDFormatRandom = "random"
	IDFormatUUID   = "uuid"
)

// Config holds session configuration
type Config struct {
	// HeaderName carries the session id on requests and responses (default: "token-session")
	HeaderName string `env:"SESSION_HEADER_NAME" envDefault:"token-session"`

	// SessionFieldName names the request-scoped slot the middleware attaches the session to
	SessionFieldName string `env:"SESSION_FIELD_NAME" envDefault:"session"`

	// AutoTouch refreshes the TTL of every session found by Read
	AutoTouch bool `env:"SESSION_AUTO_TOUCH" envDefault:"true"`

	// DefaultTTL and SweepInterval configure the default in-memory store
	DefaultTTL    time.Duration `env:"SESSION_DEFAULT_TTL" envDefault:"30m"`
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"60s"`

	// MaxEntries bounds the default in-memory store (0 for unbounded)
	MaxEntries int `env:"SESSION_MAX_ENTRIES" envDefault:"0"`

	// IDFormat selects the built-in id generator: "random" or "uuid"
	IDFormat string `env:"SESSION_ID_FORMAT" envDefault:"random"`
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		HeaderName:       "token-session",
		SessionFieldName: "session",
		AutoTouch:        true,
		DefaultTTL:       1800 * time.Second,
		SweepInterval:    60 * time.Second,
		IDFormat:         IDFormatRandom,
	}
}

// Generator returns the built-in generator selected by IDFormat.
func (c Config) Generator() IDGenerator {
	if c.IDFormat == IDFormatUUID {
		return UUIDGenerator
	}
	return GenerateID
}

// NewFromConfig creates a new Manager from the provided Config.
// Options are applied after the config and take precedence.
func NewFromConfig(cfg Config, opts ...Option) (*Manager, error) {
	configOpts := []Option{
		WithConfig(cfg),
	}

	configOpts = append(configOpts, opts...)

	return New(configOpts...)
}
