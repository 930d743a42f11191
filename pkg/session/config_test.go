package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tokensession/pkg/config"
	"github.com/dmitrymomot/tokensession/pkg/session"
)

func TestDefaultConfig(t *testing.T) {
	cfg := session.DefaultConfig()

	assert.Equal(t, "token-session", cfg.HeaderName)
	assert.Equal(t, "session", cfg.SessionFieldName)
	assert.True(t, cfg.AutoTouch)
	assert.Equal(t, 1800*time.Second, cfg.DefaultTTL)
	assert.Equal(t, 60*time.Second, cfg.SweepInterval)
	assert.Equal(t, 0, cfg.MaxEntries)
	assert.Equal(t, session.IDFormatRandom, cfg.IDFormat)
}

func TestConfig_FromEnv(t *testing.T) {
	t.Setenv("SESSION_HEADER_NAME", "X-Token")
	t.Setenv("SESSION_AUTO_TOUCH", "false")
	t.Setenv("SESSION_DEFAULT_TTL", "10m")
	t.Setenv("SESSION_ID_FORMAT", "uuid")

	config.Reset()
	var cfg session.Config
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "X-Token", cfg.HeaderName)
	assert.Equal(t, "session", cfg.SessionFieldName)
	assert.False(t, cfg.AutoTouch)
	assert.Equal(t, 10*time.Minute, cfg.DefaultTTL)
	assert.Equal(t, 60*time.Second, cfg.SweepInterval)
	assert.Equal(t, session.IDFormatUUID, cfg.IDFormat)
}

func TestNewFromConfig(t *testing.T) {
	cfg := session.DefaultConfig()
	cfg.DefaultTTL = 5 * time.Minute

	m, err := session.NewFromConfig(cfg)
	require.NoError(t, err)
	defer m.Close()

	ttl, ok := m.ReadTTL()
	require.True(t, ok)
	assert.Equal(t, 5*time.Minute, ttl)
	assert.Equal(t, cfg, m.Config())

	t.Run("options take precedence", func(t *testing.T) {
		m, err := session.NewFromConfig(cfg, session.WithAutoTouch(false))
		require.NoError(t, err)
		defer m.Close()

		assert.False(t, m.Config().AutoTouch)
	})
}
