package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tokensession/pkg/session"
)

func TestHeaderTransport(t *testing.T) {
	t.Parallel()

	t.Run("raw token round trip", func(t *testing.T) {
		tr := session.NewHeaderTransport("token-session")
		assert.Equal(t, "token-session", tr.HeaderName())

		rec := httptest.NewRecorder()
		require.NoError(t, tr.SetToken(rec, "abc", 0))
		assert.Equal(t, "abc", rec.Header().Get("token-session"))
		assert.Empty(t, rec.Header().Get("token-session-Expires"))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("token-session", "  abc ")
		token, err := tr.GetToken(req)
		require.NoError(t, err)
		assert.Equal(t, "abc", token)
	})

	t.Run("missing header", func(t *testing.T) {
		tr := session.NewHeaderTransport("token-session")

		_, err := tr.GetToken(httptest.NewRequest(http.MethodGet, "/", nil))
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("prefix", func(t *testing.T) {
		tr := session.NewHeaderTransport("Authorization", session.WithHeaderPrefix("Bearer "))

		rec := httptest.NewRecorder()
		require.NoError(t, tr.SetToken(rec, "abc", time.Hour))
		assert.Equal(t, "Bearer abc", rec.Header().Get("Authorization"))
		assert.NotEmpty(t, rec.Header().Get("Authorization-Expires"))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer abc")
		token, err := tr.GetToken(req)
		require.NoError(t, err)
		assert.Equal(t, "abc", token)

		req.Header.Set("Authorization", "Bearer ")
		_, err = tr.GetToken(req)
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("clear", func(t *testing.T) {
		tr := session.NewHeaderTransport("token-session")

		rec := httptest.NewRecorder()
		require.NoError(t, tr.SetToken(rec, "abc", time.Hour))
		require.NoError(t, tr.ClearToken(rec))
		assert.Empty(t, rec.Header().Get("token-session"))
		assert.Empty(t, rec.Header().Get("token-session-Expires"))
	})
}
