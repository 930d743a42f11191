package session_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tokensession/pkg/session"
)

const headerName = "token-session"

func serve(h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set(headerName, token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestMiddleware_NewSession(t *testing.T) {
	store := newCountingStore(time.Hour)
	m := newTestManager(t, session.WithStore(store), session.WithIDGenerator(func() string {
		return "generated"
	}))

	var seen *session.Session
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ok bool
		seen, ok = session.FromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, "generated", w.Header().Get(headerName), "id is sent before the handler runs")
		w.WriteHeader(http.StatusOK)
	}))

	rec := serve(h, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "generated", rec.Header().Get(headerName))
	require.NotNil(t, seen)
	assert.Equal(t, "generated", seen.ID)
	assert.Empty(t, seen.Data)

	// An untouched new session is never persisted.
	assert.Equal(t, 0, store.count("set"))
	assert.Equal(t, 1, store.count("touch"))
	_, ok := store.envelope("generated")
	assert.False(t, ok)
}

func TestMiddleware_UnknownTokenGetsFreshID(t *testing.T) {
	m := newTestManager(t, session.WithStore(newPlainStore()), session.WithIDGenerator(func() string {
		return "fresh"
	}))

	var seenID string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = session.MustFromContext(r.Context()).ID
	}))

	rec := serve(h, "attacker-chosen")

	assert.Equal(t, "fresh", seenID)
	assert.Equal(t, "fresh", rec.Header().Get(headerName))
}

func TestMiddleware_ExistingSession(t *testing.T) {
	ctx := context.Background()
	store := newCountingStore(time.Hour)
	m := newTestManager(t, session.WithStore(store), session.WithAutoTouch(false))

	_, err := m.Write(ctx, "abc", session.Payload{"a": 1}, 0).Await()
	require.NoError(t, err)
	setsBefore := store.count("set")

	t.Run("unchanged session is touched", func(t *testing.T) {
		h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := session.MustFromContext(r.Context())
			assert.Equal(t, "abc", sess.ID)
			v, ok := sess.GetInt("a")
			assert.True(t, ok)
			assert.Equal(t, 1, v)
		}))

		rec := serve(h, "abc")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get(headerName), "known id is not re-sent")
		assert.Equal(t, setsBefore, store.count("set"))
		assert.Equal(t, 1, store.count("touch"))
	})

	t.Run("mutated session is written", func(t *testing.T) {
		h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session.MustFromContext(r.Context()).Set("b", 2)
		}))

		serve(h, "abc")

		assert.Equal(t, setsBefore+1, store.count("set"))
		env, ok := store.envelope("abc")
		require.True(t, ok)
		assert.Equal(t, session.Payload{"a": 1, "b": 2}, env.Data)
		assert.NotContains(t, env.Data, "id", "id is never persisted")
	})

	t.Run("cleared session is written empty", func(t *testing.T) {
		h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session.MustFromContext(r.Context()).Clear()
		}))

		serve(h, "abc")

		env, ok := store.envelope("abc")
		require.True(t, ok)
		assert.Empty(t, env.Data)
	})
}

func TestMiddleware_NewSessionMutatedIsPersisted(t *testing.T) {
	store := newPlainStore()
	m := newTestManager(t, session.WithStore(store), session.WithIDGenerator(func() string {
		return "new-id"
	}))

	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session.MustFromContext(r.Context()).Set("user", "42")
	}))

	serve(h, "")

	env, ok := store.envelope("new-id")
	require.True(t, ok)
	assert.Equal(t, session.Payload{"user": "42"}, env.Data)
}

func TestMiddleware_ReadError(t *testing.T) {
	store := newPlainStore()
	store.getErr = errors.New("backend down")
	m := newTestManager(t, session.WithStore(store))

	called := false
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := serve(h, "abc")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, called)
}

func TestMiddleware_WriteErrorDoesNotAffectResponse(t *testing.T) {
	store := newPlainStore()
	store.setErr = errors.New("read-only")
	m := newTestManager(t, session.WithStore(store))

	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session.MustFromContext(r.Context()).Set("k", "v")
		w.WriteHeader(http.StatusCreated)
	}))

	rec := serve(h, "")
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestMiddleware_CommitSurvivesCancellation(t *testing.T) {
	store := newPlainStore()
	m := newTestManager(t, session.WithStore(store), session.WithIDGenerator(func() string {
		return "id"
	}))

	ctx, cancel := context.WithCancel(context.Background())
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session.MustFromContext(r.Context()).Set("k", "v")
		cancel()
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	h.ServeHTTP(httptest.NewRecorder(), req)

	_, ok := store.envelope("id")
	assert.True(t, ok)
}

func TestMiddleware_CustomNames(t *testing.T) {
	m := newTestManager(t,
		session.WithStore(newPlainStore()),
		session.WithHeaderName("X-Session"),
		session.WithSessionFieldName("sess"),
		session.WithIDGenerator(func() string { return "xid" }),
	)

	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := session.FromContext(r.Context())
		assert.False(t, ok, "default slot stays empty")

		sess, ok := session.FromContextField(r.Context(), "sess")
		require.True(t, ok)
		assert.Equal(t, "xid", sess.ID)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "xid", rec.Header().Get("X-Session"))
}

func TestRequireSession(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, session.WithStore(newPlainStore()))

	_, err := m.Write(ctx, "known", session.Payload{"role": "admin"}, 0).Await()
	require.NoError(t, err)

	h := m.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, _ := session.MustFromContext(r.Context()).GetString("role")
		_, _ = w.Write([]byte(role))
	}))

	t.Run("missing header", func(t *testing.T) {
		rec := serve(h, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := serve(h, "nope")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("known id", func(t *testing.T) {
		rec := serve(h, "known")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "admin", rec.Body.String())
	})
}

func TestMiddleware_RegenerateSession(t *testing.T) {
	ctx := context.Background()
	store := newPlainStore()
	ids := []string{"second", "first"}
	m := newTestManager(t, session.WithStore(store), session.WithIDGenerator(func() string {
		id := ids[len(ids)-1]
		ids = ids[:len(ids)-1]
		return id
	}))

	_, err := m.Write(ctx, "old", session.Payload{"user": "42"}, 0).Await()
	require.NoError(t, err)

	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.MustFromContext(r.Context())
		require.NoError(t, m.RegenerateSession(r.Context(), w, sess))
		assert.Equal(t, "first", sess.ID)
	}))

	rec := serve(h, "old")

	assert.Equal(t, "first", rec.Header().Get(headerName))
	_, ok := store.envelope("old")
	assert.False(t, ok)
	env, ok := store.envelope("first")
	require.True(t, ok)
	assert.Equal(t, session.Payload{"user": "42"}, env.Data)
}

func TestMiddleware_DestroySession(t *testing.T) {
	ctx := context.Background()
	store := newPlainStore()
	m := newTestManager(t, session.WithStore(store))

	_, err := m.Write(ctx, "old", session.Payload{"user": "42"}, 0).Await()
	require.NoError(t, err)

	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.MustFromContext(r.Context())
		sess.Set("late", true)
		require.NoError(t, m.DestroySession(r.Context(), w, sess))
	}))

	rec := serve(h, "old")

	assert.Empty(t, rec.Header().Get(headerName))
	_, ok := store.envelope("old")
	assert.False(t, ok, "destroyed session is not written back")
}
