package session

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/tokensession/pkg/logger"
)

// Middleware loads the session named by the transport, attaches it to the
// request context and commits it once the handler returns.
//
// When the request carries no id, or the id is unknown, a new empty session is
// created and its freshly generated id is sent back before the handler runs.
// On completion the session is written only if its checksum changed; otherwise
// it is touched. Commit failures are logged since the response is already underway.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	field := m.fieldName()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		sess, err := m.load(ctx, r)
		if err != nil {
			m.log.ErrorContext(ctx, "failed to load session", logger.Error(err))
			http.Error(w, "Session error", http.StatusInternalServerError)
			return
		}

		if sess == nil {
			id, err := m.newID()
			if err != nil {
				m.log.ErrorContext(ctx, "failed to generate session id", logger.Error(err))
				http.Error(w, "Session error", http.StatusInternalServerError)
				return
			}
			if err := m.transport.SetToken(w, id, 0); err != nil {
				m.log.ErrorContext(ctx, "failed to send session id", logger.Error(err))
				http.Error(w, "Session error", http.StatusInternalServerError)
				return
			}
			sess = NewSession(id, nil)
		}

		before := sess.Checksum()

		next.ServeHTTP(w, r.WithContext(WithSessionField(ctx, field, sess)))

		// The commit must survive a client that disconnects once the handler is done.
		m.commit(context.WithoutCancel(ctx), sess, before)
	})
}

// RequireSession responds 401 unless the request carries the id of a stored
// session. Found sessions are attached to the context like Middleware does,
// but nothing is committed afterwards.
func (m *Manager) RequireSession(next http.Handler) http.Handler {
	field := m.fieldName()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.load(r.Context(), r)
		if err != nil || sess == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSessionField(r.Context(), field, sess)))
	})
}

// load returns nil without error when the request names no stored session.
func (m *Manager) load(ctx context.Context, r *http.Request) (*Session, error) {
	token, err := m.transport.GetToken(r)
	if err != nil || token == "" {
		return nil, nil
	}

	payload, err := m.Read(ctx, token).Await()
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, nil
	}

	return NewSession(token, payload), nil
}

// RegenerateSession moves a middleware-managed session to a new id and sends
// the new id to the client. The middleware commits under the new id.
func (m *Manager) RegenerateSession(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	newID, err := m.Regenerate(ctx, sess.ID, sess.Data).Await()
	if err != nil {
		return err
	}

	sess.ID = newID
	return m.transport.SetToken(w, newID, 0)
}

// DestroySession removes a middleware-managed session and clears the id on
// the client. The middleware commits nothing for it afterwards.
func (m *Manager) DestroySession(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	if _, err := m.Destroy(ctx, sess.ID).Await(); err != nil {
		return err
	}

	sess.destroyed = true
	sess.Data = make(Payload)
	return m.transport.ClearToken(w)
}

func (m *Manager) commit(ctx context.Context, sess *Session, before uint64) {
	if sess.destroyed {
		return
	}

	id := sess.ID
	after := sess.Checksum()

	if after != before || after == 0 {
		if _, err := m.Write(ctx, id, sess.Data, 0).Await(); err != nil {
			m.log.ErrorContext(ctx, "failed to save session", logger.SessionID(id), logger.Error(err))
		}
		return
	}

	if _, err := m.Touch(ctx, id, sess.Data).Await(); err != nil {
		m.log.WarnContext(ctx, "failed to touch session", logger.SessionID(id), logger.Error(err))
	}
}

func (m *Manager) fieldName() string {
	if m.config.SessionFieldName == "" {
		return DefaultFieldName
	}
	return m.config.SessionFieldName
}
