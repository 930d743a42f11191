package session

import "context"

// fieldKey scopes a session in a context under a configurable name.
type fieldKey string

// DefaultFieldName is the slot used when Config.SessionFieldName is empty.
const DefaultFieldName = "session"

// WithSession adds a session to the context under the default field name
func WithSession(ctx context.Context, session *Session) context.Context {
	return WithSessionField(ctx, DefaultFieldName, session)
}

// WithSessionField adds a session to the context under field
func WithSessionField(ctx context.Context, field string, session *Session) context.Context {
	return context.WithValue(ctx, fieldKey(field), session)
}

// FromContext retrieves the session stored under the default field name
func FromContext(ctx context.Context) (*Session, bool) {
	return FromContextField(ctx, DefaultFieldName)
}

// FromContextField retrieves the session stored under field
func FromContextField(ctx context.Context, field string) (*Session, bool) {
	session, ok := ctx.Value(fieldKey(field)).(*Session)
	return session, ok
}

// MustFromContext retrieves a session from the context or panics
func MustFromContext(ctx context.Context) *Session {
	session, ok := FromContext(ctx)
	if !ok {
		panic("session: not found in context")
	}
	return session
}
