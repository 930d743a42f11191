package session

import (
	"net/http"
	"time"
)

// Transport moves the session id between client and server.
// GetToken reports a missing id as ErrSessionNotFound or an empty string.
// SetToken receives a zero ttl when the expiry is not known.
type Transport interface {
	GetToken(r *http.Request) (string, error)
	SetToken(w http.ResponseWriter, token string, ttl time.Duration) error
	ClearToken(w http.ResponseWriter) error
}
