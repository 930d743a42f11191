package session

import (
	"net/http"
	"strings"
	"time"
)

// HeaderTransport carries the session id in a request and response header,
// "token-session" unless configured otherwise. When the manager knows the TTL
// the expiry time goes out in "<header>-Expires" as RFC 3339.
type HeaderTransport struct {
	name   string
	prefix string
}

// HeaderOption configures a HeaderTransport.
type HeaderOption func(*HeaderTransport)

// WithHeaderPrefix makes the transport send "<prefix><id>" and accept values
// with or without the prefix, e.g. "Bearer ".
func WithHeaderPrefix(prefix string) HeaderOption {
	return func(t *HeaderTransport) { t.prefix = prefix }
}

func NewHeaderTransport(name string, opts ...HeaderOption) *HeaderTransport {
	t := &HeaderTransport{name: name}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *HeaderTransport) HeaderName() string { return t.name }

func (t *HeaderTransport) expiresHeader() string { return t.name + "-Expires" }

// GetToken returns ErrSessionNotFound when the header is missing or holds
// nothing but the prefix.
func (t *HeaderTransport) GetToken(r *http.Request) (string, error) {
	value := strings.TrimSpace(r.Header.Get(t.name))
	if p := strings.TrimSpace(t.prefix); p != "" {
		value = strings.TrimSpace(strings.TrimPrefix(value, p))
	}
	if value == "" {
		return "", ErrSessionNotFound
	}
	return value, nil
}

func (t *HeaderTransport) SetToken(w http.ResponseWriter, token string, ttl time.Duration) error {
	h := w.Header()
	h.Set(t.name, t.prefix+token)
	if ttl > 0 {
		h.Set(t.expiresHeader(), time.Now().Add(ttl).UTC().Format(time.RFC3339))
	} else {
		h.Del(t.expiresHeader())
	}
	return nil
}

// ClearToken answers with an empty header so clients drop the stored id.
func (t *HeaderTransport) ClearToken(w http.ResponseWriter) error {
	h := w.Header()
	h.Set(t.name, "")
	h.Del(t.expiresHeader())
	return nil
}
