package session

import (
	"encoding/json"

	"github.com/cespare/xxhash/v2"
)

// Session is the request-scoped session object attached by the middleware.
// ID is never part of the persisted payload.
type Session struct {
	ID   string  `json:"id"`
	Data Payload `json:"data"`

	destroyed bool
}

// NewSession creates a session with the given id and a copy-free reference to data.
func NewSession(id string, data Payload) *Session {
	if data == nil {
		data = make(Payload)
	}
	return &Session{ID: id, Data: data}
}

// Get retrieves a value from session data
func (s *Session) Get(key string) (any, bool) {
	if s == nil || s.Data == nil {
		return nil, false
	}
	val, ok := s.Data[key]
	return val, ok
}

// GetString retrieves a string value from session data
func (s *Session) GetString(key string) (string, bool) {
	val, ok := s.Get(key)
	if !ok {
		return "", false
	}
	str, ok := val.(string)
	return str, ok
}

// GetInt retrieves an int value from session data.
// Numbers decoded from JSON backends arrive as float64 and are converted.
func (s *Session) GetInt(key string) (int, bool) {
	val, ok := s.Get(key)
	if !ok {
		return 0, false
	}
	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// GetBool retrieves a bool value from session data
func (s *Session) GetBool(key string) (bool, bool) {
	val, ok := s.Get(key)
	if !ok {
		return false, false
	}
	b, ok := val.(bool)
	return b, ok
}

// Set stores a value in session data
func (s *Session) Set(key string, value any) {
	if s == nil {
		return
	}
	if s.Data == nil {
		s.Data = make(Payload)
	}
	s.Data[key] = value
}

// Delete removes a value from session data
func (s *Session) Delete(key string) {
	if s == nil || s.Data == nil {
		return
	}
	delete(s.Data, key)
}

// Clear removes all data from the session
func (s *Session) Clear() {
	if s == nil {
		return
	}
	s.Data = make(Payload)
}

// Checksum returns a fast non-cryptographic hash of the serialized session.
// encoding/json sorts map keys, so equal content yields equal checksums.
// Values that cannot be serialized hash to 0, which forces a write.
func (s *Session) Checksum() uint64 {
	b, err := json.Marshal(s)
	if err != nil {
		return 0
	}
	return xxhash.Sum64(b)
}
