package session

import "errors"

var (
	// ErrInvalidConfiguration wraps every construction-time misconfiguration
	ErrInvalidConfiguration = errors.New("session.invalid_configuration")

	// ErrInvalidGenerator indicates a nil id generator was supplied
	ErrInvalidGenerator = errors.New("session.invalid_generator")

	// ErrInvalidTTLShim indicates a nil TTL shim was supplied
	ErrInvalidTTLShim = errors.New("session.invalid_ttl_shim")

	// ErrInvalidStore indicates a nil store was supplied
	ErrInvalidStore = errors.New("session.invalid_store")

	// ErrInvalidSession indicates a malformed session id or envelope
	ErrInvalidSession = errors.New("session.invalid")

	// ErrSessionNotFound may be returned by stores for absent ids; the manager reports it as absence
	ErrSessionNotFound = errors.New("session.not_found")

	// ErrTokenGeneration indicates the id generator produced an empty id
	ErrTokenGeneration = errors.New("session.token_generation_failed")

	// ErrNoTransport indicates a nil transport was supplied
	ErrNoTransport = errors.New("session.no_transport")
)
