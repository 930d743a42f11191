package session

import "time"

// DirectTTL is implemented by stores exposing their default TTL directly
// (Redis and Mongo style backends).
type DirectTTL interface {
	TTL() time.Duration
	SetTTL(ttl time.Duration)
}

// ExpirationOptions is the options object of an OptionsTTL store.
type ExpirationOptions interface {
	Expiration() time.Duration
	SetExpiration(ttl time.Duration)
}

// OptionsTTL is implemented by stores keeping their default TTL in a nested
// options object (SQL style backends).
type OptionsTTL interface {
	Options() ExpirationOptions
}

// InnerTTL is the engine of a NestedTTL store.
type InnerTTL interface {
	StdTTL() time.Duration
	SetStdTTL(ttl time.Duration)
}

// NestedTTL is implemented by stores wrapping an in-process TTL engine whose
// default TTL lives one level further down.
type NestedTTL interface {
	Inner() InnerTTL
}

// TTLShim reads and writes the default TTL of a store, whatever shape the store
// exposes it in. ok is false when the store exposes no TTL the shim knows of,
// in which case overrides become no-ops for that store.
type TTLShim interface {
	ReadTTL(store Store) (ttl time.Duration, ok bool)
	// WriteTTL sets the default TTL and returns the value it replaced.
	WriteTTL(store Store, ttl time.Duration) (prev time.Duration, ok bool)
}

// TTLShimFunc adapts a single function to TTLShim. With write == false it
// reports the current TTL; with write == true it stores ttl (zero included) and
// returns the value it replaced.
type TTLShimFunc func(store Store, ttl time.Duration, write bool) (time.Duration, bool)

// ReadTTL calls f(store, 0, false).
func (f TTLShimFunc) ReadTTL(store Store) (time.Duration, bool) {
	return f(store, 0, false)
}

// WriteTTL calls f(store, ttl, true).
func (f TTLShimFunc) WriteTTL(store Store, ttl time.Duration) (time.Duration, bool) {
	return f(store, ttl, true)
}

// DefaultTTLShim probes the three known store shapes in order: DirectTTL,
// OptionsTTL, NestedTTL.
var DefaultTTLShim TTLShim = TTLShimFunc(probeTTL)

func probeTTL(store Store, ttl time.Duration, write bool) (time.Duration, bool) {
	var get func() time.Duration
	var set func(time.Duration)

	switch s := store.(type) {
	case DirectTTL:
		get, set = s.TTL, s.SetTTL
	case OptionsTTL:
		opts := s.Options()
		if opts == nil {
			return 0, false
		}
		get, set = opts.Expiration, opts.SetExpiration
	case NestedTTL:
		inner := s.Inner()
		if inner == nil {
			return 0, false
		}
		get, set = inner.StdTTL, inner.SetStdTTL
	default:
		return 0, false
	}

	current := get()
	if write {
		set(ttl)
	}
	return current, true
}
