package session

import (
	"context"
	"reflect"
)

// Payload is the caller-owned session data.
type Payload map[string]any

// Metadata is carried next to every stored payload for compatibility with
// backends built for cookie-based session middlewares. MaxAge is inert unless a
// per-call TTL override is active, in which case it holds the override in seconds.
type Metadata struct {
	MaxAge int `json:"maxAge"`
}

// Envelope is the value persisted by a Store.
type Envelope struct {
	Metadata Metadata `json:"metadata"`
	Data     Payload  `json:"data"`
}

// NewEnvelope wraps payload with zeroed metadata.
func NewEnvelope(payload Payload) Envelope {
	return Envelope{Data: payload}
}

// Clone returns a deep copy of e. Nested maps and slices are copied at every
// level; pointers, structs and channels inside the payload are still shared.
func (e Envelope) Clone() Envelope {
	return Envelope{Metadata: e.Metadata, Data: clonePayload(e.Data)}
}

func clonePayload(p Payload) Payload {
	if p == nil {
		return nil
	}
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case Payload:
		return clonePayload(x)
	case map[string]any:
		return map[string]any(clonePayload(x))
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = cloneValue(item)
		}
		return out
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		for iter := rv.MapRange(); iter.Next(); {
			out.SetMapIndex(iter.Key(), cloneReflect(iter.Value()))
		}
		return out.Interface()
	case reflect.Slice:
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := range rv.Len() {
			out.Index(i).Set(cloneReflect(rv.Index(i)))
		}
		return out.Interface()
	default:
		return v
	}
}

func cloneReflect(v reflect.Value) reflect.Value {
	c := cloneValue(v.Interface())
	if c == nil {
		return reflect.Zero(v.Type())
	}
	return reflect.ValueOf(c)
}

// Store defines the capability every session backend must provide.
type Store interface {
	// Get returns the envelope stored under id, or nil and no error when absent.
	// Returning ErrSessionNotFound is treated the same as absence.
	Get(ctx context.Context, id string) (*Envelope, error)

	// Set stores env under id, replacing any previous value.
	Set(ctx context.Context, id string, env Envelope) error

	// Destroy removes id. Destroying an absent id is not an error.
	Destroy(ctx context.Context, id string) error
}

// Toucher is implemented by stores able to refresh an entry's expiry without
// rewriting it. The capability is optional and checked at call time.
type Toucher interface {
	Touch(ctx context.Context, id string, env Envelope) error
}
