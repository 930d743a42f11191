package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// sessionIDVisible is how many leading characters of a session id are logged.
const sessionIDVisible = 8

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// SessionID records a truncated session id under the key "session_id".
// Session ids are bearer credentials, so only a prefix is ever written.
func SessionID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	if len(id) > sessionIDVisible {
		id = id[:sessionIDVisible] + "..."
	}
	return slog.String("session_id", id)
}

// RequestID records the request identifier under the key "request_id".
// If id is empty, it returns an empty Attr.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Backend records the session store backend under the key "backend".
func Backend(name string) slog.Attr {
	return slog.String("backend", name)
}

// Operation records the lifecycle operation under the key "op".
func Operation(name string) slog.Attr {
	return slog.String("op", name)
}

// TTL records a time-to-live under the key "ttl".
func TTL(d time.Duration) slog.Attr {
	return slog.Duration("ttl", d)
}

// Duration records an elapsed time under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
