package logger

import (
	"log/slog"
	"time"
)

// sessionIDPrefix is how much of a session id is logged.
const sessionIDPrefix = 8

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserID records the user identifier under the key "user_id".
// If id is nil, it returns an empty Attr.
func UserID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("user_id", id)
}

// SessionID records a shortened session id under the key "session_id".
// Only a prefix is kept so logs never hold a full storage key.
func SessionID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	if len(id) > sessionIDPrefix {
		id = id[:sessionIDPrefix]
	}
	return slog.String("session_id", id)
}

// RequestID records the request identifier under the key "request_id".
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

func Username(name string) slog.Attr {
	return slog.String("username", name)
}

// Duration records a duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// HTTPRequest groups method, path and status of a served request.
func HTTPRequest(method, path string, status int) slog.Attr {
	return slog.Group("http",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
	)
}
