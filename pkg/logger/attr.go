package logger

import (
	"log/slog"
	"strings"
)

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserID records the local user identifier under the key "user_id".
// If id is nil, it returns an empty Attr.
func UserID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("user_id", id)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Provider records the identity provider under the key "provider".
func Provider(name string) slog.Attr {
	return slog.String("provider", name)
}

// KeyID records a signing key identifier under the key "kid".
func KeyID(kid string) slog.Attr {
	return slog.String("kid", kid)
}

// Event records the event name under the key "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// Email records the domain part of an email address under the key "email_domain".
// The local part is never logged.
func Email(email string) slog.Attr {
	at := strings.LastIndexByte(email, '@')
	if at < 0 || at == len(email)-1 {
		return slog.Attr{}
	}
	return slog.String("email_domain", strings.ToLower(email[at+1:]))
}

// Status records an HTTP status code under the key "status".
func Status(code int) slog.Attr {
	return slog.Int("status", code)
}

// Duration records a duration under the key "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}

// RequestID adds the request correlation id.
func RequestID(id string) slog.Attr {
	return slog.String("request_id", id)
}

// ClientIP adds the client address.
func ClientIP(ip string) slog.Attr {
	return slog.String("client_ip", ip)
}
