// Package nonce issues short-lived anti-forgery tokens bound to an action and
// a browser session.
//
// A nonce is a truncated HMAC-SHA256 over the current tick, the action and the
// session id. Each lifetime is split into two ticks and a nonce verifies during
// its own tick and the next one, so it lives between half and a full lifetime.
// Nothing is stored server-side.
package nonce

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strconv"
	"time"
)

const (
	// DefaultLifetime matches the usual day-long validity of login nonces.
	DefaultLifetime = 24 * time.Hour

	minSecretLength = 32
	nonceLength     = 12
)

var ErrSecretTooShort = errors.New("nonce: secret must be at least 32 bytes")

// Config is the env-loadable nonce configuration.
type Config struct {
	Secret   string        `env:"GOOGLE_LOGIN_NONCE_SECRET,required"`
	Lifetime time.Duration `env:"GOOGLE_LOGIN_NONCE_LIFETIME" envDefault:"24h"`
}

// Manager creates and verifies nonces.
type Manager struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithLifetime sets the full validity window.
func WithLifetime(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.lifetime = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// New creates a Manager.
func New(secret string, opts ...Option) (*Manager, error) {
	if len(secret) < minSecretLength {
		return nil, ErrSecretTooShort
	}
	m := &Manager{
		secret:   []byte(secret),
		lifetime: DefaultLifetime,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// NewFromConfig creates a Manager from an env-loaded Config.
func NewFromConfig(cfg Config, opts ...Option) (*Manager, error) {
	return New(cfg.Secret, append([]Option{WithLifetime(cfg.Lifetime)}, opts...)...)
}

// Create returns a nonce for action and session.
func (m *Manager) Create(action, session string) string {
	return m.hash(m.tick(), action, session)
}

// Verify reports whether nonce was created for action and session within the
// current or previous tick.
func (m *Manager) Verify(nonce, action, session string) bool {
	if len(nonce) != nonceLength {
		return false
	}
	tick := m.tick()
	for _, t := range []int64{tick, tick - 1} {
		expected := m.hash(t, action, session)
		if subtle.ConstantTimeCompare([]byte(nonce), []byte(expected)) == 1 {
			return true
		}
	}
	return false
}

func (m *Manager) tick() int64 {
	half := int64(m.lifetime / 2)
	return (m.now().UnixNano() + half - 1) / half
}

func (m *Manager) hash(tick int64, action, session string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(strconv.FormatInt(tick, 10)))
	mac.Write([]byte{0})
	mac.Write([]byte(action))
	mac.Write([]byte{0})
	mac.Write([]byte(session))
	return hex.EncodeToString(mac.Sum(nil))[:nonceLength]
}
