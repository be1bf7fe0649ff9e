package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"
)

const minSecretLength = 32

// Config holds cookie settings loaded from the environment.
type Config struct {
	Secrets  []string      `env:"GOOGLE_LOGIN_COOKIE_SECRETS,required" envSeparator:","`
	Path     string        `env:"GOOGLE_LOGIN_COOKIE_PATH" envDefault:"/"`
	Domain   string        `env:"GOOGLE_LOGIN_COOKIE_DOMAIN"`
	Secure   bool          `env:"GOOGLE_LOGIN_COOKIE_SECURE" envDefault:"true"`
	SameSite http.SameSite `env:"GOOGLE_LOGIN_COOKIE_SAME_SITE" envDefault:"2"` // 2 = Lax
}

// Manager writes and reads signed cookies.
type Manager struct {
	secrets  []string
	path     string
	domain   string
	secure   bool
	sameSite http.SameSite
}

// Option configures a Manager.
type Option func(*Manager)

func WithPath(p string) Option            { return func(m *Manager) { m.path = p } }
func WithDomain(d string) Option          { return func(m *Manager) { m.domain = d } }
func WithSecure(s bool) Option            { return func(m *Manager) { m.secure = s } }
func WithSameSite(s http.SameSite) Option { return func(m *Manager) { m.sameSite = s } }

// New creates a Manager. Every secret must be at least 32 bytes.
func New(secrets []string, opts ...Option) (*Manager, error) {
	secrets = slices.DeleteFunc(slices.Clone(secrets), func(s string) bool {
		return strings.TrimSpace(s) == ""
	})
	if len(secrets) == 0 {
		return nil, ErrNoSecret
	}
	for i, s := range secrets {
		if len(s) < minSecretLength {
			return nil, fmt.Errorf("%w: secret %d has %d chars, need %d", ErrSecretTooShort, i, len(s), minSecretLength)
		}
	}

	m := &Manager{
		secrets:  secrets,
		path:     "/",
		secure:   true,
		sameSite: http.SameSiteLaxMode,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// NewFromConfig creates a Manager from cfg.
func NewFromConfig(cfg Config) (*Manager, error) {
	opts := []Option{WithSecure(cfg.Secure)}
	if cfg.Path != "" {
		opts = append(opts, WithPath(cfg.Path))
	}
	if cfg.Domain != "" {
		opts = append(opts, WithDomain(cfg.Domain))
	}
	if cfg.SameSite != 0 {
		opts = append(opts, WithSameSite(cfg.SameSite))
	}
	return New(cfg.Secrets, opts...)
}

// SetSigned writes a signed, HTTP-only cookie. A zero maxAge makes a session cookie.
func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, maxAge time.Duration) {
	c := m.cookie(name, m.sign(value))
	if maxAge > 0 {
		c.MaxAge = int(maxAge / time.Second)
		c.Expires = time.Now().Add(maxAge)
	}
	http.SetCookie(w, c)
}

// GetSigned reads and verifies a cookie written by SetSigned.
func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if errors.Is(err, http.ErrNoCookie) {
		return "", ErrCookieNotFound
	}
	if err != nil {
		return "", err
	}
	return m.verify(c.Value)
}

// Delete expires a cookie.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	c := m.cookie(name, "")
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	http.SetCookie(w, c)
}

func (m *Manager) cookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     m.path,
		Domain:   m.domain,
		Secure:   m.secure,
		HttpOnly: true,
		SameSite: m.sameSite,
	}
}

func (m *Manager) sign(value string) string {
	payload := base64.RawURLEncoding.EncodeToString([]byte(value))
	return payload + "." + mac(m.secrets[0], payload)
}

func (m *Manager) verify(signed string) (string, error) {
	payload, sig, ok := strings.Cut(signed, ".")
	if !ok || payload == "" || sig == "" {
		return "", ErrInvalidFormat
	}
	for _, secret := range m.secrets {
		if hmac.Equal([]byte(sig), []byte(mac(secret, payload))) {
			value, err := base64.RawURLEncoding.DecodeString(payload)
			if err != nil {
				return "", ErrInvalidFormat
			}
			return string(value), nil
		}
	}
	return "", ErrInvalidSignature
}

func mac(secret, payload string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
