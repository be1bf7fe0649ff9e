package jwt

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/dmitrymomot/googlelogin/pkg/logger"
)

const (
	// GoogleCertsURL publishes Google's signing certificates as a kid -> PEM object.
	GoogleCertsURL = "https://www.googleapis.com/oauth2/v1/certs"

	// DefaultCertTTL applies when the endpoint sends no usable max-age.
	DefaultCertTTL = time.Hour

	maxCertsBody = 1 << 20
)

// KeyStore caches PEM encoded public keys by key id.
type KeyStore interface {
	// Get returns the PEM for kid and whether it is present and unexpired.
	Get(ctx context.Context, kid string) (string, bool, error)
	// SetMany stores every key with the same ttl.
	SetMany(ctx context.Context, keys map[string]string, ttl time.Duration) error
}

// CertConfig is the env-loadable configuration of the certificate source.
type CertConfig struct {
	URL        string        `env:"GOOGLE_LOGIN_CERTS_URL" envDefault:"https://www.googleapis.com/oauth2/v1/certs"`
	DefaultTTL time.Duration `env:"GOOGLE_LOGIN_CERTS_DEFAULT_TTL" envDefault:"1h"`
}

// CertSource resolves public keys from a KeyStore and refills it from the
// provider's certificate endpoint on a miss. It implements KeySource.
type CertSource struct {
	store      KeyStore
	url        string
	client     *http.Client
	defaultTTL time.Duration
	logger     *slog.Logger
}

// CertOption configures a CertSource.
type CertOption func(*CertSource)

// WithCertsURL overrides the certificate endpoint.
func WithCertsURL(url string) CertOption {
	return func(s *CertSource) {
		if url != "" {
			s.url = url
		}
	}
}

// WithHTTPClient sets the client used for certificate fetches.
func WithHTTPClient(c *http.Client) CertOption {
	return func(s *CertSource) {
		if c != nil {
			s.client = c
		}
	}
}

// WithDefaultTTL sets the TTL used when the response carries no max-age.
func WithDefaultTTL(ttl time.Duration) CertOption {
	return func(s *CertSource) {
		if ttl > 0 {
			s.defaultTTL = ttl
		}
	}
}

// WithCertLogger sets the logger.
func WithCertLogger(l *slog.Logger) CertOption {
	return func(s *CertSource) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCertConfig applies an env-loaded CertConfig.
func WithCertConfig(cfg CertConfig) CertOption {
	return func(s *CertSource) {
		WithCertsURL(cfg.URL)(s)
		WithDefaultTTL(cfg.DefaultTTL)(s)
	}
}

// NewCertSource creates a CertSource over store.
func NewCertSource(store KeyStore, opts ...CertOption) *CertSource {
	s := &CertSource{
		store:      store,
		url:        GoogleCertsURL,
		client:     http.DefaultClient,
		defaultTTL: DefaultCertTTL,
		logger:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PublicKey returns the RSA key for kid.
func (s *CertSource) PublicKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	pemData, err := s.PEM(ctx, kid)
	if err != nil {
		return nil, err
	}
	key, err := gojwt.ParseRSAPublicKeyFromPEM([]byte(pemData))
	if err != nil {
		return nil, errors.Join(ErrInvalidKey, err)
	}
	return key, nil
}

// PEM returns the cached PEM for kid, fetching the certificate set on a miss.
// Fetch failures are soft: they are logged and reported as ErrKeyNotFound.
func (s *CertSource) PEM(ctx context.Context, kid string) (string, error) {
	if kid == "" {
		return "", ErrKeyNotFound
	}

	pemData, ok, err := s.store.Get(ctx, kid)
	if err != nil {
		s.logger.WarnContext(ctx, "key store read failed", logger.KeyID(kid), logger.Error(err), logger.Component("jwt"))
	}
	if ok {
		return pemData, nil
	}

	keys, ttl, err := s.fetch(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "certificate fetch failed", logger.KeyID(kid), logger.Error(err), logger.Component("jwt"))
		return "", ErrKeyNotFound
	}

	if ttl > 0 {
		if err := s.store.SetMany(ctx, keys, ttl); err != nil {
			s.logger.WarnContext(ctx, "key store write failed", logger.Error(err), logger.Component("jwt"))
		}
	}

	pemData, ok = keys[kid]
	if !ok {
		return "", ErrKeyNotFound
	}
	return pemData, nil
}

func (s *CertSource) fetch(ctx context.Context) (map[string]string, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, http.NoBody)
	if err != nil {
		return nil, 0, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("certificate endpoint returned status %d", resp.StatusCode)
	}

	var keys map[string]string
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxCertsBody)).Decode(&keys); err != nil {
		return nil, 0, fmt.Errorf("decode certificates: %w", err)
	}

	ttl, ok := MaxAge(resp.Header.Get("Cache-Control"))
	if !ok {
		ttl = s.defaultTTL
	}
	return keys, ttl, nil
}

// MaxAge extracts the max-age directive from a Cache-Control header value.
// It reports false when the directive is absent or malformed.
func MaxAge(header string) (time.Duration, bool) {
	for _, directive := range strings.Split(header, ",") {
		name, value, found := strings.Cut(strings.TrimSpace(directive), "=")
		if !found || !strings.EqualFold(strings.TrimSpace(name), "max-age") {
			continue
		}
		secs, err := strconv.Atoi(strings.Trim(strings.TrimSpace(value), `"`))
		if err != nil || secs < 0 {
			return 0, false
		}
		return time.Duration(secs) * time.Second, true
	}
	return 0, false
}
