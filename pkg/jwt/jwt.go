package jwt

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/googlelogin/pkg/base64url"
	"github.com/dmitrymomot/googlelogin/pkg/logger"
)

// Header is the decoded JOSE header of an ID token.
type Header struct {
	Algorithm string `json:"alg"`
	KeyID     string `json:"kid"`
	Type      string `json:"typ,omitempty"`
}

// Claims holds the claims of a Google-issued ID token.
type Claims struct {
	Issuer        string `json:"iss"`
	Audience      string `json:"aud"`
	AuthorizedBy  string `json:"azp,omitempty"`
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name,omitempty"`
	GivenName     string `json:"given_name,omitempty"`
	FamilyName    string `json:"family_name,omitempty"`
	Picture       string `json:"picture,omitempty"`
	HostedDomain  string `json:"hd,omitempty"`
	Nonce         string `json:"nonce,omitempty"`
	IssuedAt      int64  `json:"iat,omitempty"`
	ExpiresAt     int64  `json:"exp,omitempty"`
	NotBefore     int64  `json:"nbf,omitempty"`
}

// KeySource resolves a public key by key id.
type KeySource interface {
	PublicKey(ctx context.Context, kid string) (*rsa.PublicKey, error)
}

// Verifier checks ID token signatures against keys from a KeySource.
// It is safe for concurrent use.
type Verifier struct {
	keys     KeySource
	override DigestOverride
	logger   *slog.Logger
}

// VerifierOption configures a Verifier.
type VerifierOption func(*Verifier)

// WithDigestOverride installs a hook that may replace the digest chosen for an algorithm.
func WithDigestOverride(fn DigestOverride) VerifierOption {
	return func(v *Verifier) {
		v.override = fn
	}
}

// WithLogger sets the logger used for verification failures.
func WithLogger(l *slog.Logger) VerifierOption {
	return func(v *Verifier) {
		if l != nil {
			v.logger = l
		}
	}
}

// NewVerifier creates a Verifier backed by keys.
func NewVerifier(keys KeySource, opts ...VerifierOption) *Verifier {
	v := &Verifier{
		keys:   keys,
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify validates the token signature and returns its claims.
// Temporal and audience checks are left to ValidateClaims.
func (v *Verifier) Verify(ctx context.Context, token string) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return nil, ErrMalformedToken
	}

	header, err := decodeHeader(parts[0])
	if err != nil {
		return nil, ErrMissingKeyInfo
	}

	key, err := v.keys.PublicKey(ctx, header.KeyID)
	if err != nil {
		v.logger.WarnContext(ctx, "public key unavailable",
			logger.KeyID(header.KeyID),
			logger.Error(err),
			logger.Component("jwt"),
		)
		return nil, errors.Join(ErrInvalidSignature, err)
	}

	sig, err := base64url.Decode(parts[2])
	if err != nil || len(sig) == 0 {
		return nil, ErrInvalidSignature
	}

	method := signingMethod(v.digest(header.Algorithm))
	if err := method.Verify(parts[0]+"."+parts[1], sig, key); err != nil {
		return nil, ErrInvalidSignature
	}

	payload, err := base64url.Decode(parts[1])
	if err != nil {
		return nil, ErrMalformedToken
	}
	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, ErrMalformedToken
	}

	return &claims, nil
}

func decodeHeader(segment string) (Header, error) {
	var h Header
	raw, err := base64url.Decode(segment)
	if err != nil {
		return h, err
	}
	if err := json.Unmarshal(raw, &h); err != nil {
		return h, err
	}
	if h.KeyID == "" || h.Algorithm == "" {
		return h, ErrMissingKeyInfo
	}
	return h, nil
}

// Issuers accepted for Google ID tokens.
var Issuers = []string{"accounts.google.com", "https://accounts.google.com"}

// ValidateClaims checks issuer, audience and expiry of verified claims.
func ValidateClaims(c *Claims, clientID string, now time.Time) error {
	if c == nil {
		return ErrMalformedToken
	}
	validIssuer := false
	for _, iss := range Issuers {
		if c.Issuer == iss {
			validIssuer = true
			break
		}
	}
	if !validIssuer {
		return ErrInvalidIssuer
	}
	if clientID == "" || c.Audience != clientID {
		return ErrInvalidAudience
	}
	if c.ExpiresAt == 0 || now.Unix() >= c.ExpiresAt {
		return ErrExpiredToken
	}
	return nil
}
