package jwt_test

import (
	"context"
	"crypto"
	"net/http"
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/googlelogin/pkg/base64url"
	"github.com/dmitrymomot/googlelogin/pkg/jwt"
)

func TestVerifier_Verify(t *testing.T) {
	t.Parallel()

	key := newTestKey(t, "kid-1")
	srv := newCertServer(t, "public, max-age=600", http.StatusOK, key)
	verifier := jwt.NewVerifier(jwt.NewCertSource(jwt.NewMemoryStore(), jwt.WithCertsURL(srv.URL)))
	ctx := context.Background()

	t.Run("valid token", func(t *testing.T) {
		t.Parallel()

		token := key.sign(t, gojwt.SigningMethodRS256, googleClaims("client-id", time.Now().Add(time.Hour)))
		claims, err := verifier.Verify(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "john@example.com", claims.Email)
		assert.True(t, claims.EmailVerified)
		assert.Equal(t, "1234567890", claims.Subject)
		assert.Equal(t, "John", claims.GivenName)
		assert.Equal(t, "Doe", claims.FamilyName)
	})

	t.Run("RS512 token", func(t *testing.T) {
		t.Parallel()

		token := key.sign(t, gojwt.SigningMethodRS512, googleClaims("client-id", time.Now().Add(time.Hour)))
		_, err := verifier.Verify(ctx, token)
		require.NoError(t, err)
	})

	t.Run("tampered signature", func(t *testing.T) {
		t.Parallel()

		token := key.sign(t, gojwt.SigningMethodRS256, googleClaims("client-id", time.Now().Add(time.Hour)))
		parts := strings.Split(token, ".")
		sig, err := base64url.Decode(parts[2])
		require.NoError(t, err)

		for _, i := range []int{0, len(sig) / 2, len(sig) - 1} {
			tampered := append([]byte(nil), sig...)
			tampered[i] ^= 0x01
			bad := parts[0] + "." + parts[1] + "." + base64url.Encode(tampered)

			_, err := verifier.Verify(ctx, bad)
			assert.ErrorIs(t, err, jwt.ErrInvalidSignature, "byte %d", i)
		}
	})

	t.Run("tampered payload", func(t *testing.T) {
		t.Parallel()

		token := key.sign(t, gojwt.SigningMethodRS256, googleClaims("client-id", time.Now().Add(time.Hour)))
		parts := strings.Split(token, ".")
		forged := base64url.EncodeString(`{"email":"admin@example.com"}`)

		_, err := verifier.Verify(ctx, parts[0]+"."+forged+"."+parts[2])
		assert.ErrorIs(t, err, jwt.ErrInvalidSignature)
	})

	t.Run("malformed token", func(t *testing.T) {
		t.Parallel()

		for _, token := range []string{"", "abc", "a.b", "a.b.c.d", ".b.c"} {
			_, err := verifier.Verify(ctx, token)
			assert.ErrorIs(t, err, jwt.ErrMalformedToken, token)
		}
	})

	t.Run("missing key info", func(t *testing.T) {
		t.Parallel()

		noKid := base64url.EncodeString(`{"alg":"RS256","typ":"JWT"}`)
		noAlg := base64url.EncodeString(`{"kid":"kid-1"}`)
		payload := base64url.EncodeString(`{}`)

		for _, header := range []string{noKid, noAlg, "!!!", base64url.EncodeString("not json")} {
			_, err := verifier.Verify(ctx, header+"."+payload+".c2ln")
			assert.ErrorIs(t, err, jwt.ErrMissingKeyInfo)
		}
	})

	t.Run("unknown key id", func(t *testing.T) {
		t.Parallel()

		other := newTestKey(t, "kid-unknown")
		token := other.sign(t, gojwt.SigningMethodRS256, googleClaims("client-id", time.Now().Add(time.Hour)))

		_, err := verifier.Verify(ctx, token)
		assert.ErrorIs(t, err, jwt.ErrInvalidSignature)
		assert.ErrorIs(t, err, jwt.ErrKeyNotFound)
	})
}

func TestVerifier_UnknownAlgorithmUsesDefaultDigest(t *testing.T) {
	t.Parallel()

	key := newTestKey(t, "kid-1")
	srv := newCertServer(t, "", http.StatusOK, key)
	source := jwt.NewCertSource(jwt.NewMemoryStore(), jwt.WithCertsURL(srv.URL))

	// Sign with RS256 but advertise an algorithm outside the allow-list.
	token := key.sign(t, gojwt.SigningMethodRS256, googleClaims("client-id", time.Now().Add(time.Hour)))
	parts := strings.Split(token, ".")
	header := base64url.EncodeString(`{"alg":"XS999","kid":"kid-1","typ":"JWT"}`)
	resigned := header + "." + parts[1]
	sig, err := gojwt.SigningMethodRS256.Sign(resigned, key.priv)
	require.NoError(t, err)
	token = resigned + "." + base64url.Encode(sig)

	t.Run("default digest", func(t *testing.T) {
		t.Parallel()

		_, err := jwt.NewVerifier(source).Verify(context.Background(), token)
		require.NoError(t, err)
	})

	t.Run("override changes digest", func(t *testing.T) {
		t.Parallel()

		var seen string
		verifier := jwt.NewVerifier(source, jwt.WithDigestOverride(func(alg string, d crypto.Hash) crypto.Hash {
			seen = alg
			assert.Equal(t, jwt.DefaultDigest, d)
			return crypto.SHA512
		}))

		_, err := verifier.Verify(context.Background(), token)
		assert.ErrorIs(t, err, jwt.ErrInvalidSignature)
		assert.Equal(t, "XS999", seen)
	})
}

func TestValidateClaims(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	valid := func() *jwt.Claims {
		return &jwt.Claims{
			Issuer:    "accounts.google.com",
			Audience:  "client-id",
			ExpiresAt: now.Add(time.Minute).Unix(),
		}
	}

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, jwt.ValidateClaims(valid(), "client-id", now))

		c := valid()
		c.Issuer = "https://accounts.google.com"
		require.NoError(t, jwt.ValidateClaims(c, "client-id", now))
	})

	t.Run("wrong issuer", func(t *testing.T) {
		t.Parallel()
		c := valid()
		c.Issuer = "https://evil.example.com"
		assert.ErrorIs(t, jwt.ValidateClaims(c, "client-id", now), jwt.ErrInvalidIssuer)
	})

	t.Run("wrong audience", func(t *testing.T) {
		t.Parallel()
		assert.ErrorIs(t, jwt.ValidateClaims(valid(), "other-client", now), jwt.ErrInvalidAudience)
		assert.ErrorIs(t, jwt.ValidateClaims(valid(), "", now), jwt.ErrInvalidAudience)
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()
		c := valid()
		c.ExpiresAt = now.Unix()
		assert.ErrorIs(t, jwt.ValidateClaims(c, "client-id", now), jwt.ErrExpiredToken)
	})

	t.Run("nil claims", func(t *testing.T) {
		t.Parallel()
		assert.ErrorIs(t, jwt.ValidateClaims(nil, "client-id", now), jwt.ErrMalformedToken)
	})
}
