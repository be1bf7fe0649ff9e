package jwt_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

type testKey struct {
	kid  string
	priv *rsa.PrivateKey
	pem  string
}

func newTestKey(t *testing.T, kid string) testKey {
	t.Helper()

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &priv.PublicKey, priv)
	require.NoError(t, err)

	return testKey{
		kid:  kid,
		priv: priv,
		pem:  string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})),
	}
}

func (k testKey) sign(t *testing.T, method gojwt.SigningMethod, claims gojwt.MapClaims) string {
	t.Helper()

	tok := gojwt.NewWithClaims(method, claims)
	tok.Header["kid"] = k.kid
	s, err := tok.SignedString(k.priv)
	require.NoError(t, err)
	return s
}

type certServer struct {
	*httptest.Server
	hits atomic.Int32
}

func newCertServer(t *testing.T, cacheControl string, status int, keys ...testKey) *certServer {
	t.Helper()

	cs := &certServer{}
	body := map[string]string{}
	for _, k := range keys {
		body[k.kid] = k.pem
	}
	cs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cs.hits.Add(1)
		if cacheControl != "" {
			w.Header().Set("Cache-Control", cacheControl)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(cs.Close)
	return cs
}

func googleClaims(aud string, exp time.Time) gojwt.MapClaims {
	return gojwt.MapClaims{
		"iss":            "https://accounts.google.com",
		"aud":            aud,
		"sub":            "1234567890",
		"email":          "john@example.com",
		"email_verified": true,
		"name":           "John Doe",
		"given_name":     "John",
		"family_name":    "Doe",
		"picture":        "https://lh3.googleusercontent.com/a/photo.jpg",
		"iat":            time.Now().Unix(),
		"exp":            exp.Unix(),
	}
}
