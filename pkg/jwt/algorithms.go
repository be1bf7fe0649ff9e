package jwt

import (
	"crypto"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// DefaultDigest is used for algorithms missing from SupportedAlgorithms.
const DefaultDigest = crypto.SHA256

// SupportedAlgorithms maps JOSE algorithm names to their digest.
var SupportedAlgorithms = map[string]crypto.Hash{
	"RS256": crypto.SHA256,
	"RS384": crypto.SHA384,
	"RS512": crypto.SHA512,
}

// DigestOverride receives the algorithm name and the digest picked for it and
// returns the digest to use.
type DigestOverride func(alg string, digest crypto.Hash) crypto.Hash

func (v *Verifier) digest(alg string) crypto.Hash {
	d, ok := SupportedAlgorithms[alg]
	if !ok {
		d = DefaultDigest
	}
	if v.override != nil {
		d = v.override(alg, d)
	}
	return d
}

// signingMethod returns the RSA PKCS#1 v1.5 method for the digest.
func signingMethod(d crypto.Hash) gojwt.SigningMethod {
	switch d {
	case crypto.SHA384:
		return gojwt.SigningMethodRS384
	case crypto.SHA512:
		return gojwt.SigningMethodRS512
	default:
		return gojwt.SigningMethodRS256
	}
}
