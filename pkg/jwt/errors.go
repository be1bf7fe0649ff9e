package jwt

import "errors"

var (
	ErrMalformedToken   = errors.New("jwt: malformed token")
	ErrMissingKeyInfo   = errors.New("jwt: token header has no key id or algorithm")
	ErrInvalidSignature = errors.New("jwt: invalid signature")
	ErrKeyNotFound      = errors.New("jwt: public key not found")
	ErrInvalidKey       = errors.New("jwt: invalid public key")
	ErrExpiredToken     = errors.New("jwt: token is expired")
	ErrInvalidIssuer    = errors.New("jwt: unexpected issuer")
	ErrInvalidAudience  = errors.New("jwt: unexpected audience")
)
