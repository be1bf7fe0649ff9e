// Package base64url implements the unpadded, URL-safe base64 variant used by
// JWT segments and the OAuth state parameter.
package base64url

import (
	"encoding/base64"
	"strings"
)

var toURL = strings.NewReplacer("+", "-", "/", "_")

// Encode returns the URL-safe base64 form of b with padding stripped.
func Encode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// EncodeString is Encode for string input.
func EncodeString(s string) string {
	return Encode([]byte(s))
}

// Decode reverses Encode. Standard-alphabet and padded input are accepted too,
// padding is restored implicitly.
func Decode(s string) ([]byte, error) {
	s = strings.TrimRight(toURL.Replace(s), "=")
	return base64.RawURLEncoding.DecodeString(s)
}
