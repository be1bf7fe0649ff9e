package users

import (
	"context"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FallbackUsername is used when nothing usable survives sanitizing.
const FallbackUsername = "user"

// SanitizeUsername strips accents, lower-cases and keeps only [a-z0-9_.-].
func SanitizeUsername(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}

	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range strings.ToLower(stripped) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '.', r == '-':
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), ".-")
}

// UsernameChecker is the part of Store needed to pick a free username.
type UsernameChecker interface {
	UsernameExists(ctx context.Context, username string) (bool, error)
}

// UniqueUsername derives a free username from the local part of email,
// appending 1, 2, ... until the name is not taken.
func UniqueUsername(ctx context.Context, store UsernameChecker, email string) (string, error) {
	local := email
	if at := strings.LastIndexByte(email, '@'); at >= 0 {
		local = email[:at]
	}
	base := SanitizeUsername(local)
	if base == "" {
		base = FallbackUsername
	}

	candidate := base
	for i := 1; ; i++ {
		taken, err := store.UsernameExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + strconv.Itoa(i)
	}
}
