package google

import "errors"

var (
	ErrTokenExchange = errors.New("google: could not exchange authorization code")
	ErrProfileFetch  = errors.New("google: could not fetch user profile")
	ErrPrecondition  = errors.New("google: access token must be set")
	ErrInvalidState  = errors.New("google: invalid state parameter")
)
