package googlelogin

import (
	"errors"

	"github.com/dmitrymomot/googlelogin/pkg/login"
)

var (
	ErrAuthenticationFailed = errors.New("googlelogin: authentication failed")
	ErrNotConfigured        = errors.New("googlelogin: google login is not configured")
	ErrOneTapDisabled       = errors.New("googlelogin: one tap login is disabled")
	ErrInvalidRequest       = errors.New("googlelogin: invalid login request")
	ErrInvalidToken         = errors.New("googlelogin: invalid identity token")
)

// Error codes carried in the login page query string.
const (
	CodeAuthenticationFailed = "authentication_failed"
	CodeNotConfigured        = "not_configured"
	CodeInvalidRequest       = "invalid_request"
	CodeAccessDenied         = "access_denied"
	CodeRegistrationDisabled = "registration_disabled"
	CodeDomainNotAllowed     = "domain_not_allowed"
	CodeNoEmail              = "no_email"
)

var messages = map[string]string{
	CodeAuthenticationFailed: "We could not sign you in with Google. Please try again.",
	CodeNotConfigured:        "Google login is not available right now.",
	CodeInvalidRequest:       "The login request was invalid or has expired. Please try again.",
	CodeAccessDenied:         "Google sign-in was cancelled.",
	CodeRegistrationDisabled: "Registration is disabled on this site.",
	CodeDomainNotAllowed:     "Your email domain is not allowed to register on this site.",
	CodeNoEmail:              "Your Google account has no verified email address.",
}

// errorCode maps an error to its login page code.
func errorCode(err error) string {
	switch {
	case errors.Is(err, login.ErrRegistrationDisabled):
		return CodeRegistrationDisabled
	case errors.Is(err, login.ErrDomainNotAllowed):
		return CodeDomainNotAllowed
	case errors.Is(err, login.ErrNoEmail):
		return CodeNoEmail
	case errors.Is(err, ErrNotConfigured), errors.Is(err, ErrOneTapDisabled):
		return CodeNotConfigured
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrInvalidToken):
		return CodeInvalidRequest
	default:
		return CodeAuthenticationFailed
	}
}

// Message returns the user-facing text for a login page error code.
// Unknown codes yield an empty string.
func Message(code string) string {
	return messages[code]
}
