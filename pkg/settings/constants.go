package settings

import (
	"strconv"

	"github.com/dmitrymomot/googlelogin/pkg/config"
)

// Constants are deployment-level overrides. A nil field is not set.
type Constants struct {
	ClientID            *string `env:"GOOGLE_LOGIN_CLIENT_ID"`
	ClientSecret        *string `env:"GOOGLE_LOGIN_CLIENT_SECRET"`
	WhitelistedDomains  *string `env:"GOOGLE_LOGIN_WHITELIST_DOMAINS"`
	RegistrationEnabled *bool   `env:"GOOGLE_LOGIN_USER_REGISTRATION"`
	OneTapLogin         *bool   `env:"GOOGLE_LOGIN_ONE_TAP"`
	OneTapScope         *string `env:"GOOGLE_LOGIN_ONE_TAP_SCOPE"`
	CookieExpiryHours   *int    `env:"GOOGLE_LOGIN_COOKIE_EXPIRY"`
}

// EnvVars maps setting names to the environment variable that locks them.
var EnvVars = map[string]string{
	ClientID:            "GOOGLE_LOGIN_CLIENT_ID",
	ClientSecret:        "GOOGLE_LOGIN_CLIENT_SECRET",
	WhitelistedDomains:  "GOOGLE_LOGIN_WHITELIST_DOMAINS",
	RegistrationEnabled: "GOOGLE_LOGIN_USER_REGISTRATION",
	OneTapLogin:         "GOOGLE_LOGIN_ONE_TAP",
	OneTapLoginScope:    "GOOGLE_LOGIN_ONE_TAP_SCOPE",
	CookieExpiry:        "GOOGLE_LOGIN_COOKIE_EXPIRY",
}

// LoadConstants reads constants from the process environment and .env files.
func LoadConstants() (Constants, error) {
	var c Constants
	if err := config.Load(&c); err != nil {
		return Constants{}, err
	}
	return c, nil
}

// ConstantsFrom reads constants from an explicit environment map.
func ConstantsFrom(environ map[string]string) (Constants, error) {
	var c Constants
	if err := config.LoadFrom(&c, environ); err != nil {
		return Constants{}, err
	}
	return c, nil
}

// lookup returns the constant for a setting in its stored string form.
func (c Constants) lookup(name string) (string, bool) {
	switch name {
	case ClientID:
		return deref(c.ClientID)
	case ClientSecret:
		return deref(c.ClientSecret)
	case WhitelistedDomains:
		return deref(c.WhitelistedDomains)
	case RegistrationEnabled:
		if c.RegistrationEnabled != nil {
			return strconv.FormatBool(*c.RegistrationEnabled), true
		}
	case OneTapLogin:
		if c.OneTapLogin != nil {
			return strconv.FormatBool(*c.OneTapLogin), true
		}
	case OneTapLoginScope:
		return deref(c.OneTapScope)
	case CookieExpiry:
		if c.CookieExpiryHours != nil {
			return strconv.Itoa(*c.CookieExpiryHours), true
		}
	}
	return "", false
}

func deref(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	return *s, true
}
