package settings

import (
	"strings"
	"time"
)

// OneTapScope controls where the One Tap prompt is shown.
type OneTapScope string

const (
	OneTapLoginPage OneTapScope = "login"
	OneTapSitewide  OneTapScope = "sitewide"
)

// DefaultCookieExpiryHours is used when no expiry is configured.
const DefaultCookieExpiryHours = 48

// Setting names, shared by stores, constants and the resolver.
const (
	ClientID            = "client_id"
	ClientSecret        = "client_secret"
	WhitelistedDomains  = "whitelisted_domains"
	RegistrationEnabled = "registration_enabled"
	OneTapLogin         = "one_tap_login"
	OneTapLoginScope    = "one_tap_login_scope"
	CookieExpiry        = "cookie_expiry"
	AnyoneCanRegister   = "users_can_register"
)

// Names lists every known setting in display order.
var Names = []string{
	ClientID,
	ClientSecret,
	WhitelistedDomains,
	RegistrationEnabled,
	OneTapLogin,
	OneTapLoginScope,
	CookieExpiry,
	AnyoneCanRegister,
}

// Settings is the resolved configuration for one request.
type Settings struct {
	ClientID            string
	ClientSecret        string
	WhitelistedDomains  string
	RegistrationEnabled bool
	OneTapLogin         bool
	OneTapScope         OneTapScope
	CookieExpiryHours   int

	// AnyoneCanRegister is the host's generic open-registration switch.
	AnyoneCanRegister bool
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Settings {
	return Settings{
		OneTapScope:       OneTapLoginPage,
		CookieExpiryHours: DefaultCookieExpiryHours,
	}
}

// Configured reports whether OAuth credentials are present.
func (s Settings) Configured() bool {
	return s.ClientID != "" && s.ClientSecret != ""
}

// WhitelistDomains parses the comma separated whitelist. Entries are trimmed
// and lower-cased; empty entries are dropped.
func (s Settings) WhitelistDomains() []string {
	if strings.TrimSpace(s.WhitelistedDomains) == "" {
		return nil
	}
	parts := strings.Split(s.WhitelistedDomains, ",")
	domains := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			domains = append(domains, p)
		}
	}
	return domains
}

// CookieExpiry returns the auth cookie lifetime.
func (s Settings) CookieExpiry() time.Duration {
	hours := s.CookieExpiryHours
	if hours <= 0 {
		hours = DefaultCookieExpiryHours
	}
	return time.Duration(hours) * time.Hour
}

// value returns the typed value of a named field.
func (s Settings) value(name string) (any, bool) {
	switch name {
	case ClientID:
		return s.ClientID, true
	case ClientSecret:
		return s.ClientSecret, true
	case WhitelistedDomains:
		return s.WhitelistedDomains, true
	case RegistrationEnabled:
		return s.RegistrationEnabled, true
	case OneTapLogin:
		return s.OneTapLogin, true
	case OneTapLoginScope:
		return s.OneTapScope, true
	case CookieExpiry:
		return s.CookieExpiryHours, true
	case AnyoneCanRegister:
		return s.AnyoneCanRegister, true
	}
	return nil, false
}
