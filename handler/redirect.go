package handler

import (
	"net/http"
	"net/url"
	"strings"
)

// Redirect sends a 303 See Other to target.
func Redirect(target string) Response {
	return RedirectWithStatus(target, http.StatusSeeOther)
}

// RedirectWithStatus redirects with the given 3xx status.
func RedirectWithStatus(target string, status int) Response {
	return ResponseFunc(func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Cache-Control", "no-store")
		http.Redirect(w, r, target, status)
		return nil
	})
}

// SafeRedirectTarget returns target when it points at host (or is a relative
// path on it) and fallback otherwise. Protocol-relative and non-http URLs are
// never accepted.
func SafeRedirectTarget(target, host, fallback string) string {
	target = strings.TrimSpace(target)
	if target == "" || strings.HasPrefix(target, "//") || strings.Contains(target, `\`) {
		return fallback
	}
	u, err := url.Parse(target)
	if err != nil {
		return fallback
	}
	if !u.IsAbs() {
		if u.Host != "" || !strings.HasPrefix(u.Path, "/") {
			return fallback
		}
		return u.RequestURI()
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fallback
	}
	if !strings.EqualFold(u.Host, host) {
		return fallback
	}
	return u.String()
}
