package cookie

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Cookie names.
const (
	AuthCookie     = "googlelogin_auth"
	LoggedInCookie = "googlelogin_logged_in"
	VisitorCookie  = "googlelogin_visitor"
)

// visitorTTL keeps the visitor id for a year.
const visitorTTL = 365 * 24 * time.Hour

// Auth manages the cookies of a signed-in user.
type Auth struct {
	m   *Manager
	now func() time.Time
}

// NewAuth creates an Auth on top of m.
func NewAuth(m *Manager) *Auth {
	return &Auth{m: m, now: time.Now}
}

// Issue clears any previous auth cookies and signs in userID for ttl.
func (a *Auth) Issue(w http.ResponseWriter, userID uuid.UUID, ttl time.Duration) {
	a.Clear(w)

	expires := a.now().Add(ttl).Unix()
	value := userID.String() + "|" + strconv.FormatInt(expires, 10)
	a.m.SetSigned(w, AuthCookie, value, ttl)
	a.m.SetSigned(w, LoggedInCookie, value, ttl)
}

// Clear expires every auth cookie.
func (a *Auth) Clear(w http.ResponseWriter) {
	a.m.Delete(w, AuthCookie)
	a.m.Delete(w, LoggedInCookie)
}

// UserID returns the signed-in user, or an error when the request carries no
// valid unexpired auth cookie.
func (a *Auth) UserID(r *http.Request) (uuid.UUID, error) {
	value, err := a.m.GetSigned(r, AuthCookie)
	if err != nil {
		return uuid.Nil, err
	}
	rawID, rawExp, ok := strings.Cut(value, "|")
	if !ok {
		return uuid.Nil, ErrInvalidFormat
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, ErrInvalidFormat
	}
	exp, err := strconv.ParseInt(rawExp, 10, 64)
	if err != nil {
		return uuid.Nil, ErrInvalidFormat
	}
	if !a.now().Before(time.Unix(exp, 0)) {
		return uuid.Nil, ErrExpired
	}
	return id, nil
}

// VisitorID returns the browser's visitor id, issuing one when missing or tampered.
func (a *Auth) VisitorID(w http.ResponseWriter, r *http.Request) (string, error) {
	id, err := a.m.GetSigned(r, VisitorCookie)
	if err == nil && id != "" {
		return id, nil
	}
	if err != nil && !errors.Is(err, ErrCookieNotFound) && !errors.Is(err, ErrInvalidSignature) && !errors.Is(err, ErrInvalidFormat) {
		return "", err
	}

	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate visitor id: %w", err)
	}
	id = hex.EncodeToString(b)
	a.m.SetSigned(w, VisitorCookie, id, visitorTTL)
	return id, nil
}
