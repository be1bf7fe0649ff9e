package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/googlelogin/pkg/events"
	"github.com/dmitrymomot/googlelogin/pkg/google"
	"github.com/dmitrymomot/googlelogin/pkg/logger"
	"github.com/dmitrymomot/googlelogin/pkg/settings"
	"github.com/dmitrymomot/googlelogin/pkg/users"
)

// UserLoggedIn is published after every successful sign-in.
type UserLoggedIn struct {
	User    *users.User
	Profile *google.Profile
}

// UserCreated is published after a new account is registered.
type UserCreated struct {
	User    *users.User
	Profile *google.Profile
}

// SessionIssuer writes and clears auth cookies. *cookie.Auth implements it.
type SessionIssuer interface {
	Issue(w http.ResponseWriter, userID uuid.UUID, ttl time.Duration)
	Clear(w http.ResponseWriter)
}

// PictureImporter copies a remote picture into storage. *media.Importer implements it.
type PictureImporter interface {
	Import(ctx context.Context, src, key string) (string, error)
}

// Authenticator signs in and provisions users from Google profiles.
type Authenticator struct {
	users    users.Store
	sessions SessionIssuer
	pictures PictureImporter
	loggedIn *events.Dispatcher[UserLoggedIn]
	created  *events.Dispatcher[UserCreated]
	logger   *slog.Logger
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithPictureImporter enables attaching the Google profile picture to new users.
func WithPictureImporter(p PictureImporter) Option {
	return func(a *Authenticator) {
		a.pictures = p
	}
}

// WithUserLoggedIn sets the dispatcher for sign-in events.
func WithUserLoggedIn(d *events.Dispatcher[UserLoggedIn]) Option {
	return func(a *Authenticator) {
		a.loggedIn = d
	}
}

// WithUserCreated sets the dispatcher for registration events.
func WithUserCreated(d *events.Dispatcher[UserCreated]) Option {
	return func(a *Authenticator) {
		a.created = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Authenticator) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(store users.Store, sessions SessionIssuer, opts ...Option) *Authenticator {
	a := &Authenticator{
		users:    store,
		sessions: sessions,
		logger:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Authenticate returns the local user for p, registering one if needed.
func (a *Authenticator) Authenticate(ctx context.Context, s settings.Settings, p *google.Profile) (*users.User, error) {
	if !p.HasEmail() {
		return nil, reject(ErrNoEmail)
	}

	u, err := a.users.GetByEmail(ctx, p.Email)
	switch {
	case err == nil:
		a.publishLoggedIn(ctx, u, p)
		return u, nil
	case errors.Is(err, users.ErrUserNotFound):
		return a.Register(ctx, s, p)
	default:
		return nil, fail("lookup user", err)
	}
}

// Register creates a local account for p.
func (a *Authenticator) Register(ctx context.Context, s settings.Settings, p *google.Profile) (*users.User, error) {
	if !p.HasEmail() {
		return nil, reject(ErrNoEmail)
	}
	if !s.RegistrationEnabled && !s.AnyoneCanRegister {
		return nil, reject(ErrRegistrationDisabled)
	}
	if !CanRegisterWithEmail(s, p.Email) {
		a.logger.InfoContext(ctx, "registration refused by domain whitelist",
			logger.Component("login"),
			logger.Email(p.Email),
		)
		return nil, reject(ErrDomainNotAllowed)
	}

	username, err := users.UniqueUsername(ctx, a.users, p.Email)
	if err != nil {
		return nil, fail("derive username", err)
	}
	password, err := users.RandomPassword()
	if err != nil {
		return nil, fail("generate password", err)
	}
	hash, err := users.HashPassword(password)
	if err != nil {
		return nil, fail("hash password", err)
	}

	u := &users.User{
		Username:     username,
		Email:        p.Email,
		DisplayName:  p.DisplayName,
		FirstName:    p.GivenName,
		LastName:     p.FamilyName,
		PasswordHash: hash,
	}
	if err := a.users.Create(ctx, u); err != nil {
		return nil, fail("create user", err)
	}

	a.logger.InfoContext(ctx, "user registered",
		logger.Component("login"),
		logger.UserID(u.ID),
		logger.Email(u.Email),
		logger.Provider(google.ProviderName),
	)

	a.attachPicture(ctx, u, p.PictureURL)

	if a.created != nil {
		if err := a.created.Publish(ctx, UserCreated{User: u, Profile: p}); err != nil {
			a.logger.WarnContext(ctx, "user created subscriber failed",
				logger.Component("login"),
				logger.UserID(u.ID),
				logger.Error(err),
			)
		}
	}
	a.publishLoggedIn(ctx, u, p)
	return u, nil
}

// SetAuthCookies replaces any existing session with one for u.
func (a *Authenticator) SetAuthCookies(w http.ResponseWriter, u *users.User, s settings.Settings) {
	a.sessions.Issue(w, u.ID, s.CookieExpiry())
}

// ClearAuthCookies signs the browser out.
func (a *Authenticator) ClearAuthCookies(w http.ResponseWriter) {
	a.sessions.Clear(w)
}

// CanRegisterWithEmail reports whether the whitelist admits email.
// An empty whitelist admits every address.
func CanRegisterWithEmail(s settings.Settings, email string) bool {
	allowed := s.WhitelistDomains()
	if len(allowed) == 0 {
		return true
	}
	at := strings.LastIndexByte(email, '@')
	if at < 0 || at == len(email)-1 {
		return false
	}
	return slices.Contains(allowed, strings.ToLower(email[at+1:]))
}

// attachPicture is best effort; failures are logged only.
func (a *Authenticator) attachPicture(ctx context.Context, u *users.User, src string) {
	if a.pictures == nil || src == "" {
		return
	}
	url, err := a.pictures.Import(ctx, src, "avatars/"+u.ID.String())
	if err == nil {
		err = a.users.SetAvatar(ctx, u.ID, url)
	}
	if err != nil {
		a.logger.WarnContext(ctx, "could not attach profile picture",
			logger.Component("login"),
			logger.UserID(u.ID),
			logger.Error(err),
		)
		return
	}
	u.AvatarURL = url
}

func (a *Authenticator) publishLoggedIn(ctx context.Context, u *users.User, p *google.Profile) {
	if a.loggedIn == nil {
		return
	}
	if err := a.loggedIn.Publish(ctx, UserLoggedIn{User: u, Profile: p}); err != nil {
		a.logger.WarnContext(ctx, "user logged in subscriber failed",
			logger.Component("login"),
			logger.UserID(u.ID),
			logger.Error(err),
		)
	}
}
