package googlelogin

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/googlelogin/handler"
	"github.com/dmitrymomot/googlelogin/pkg/google"
	"github.com/dmitrymomot/googlelogin/pkg/jwt"
	"github.com/dmitrymomot/googlelogin/pkg/logger"
	"github.com/dmitrymomot/googlelogin/pkg/login"
	"github.com/dmitrymomot/googlelogin/pkg/nonce"
	"github.com/dmitrymomot/googlelogin/pkg/settings"
	"github.com/dmitrymomot/googlelogin/pkg/users"
)

// NonceAction binds login nonces to this flow.
const NonceAction = "google_login"

// Config holds the routing configuration of the flow.
type Config struct {
	// RedirectURL is the absolute callback URL registered with Google.
	RedirectURL string `env:"GOOGLE_LOGIN_REDIRECT_URL,required"`
	// BasePath is the prefix the flow is mounted under.
	BasePath string `env:"GOOGLE_LOGIN_BASE_PATH" envDefault:""`
	// DefaultRedirect is used when a login carries no acceptable redirect_to.
	DefaultRedirect string `env:"GOOGLE_LOGIN_DEFAULT_REDIRECT" envDefault:"/"`
}

// SettingsLoader resolves the settings for one request.
type SettingsLoader interface {
	Load(ctx context.Context) (settings.Settings, error)
}

// Visitors identifies browsers and reads the current session.
type Visitors interface {
	VisitorID(w http.ResponseWriter, r *http.Request) (string, error)
}

// Flow orchestrates the Google login routes.
type Flow struct {
	cfg        Config
	settings   SettingsLoader
	auth       *login.Authenticator
	verifier   *jwt.Verifier
	nonces     *nonce.Manager
	visitors   Visitors
	hooks      *Hooks
	views      Views
	googleOpts []google.Option
	limit      func(http.Handler) http.Handler
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures a Flow.
type Option func(*Flow)

// WithHooks installs host-owned hooks.
func WithHooks(h *Hooks) Option {
	return func(f *Flow) {
		if h != nil {
			f.hooks = h
		}
	}
}

// WithViews replaces the default views. Nil fields keep their defaults.
func WithViews(v Views) Option {
	return func(f *Flow) {
		if v.LoginPage != nil {
			f.views.LoginPage = v.LoginPage
		}
		if v.OneTap != nil {
			f.views.OneTap = v.OneTap
		}
		if v.ErrorPage != nil {
			f.views.ErrorPage = v.ErrorPage
		}
	}
}

// WithGoogleOptions passes extra options to every google.Client the flow builds.
func WithGoogleOptions(opts ...google.Option) Option {
	return func(f *Flow) {
		f.googleOpts = append(f.googleOpts, opts...)
	}
}

// WithRateLimit guards the callback and One Tap endpoints with mw.
func WithRateLimit(mw func(http.Handler) http.Handler) Option {
	return func(f *Flow) {
		f.limit = mw
	}
}

// WithLogger sets the flow logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Flow) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithClock overrides the clock used for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(f *Flow) {
		if now != nil {
			f.now = now
		}
	}
}

// New creates a Flow.
func New(
	cfg Config,
	loader SettingsLoader,
	auth *login.Authenticator,
	verifier *jwt.Verifier,
	nonces *nonce.Manager,
	visitors Visitors,
	opts ...Option,
) *Flow {
	if cfg.DefaultRedirect == "" {
		cfg.DefaultRedirect = "/"
	}
	f := &Flow{
		cfg:      cfg,
		settings: loader,
		auth:     auth,
		verifier: verifier,
		nonces:   nonces,
		visitors: visitors,
		hooks:    NewHooks(),
		views:    DefaultViews(),
		logger:   logger.Discard(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// client builds an unauthenticated Google client from the request settings.
func (f *Flow) client(s settings.Settings) *google.Client {
	opts := append(f.hooks.googleOptions(),
		google.WithNonceIssuer(func(ctx context.Context) string {
			return f.nonces.Create(NonceAction, VisitorFromContext(ctx))
		}),
		google.WithLogger(f.logger),
	)
	opts = append(opts, f.googleOpts...)
	return google.New(google.Config{
		ClientID:     s.ClientID,
		ClientSecret: s.ClientSecret,
		RedirectURL:  f.cfg.RedirectURL,
	}, opts...)
}

// AuthenticateFilter runs the Google step of the authenticate chain.
//
// Requests that are not a valid Google login attempt return current unchanged:
// no code, undecodable state, another provider, a failed nonce, unreadable
// settings or a profile without a verified email. Transport failures return ErrAuthenticationFailed.
// Policy rejections from the authenticator are returned as they are.
func (f *Flow) AuthenticateFilter(ctx context.Context, current *users.User, code, state string) (*users.User, error) {
	if code == "" {
		return current, nil
	}
	s, err := f.settings.Load(ctx)
	if err != nil {
		f.logger.ErrorContext(ctx, "load settings", logger.Component("googlelogin"), logger.Error(err))
		return current, nil
	}
	return f.authenticate(ctx, s, current, code, state)
}

func (f *Flow) authenticate(ctx context.Context, s settings.Settings, current *users.User, code, rawState string) (*users.User, error) {
	if code == "" {
		return current, nil
	}
	if _, ok := f.checkState(ctx, rawState); !ok {
		return current, nil
	}
	if !s.Configured() {
		return current, nil
	}

	ac, err := f.client(s).SetAccessToken(ctx, code)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	profile, err := ac.User(ctx)
	if err != nil {
		f.logger.WarnContext(ctx, "profile fetch failed",
			logger.Component("googlelogin"),
			logger.Provider(google.ProviderName),
			logger.Error(err),
		)
		return nil, ErrAuthenticationFailed
	}
	if !profile.HasEmail() {
		return current, nil
	}

	return f.login(ctx, s, profile)
}

// checkState decodes raw and verifies it belongs to a Google login started by
// this visitor.
func (f *Flow) checkState(ctx context.Context, raw string) (google.State, bool) {
	st, err := google.DecodeState(raw)
	if err != nil || st.Provider != google.ProviderName {
		return google.State{}, false
	}
	if !f.nonces.Verify(st.Nonce, NonceAction, VisitorFromContext(ctx)) {
		f.logger.InfoContext(ctx, "state nonce rejected",
			logger.Component("googlelogin"),
			logger.Provider(google.ProviderName),
		)
		return google.State{}, false
	}
	return st, true
}

func (f *Flow) login(ctx context.Context, s settings.Settings, p *google.Profile) (*users.User, error) {
	u, err := f.auth.Authenticate(ctx, s, p)
	switch {
	case err == nil:
		return u, nil
	case login.IsPolicyRejection(err):
		return nil, err
	default:
		f.logger.ErrorContext(ctx, "authenticate",
			logger.Component("googlelogin"),
			logger.Error(err),
		)
		return nil, ErrAuthenticationFailed
	}
}

// loginWithToken verifies a One Tap credential and signs its owner in.
func (f *Flow) loginWithToken(ctx context.Context, s settings.Settings, token string) (*users.User, error) {
	claims, err := f.verifier.Verify(ctx, token)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	if err := jwt.ValidateClaims(claims, s.ClientID, f.now()); err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	profile := google.ProfileFromClaims(claims)
	if !profile.HasEmail() {
		return nil, login.ErrNoEmail
	}
	return f.login(ctx, s, profile)
}

// redirectTarget returns the post-login destination for state.
func (f *Flow) redirectTarget(ctx context.Context, r *http.Request, st google.State) string {
	target := f.hooks.LoginRedirect.Apply(ctx, st.RedirectTo)
	return handler.SafeRedirectTarget(target, r.Host, f.cfg.DefaultRedirect)
}

// OneTapComponent renders the One Tap prompt for pages outside the flow.
// It renders nothing unless One Tap is enabled site-wide and the request went
// through the Visitor middleware.
func (f *Flow) OneTapComponent() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if VisitorFromContext(ctx) == "" {
			return nil
		}
		s, err := f.settings.Load(ctx)
		if err != nil {
			f.logger.WarnContext(ctx, "load settings", logger.Component("googlelogin"), logger.Error(err))
			return nil
		}
		if !s.Configured() || !s.OneTapLogin || s.OneTapScope != settings.OneTapSitewide {
			return nil
		}
		params, err := f.oneTapParams(ctx, s, "")
		if err != nil {
			return err
		}
		return f.views.OneTap(params).Render(ctx, w)
	})
}

func (f *Flow) oneTapParams(ctx context.Context, s settings.Settings, redirectTo string) (OneTapParams, error) {
	state, err := f.client(s).State(ctx, redirectTo)
	if err != nil {
		return OneTapParams{}, err
	}
	return OneTapParams{
		ClientID: s.ClientID,
		Endpoint: f.path("/one-tap"),
		State:    state,
	}, nil
}

func (f *Flow) path(p string) string {
	return f.cfg.BasePath + p
}
