package googlelogin

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/googlelogin/handler"
	"github.com/dmitrymomot/googlelogin/pkg/binder"
	"github.com/dmitrymomot/googlelogin/pkg/google"
	"github.com/dmitrymomot/googlelogin/pkg/logger"
	"github.com/dmitrymomot/googlelogin/pkg/login"
)

// Handle returns the flow's routes. Requests are expected to pass through the
// Visitor middleware; Handle installs it when the caller has not.
func (f *Flow) Handle() http.Handler {
	r := chi.NewRouter()
	r.Use(f.Visitor)

	errorHandler := handler.NewErrorHandler(f.logger, f.views.ErrorPage)

	limited := r.With()
	if f.limit != nil {
		limited = r.With(f.limit)
	}

	r.Get("/login", handler.Wrap(f.loginPage,
		handler.WithBinders[handler.Context, LoginPageRequest](binder.Query()),
		handler.WithErrorHandler[handler.Context, LoginPageRequest](errorHandler),
	))
	r.Get("/login/google", handler.Wrap(f.redirectToGoogle,
		handler.WithBinders[handler.Context, LoginPageRequest](binder.Query()),
		handler.WithErrorHandler[handler.Context, LoginPageRequest](errorHandler),
	))
	limited.Get("/callback", handler.Wrap(f.callback,
		handler.WithBinders[handler.Context, CallbackRequest](binder.Query()),
		handler.WithErrorHandler[handler.Context, CallbackRequest](errorHandler),
	))
	limited.Post("/one-tap", handler.Wrap(f.oneTap,
		handler.WithBinders[handler.Context, OneTapRequest](binder.Form()),
		handler.WithErrorHandler[handler.Context, OneTapRequest](oneTapErrorHandler),
	))
	r.Post("/logout", handler.Wrap(f.logout,
		handler.WithErrorHandler[handler.Context, struct{}](errorHandler),
	))

	return r
}

// LoginPageRequest is bound from the login page query.
type LoginPageRequest struct {
	RedirectTo string `query:"redirect_to"`
	Error      string `query:"error"`
}

func (f *Flow) loginPage(ctx handler.Context, req LoginPageRequest) handler.Response {
	s, err := f.settings.Load(ctx)
	if err != nil {
		return f.failPage(ctx, err)
	}

	params := LoginPageParams{
		Configured: s.Configured(),
		ButtonURL:  f.path("/login/google"),
		Error:      Message(req.Error),
	}
	if req.RedirectTo != "" {
		params.ButtonURL += "?" + url.Values{"redirect_to": {req.RedirectTo}}.Encode()
	}
	if s.Configured() && s.OneTapLogin {
		oneTap, err := f.oneTapParams(ctx, s, req.RedirectTo)
		if err != nil {
			return f.failPage(ctx, err)
		}
		params.OneTap = &oneTap
	}
	return handler.Templ(f.views.LoginPage(params))
}

func (f *Flow) redirectToGoogle(ctx handler.Context, req LoginPageRequest) handler.Response {
	s, err := f.settings.Load(ctx)
	if err != nil {
		return f.failPage(ctx, err)
	}
	if !s.Configured() {
		return handler.Redirect(f.loginURL(CodeNotConfigured))
	}

	client := f.client(s)
	state, err := client.State(ctx, req.RedirectTo)
	if err != nil {
		return f.failPage(ctx, err)
	}
	return handler.RedirectWithStatus(client.AuthorizationURL(ctx, state), http.StatusFound)
}

// CallbackRequest is bound from the OAuth redirect query.
type CallbackRequest struct {
	Code  string `query:"code"`
	State string `query:"state"`
	Error string `query:"error"`
}

func (f *Flow) callback(ctx handler.Context, req CallbackRequest) handler.Response {
	if req.Error != "" {
		f.logger.InfoContext(ctx, "google returned an error",
			logger.Component("googlelogin"),
			logger.Provider(google.ProviderName),
			logger.Event(req.Error),
		)
		return handler.Redirect(f.loginURL(CodeAccessDenied))
	}

	s, err := f.settings.Load(ctx)
	if err != nil {
		return f.failPage(ctx, err)
	}

	u, err := f.authenticate(ctx, s, nil, req.Code, req.State)
	if err != nil {
		return handler.Redirect(f.loginURL(errorCode(err)))
	}
	if u == nil {
		return handler.Redirect(f.loginURL(CodeInvalidRequest))
	}

	f.auth.SetAuthCookies(ctx.ResponseWriter(), u, s)
	st, _ := google.DecodeState(req.State)
	return handler.Redirect(f.redirectTarget(ctx, ctx.Request(), st))
}

// OneTapRequest is the form posted by the One Tap callback.
type OneTapRequest struct {
	Token string `form:"token"`
	State string `form:"state"`
}

// OneTapResult is the data of a successful One Tap response.
type OneTapResult struct {
	Redirect string `json:"redirect"`
}

func (f *Flow) oneTap(ctx handler.Context, req OneTapRequest) handler.Response {
	if req.Token == "" {
		return oneTapFailure(ErrInvalidRequest, http.StatusBadRequest)
	}

	s, err := f.settings.Load(ctx)
	if err != nil {
		f.logger.ErrorContext(ctx, "load settings", logger.Component("googlelogin"), logger.Error(err))
		return oneTapFailure(ErrAuthenticationFailed, http.StatusInternalServerError)
	}
	if !s.Configured() {
		return oneTapFailure(ErrNotConfigured, http.StatusServiceUnavailable)
	}
	if !s.OneTapLogin {
		return oneTapFailure(ErrOneTapDisabled, http.StatusForbidden)
	}

	st, ok := f.checkState(ctx, req.State)
	if !ok {
		return oneTapFailure(ErrInvalidRequest, http.StatusForbidden)
	}

	u, err := f.loginWithToken(ctx, s, req.Token)
	switch {
	case err == nil:
	case login.IsPolicyRejection(err), errors.Is(err, login.ErrNoEmail):
		return oneTapFailure(err, http.StatusForbidden)
	case errors.Is(err, ErrInvalidToken):
		f.logger.InfoContext(ctx, "one tap token rejected",
			logger.Component("googlelogin"),
			logger.Error(err),
		)
		return oneTapFailure(ErrInvalidToken, http.StatusUnauthorized)
	default:
		return oneTapFailure(ErrAuthenticationFailed, http.StatusInternalServerError)
	}

	f.auth.SetAuthCookies(ctx.ResponseWriter(), u, s)
	return handler.Success(OneTapResult{Redirect: f.redirectTarget(ctx, ctx.Request(), st)})
}

func (f *Flow) logout(ctx handler.Context, _ struct{}) handler.Response {
	f.auth.ClearAuthCookies(ctx.ResponseWriter())
	return handler.Redirect(f.path("/login"))
}

func (f *Flow) loginURL(code string) string {
	return f.path("/login") + "?" + url.Values{"error": {code}}.Encode()
}

func (f *Flow) failPage(ctx handler.Context, err error) handler.Response {
	f.logger.ErrorContext(ctx, "login page failed",
		logger.Component("googlelogin"),
		logger.Error(err),
	)
	return handler.TemplStatus(
		f.views.ErrorPage(handler.ErrorPageParams{
			StatusCode: http.StatusInternalServerError,
			Message:    Message(CodeAuthenticationFailed),
		}),
		http.StatusInternalServerError,
	)
}

// oneTapFailure writes a JSON failure whose data is the user-facing message for err.
func oneTapFailure(err error, status int) handler.Response {
	return handler.Failure(handler.NewHTTPError(status, Message(errorCode(err))))
}

func oneTapErrorHandler(ctx handler.Context, err error) {
	_ = oneTapFailure(ErrInvalidRequest, http.StatusBadRequest).Render(ctx.ResponseWriter(), ctx.Request())
}
