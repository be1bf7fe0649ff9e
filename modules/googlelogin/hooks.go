package googlelogin

import (
	"github.com/dmitrymomot/googlelogin/pkg/events"
	"github.com/dmitrymomot/googlelogin/pkg/google"
	"github.com/dmitrymomot/googlelogin/pkg/login"
)

// Hooks are the extension points of the login flow.
// The host owns them; nothing here is global.
type Hooks struct {
	// Scopes filters the OAuth scopes before the authorization URL is built.
	Scopes *events.Filter[[]string]
	// AuthParams filters the full authorization query.
	AuthParams *events.Filter[map[string]string]
	// State filters the state payload; the provider is fixed afterwards.
	State *events.Filter[google.State]
	// LoginRedirect filters the post-login destination before it is checked
	// against the request host.
	LoginRedirect *events.Filter[string]

	UserLoggedIn *events.Dispatcher[login.UserLoggedIn]
	UserCreated  *events.Dispatcher[login.UserCreated]
}

// NewHooks returns Hooks with empty filters and dispatchers.
func NewHooks() *Hooks {
	return &Hooks{
		Scopes:        events.NewFilter[[]string](),
		AuthParams:    events.NewFilter[map[string]string](),
		State:         events.NewFilter[google.State](),
		LoginRedirect: events.NewFilter[string](),
		UserLoggedIn:  events.NewDispatcher[login.UserLoggedIn](),
		UserCreated:   events.NewDispatcher[login.UserCreated](),
	}
}

// LoginOptions connects the dispatchers to a login.Authenticator.
func (h *Hooks) LoginOptions() []login.Option {
	return []login.Option{
		login.WithUserLoggedIn(h.UserLoggedIn),
		login.WithUserCreated(h.UserCreated),
	}
}

func (h *Hooks) googleOptions() []google.Option {
	return []google.Option{
		google.WithScopesFilter(h.Scopes),
		google.WithAuthParamsFilter(h.AuthParams),
		google.WithStateFilter(h.State),
	}
}
