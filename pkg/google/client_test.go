package google_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/dmitrymomot/googlelogin/pkg/events"
	"github.com/dmitrymomot/googlelogin/pkg/google"
)

type googleServer struct {
	*httptest.Server

	mu          sync.Mutex
	tokenForm   url.Values
	tokenStatus int
	userStatus  int
	authHeader  string
}

func newGoogleServer(t *testing.T) *googleServer {
	t.Helper()

	gs := &googleServer{tokenStatus: http.StatusOK, userStatus: http.StatusOK}
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		gs.mu.Lock()
		gs.tokenForm = r.PostForm
		status := gs.tokenStatus
		gs.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status >= http.StatusMultipleChoices {
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"access-123","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		gs.mu.Lock()
		gs.authHeader = r.Header.Get("Authorization")
		status := gs.userStatus
		gs.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":             "1234567890",
			"email":          "jane@example.com",
			"verified_email": true,
			"name":           "Jane Doe",
			"given_name":     "Jane",
			"family_name":    "Doe",
			"picture":        "https://lh3.example.com/photo.jpg",
		})
	})
	gs.Server = httptest.NewServer(mux)
	t.Cleanup(gs.Close)
	return gs
}

func (gs *googleServer) client(opts ...google.Option) *google.Client {
	base := []google.Option{
		google.WithEndpoint(oauth2.Endpoint{
			AuthURL:  gs.URL + "/auth",
			TokenURL: gs.URL + "/token",
		}),
		google.WithUserInfoURL(gs.URL + "/userinfo"),
		google.WithHTTPClient(gs.Client()),
	}
	return google.New(google.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "https://example.com/callback",
	}, append(base, opts...)...)
}

func TestAuthorizationURL(t *testing.T) {
	t.Parallel()

	t.Run("default parameters", func(t *testing.T) {
		t.Parallel()

		c := google.New(google.Config{
			ClientID:    "client-id",
			RedirectURL: "https://example.com/callback",
		})
		raw := c.AuthorizationURL(context.Background(), "state-xyz")

		u, err := url.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, "accounts.google.com", u.Host)

		q := u.Query()
		assert.Equal(t, "client-id", q.Get("client_id"))
		assert.Equal(t, "https://example.com/callback", q.Get("redirect_uri"))
		assert.Equal(t, "state-xyz", q.Get("state"))
		assert.Equal(t, "email profile openid", q.Get("scope"))
		assert.Equal(t, "online", q.Get("access_type"))
		assert.Equal(t, "code", q.Get("response_type"))
	})

	t.Run("filters extend scopes and parameters", func(t *testing.T) {
		t.Parallel()

		scopes := events.NewFilter[[]string]()
		scopes.Add(events.DefaultPriority, func(_ context.Context, s []string) []string {
			return append(s, "https://www.googleapis.com/auth/calendar.readonly")
		})
		params := events.NewFilter[map[string]string]()
		params.Add(events.DefaultPriority, func(_ context.Context, p map[string]string) map[string]string {
			p["prompt"] = "select_account"
			p["access_type"] = "offline"
			return p
		})

		c := google.New(google.Config{ClientID: "client-id"},
			google.WithScopesFilter(scopes),
			google.WithAuthParamsFilter(params),
		)
		u, err := url.Parse(c.AuthorizationURL(context.Background(), "s"))
		require.NoError(t, err)

		q := u.Query()
		assert.Equal(t, "email profile openid https://www.googleapis.com/auth/calendar.readonly", q.Get("scope"))
		assert.Equal(t, "select_account", q.Get("prompt"))
		assert.Equal(t, "offline", q.Get("access_type"))
	})

	t.Run("scope filter does not mutate configured scopes", func(t *testing.T) {
		t.Parallel()

		scopes := events.NewFilter[[]string]()
		scopes.Add(events.DefaultPriority, func(_ context.Context, s []string) []string {
			return append(s, "extra")
		})
		c := google.New(google.Config{ClientID: "client-id"}, google.WithScopesFilter(scopes))

		first, _ := url.Parse(c.AuthorizationURL(context.Background(), "s"))
		second, _ := url.Parse(c.AuthorizationURL(context.Background(), "s"))
		assert.Equal(t, first.Query().Get("scope"), second.Query().Get("scope"))
		assert.Equal(t, []string{"email", "profile", "openid"}, google.DefaultScopes)
	})
}

func TestClientState(t *testing.T) {
	t.Parallel()

	t.Run("carries nonce and redirect", func(t *testing.T) {
		t.Parallel()

		c := google.New(google.Config{}, google.WithNonceIssuer(func(context.Context) string {
			return "nonce-1"
		}))
		raw, err := c.State(context.Background(), "/dashboard")
		require.NoError(t, err)

		s, err := google.DecodeState(raw)
		require.NoError(t, err)
		assert.Equal(t, google.State{Nonce: "nonce-1", Provider: "google", RedirectTo: "/dashboard"}, s)
	})

	t.Run("filters cannot change provider", func(t *testing.T) {
		t.Parallel()

		f := events.NewFilter[google.State]()
		f.Add(events.DefaultPriority, func(_ context.Context, s google.State) google.State {
			s.Provider = "github"
			s.RedirectTo = "/welcome"
			return s
		})
		c := google.New(google.Config{}, google.WithStateFilter(f))

		raw, err := c.State(context.Background(), "/dashboard")
		require.NoError(t, err)

		s, err := google.DecodeState(raw)
		require.NoError(t, err)
		assert.Equal(t, "google", s.Provider)
		assert.Equal(t, "/welcome", s.RedirectTo)
	})
}

func TestSetAccessToken(t *testing.T) {
	t.Parallel()

	t.Run("exchanges code with credentials in form", func(t *testing.T) {
		t.Parallel()

		gs := newGoogleServer(t)
		ac, err := gs.client().SetAccessToken(context.Background(), "auth-code")
		require.NoError(t, err)
		require.NotNil(t, ac)
		assert.Equal(t, "access-123", ac.AccessToken())

		gs.mu.Lock()
		form := gs.tokenForm
		gs.mu.Unlock()
		assert.Equal(t, "client-id", form.Get("client_id"))
		assert.Equal(t, "client-secret", form.Get("client_secret"))
		assert.Equal(t, "https://example.com/callback", form.Get("redirect_uri"))
		assert.Equal(t, "auth-code", form.Get("code"))
		assert.Equal(t, "authorization_code", form.Get("grant_type"))
	})

	t.Run("non-success response", func(t *testing.T) {
		t.Parallel()

		gs := newGoogleServer(t)
		gs.mu.Lock()
		gs.tokenStatus = http.StatusBadRequest
		gs.mu.Unlock()

		ac, err := gs.client().SetAccessToken(context.Background(), "bad-code")
		assert.ErrorIs(t, err, google.ErrTokenExchange)
		assert.Nil(t, ac)
	})

	t.Run("success status other than 200", func(t *testing.T) {
		t.Parallel()

		gs := newGoogleServer(t)
		gs.mu.Lock()
		gs.tokenStatus = http.StatusCreated
		gs.mu.Unlock()

		ac, err := gs.client().SetAccessToken(context.Background(), "auth-code")
		assert.ErrorIs(t, err, google.ErrTokenExchange)
		assert.Nil(t, ac)
	})

	t.Run("empty code", func(t *testing.T) {
		t.Parallel()

		ac, err := google.New(google.Config{}).SetAccessToken(context.Background(), "")
		assert.ErrorIs(t, err, google.ErrTokenExchange)
		assert.Nil(t, ac)
	})
}

func TestAuthenticatedClientUser(t *testing.T) {
	t.Parallel()

	t.Run("fetches profile with bearer token", func(t *testing.T) {
		t.Parallel()

		gs := newGoogleServer(t)
		ac, err := gs.client().SetAccessToken(context.Background(), "auth-code")
		require.NoError(t, err)

		p, err := ac.User(context.Background())
		require.NoError(t, err)
		assert.Equal(t, &google.Profile{
			SubjectID:     "1234567890",
			Email:         "jane@example.com",
			EmailVerified: true,
			DisplayName:   "Jane Doe",
			GivenName:     "Jane",
			FamilyName:    "Doe",
			PictureURL:    "https://lh3.example.com/photo.jpg",
		}, p)
		assert.True(t, p.HasEmail())

		gs.mu.Lock()
		defer gs.mu.Unlock()
		assert.Equal(t, "Bearer access-123", gs.authHeader)
	})

	t.Run("non-200 profile response", func(t *testing.T) {
		t.Parallel()

		gs := newGoogleServer(t)
		gs.mu.Lock()
		gs.userStatus = http.StatusUnauthorized
		gs.mu.Unlock()

		ac, err := gs.client().SetAccessToken(context.Background(), "auth-code")
		require.NoError(t, err)

		p, err := ac.User(context.Background())
		assert.ErrorIs(t, err, google.ErrProfileFetch)
		assert.Nil(t, p)
	})

	t.Run("zero value has no token", func(t *testing.T) {
		t.Parallel()

		var ac google.AuthenticatedClient
		p, err := ac.User(context.Background())
		require.ErrorIs(t, err, google.ErrPrecondition)
		assert.True(t, strings.Contains(err.Error(), "access token must be set"))
		assert.Nil(t, p)
	})
}
