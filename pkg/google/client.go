package google

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/dmitrymomot/googlelogin/pkg/events"
	"github.com/dmitrymomot/googlelogin/pkg/logger"
)

const (
	// ProviderName is the provider value carried in the state parameter.
	ProviderName = "google"

	// UserInfoURL is the v2 userinfo endpoint.
	UserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// DefaultScopes are requested unless Config.Scopes overrides them.
var DefaultScopes = []string{"email", "profile", "openid"}

// Config holds the OAuth application credentials.
type Config struct {
	ClientID     string   `env:"GOOGLE_LOGIN_CLIENT_ID"`
	ClientSecret string   `env:"GOOGLE_LOGIN_CLIENT_SECRET"`
	RedirectURL  string   `env:"GOOGLE_LOGIN_REDIRECT_URL"`
	Scopes       []string `env:"GOOGLE_LOGIN_SCOPES" envSeparator:" "`
}

// NonceIssuer returns a fresh anti-forgery nonce for the current visitor.
type NonceIssuer func(ctx context.Context) string

// Client is the unauthenticated Google client.
type Client struct {
	conf         *oauth2.Config
	httpClient   *http.Client
	userInfoURL  string
	nonce        NonceIssuer
	scopesFilter *events.Filter[[]string]
	paramsFilter *events.Filter[map[string]string]
	stateFilter  *events.Filter[State]
	logger       *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithNonceIssuer sets the nonce source used by State.
func WithNonceIssuer(fn NonceIssuer) Option {
	return func(c *Client) {
		c.nonce = fn
	}
}

// WithEndpoint replaces the OAuth endpoints. Credentials are always sent as
// form parameters.
func WithEndpoint(e oauth2.Endpoint) Option {
	return func(c *Client) {
		e.AuthStyle = oauth2.AuthStyleInParams
		c.conf.Endpoint = e
	}
}

// WithUserInfoURL replaces the userinfo endpoint.
func WithUserInfoURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.userInfoURL = u
		}
	}
}

// WithHTTPClient sets the HTTP client used for the token exchange and profile fetch.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithScopesFilter lets callers adjust the requested scopes.
func WithScopesFilter(f *events.Filter[[]string]) Option {
	return func(c *Client) {
		c.scopesFilter = f
	}
}

// WithAuthParamsFilter lets callers add or override authorization URL parameters.
func WithAuthParamsFilter(f *events.Filter[map[string]string]) Option {
	return func(c *Client) {
		c.paramsFilter = f
	}
}

// WithStateFilter lets callers adjust the state before it is encoded.
// The provider field is always reset afterwards.
func WithStateFilter(f *events.Filter[State]) Option {
	return func(c *Client) {
		c.stateFilter = f
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Client.
func New(cfg Config, opts ...Option) *Client {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}

	endpoint := google.Endpoint
	endpoint.AuthStyle = oauth2.AuthStyleInParams

	c := &Client{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       append([]string(nil), scopes...),
			Endpoint:     endpoint,
		},
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		userInfoURL: UserInfoURL,
		logger:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AuthorizationURL builds the URL that sends the browser to Google's consent screen.
func (c *Client) AuthorizationURL(ctx context.Context, state string) string {
	scopes := c.scopesFilter.Apply(ctx, append([]string(nil), c.conf.Scopes...))

	params := map[string]string{
		"client_id":     c.conf.ClientID,
		"redirect_uri":  c.conf.RedirectURL,
		"response_type": "code",
		"scope":         strings.Join(scopes, " "),
		"state":         state,
		"access_type":   "online",
	}
	params = c.paramsFilter.Apply(ctx, params)

	opts := make([]oauth2.AuthCodeOption, 0, len(params))
	for k, v := range params {
		opts = append(opts, oauth2.SetAuthURLParam(k, v))
	}
	return c.conf.AuthCodeURL(state, opts...)
}

// State builds and encodes the state parameter for a new login attempt.
func (c *Client) State(ctx context.Context, redirectTo string) (string, error) {
	s := State{RedirectTo: redirectTo}
	if c.nonce != nil {
		s.Nonce = c.nonce(ctx)
	}
	s = c.stateFilter.Apply(ctx, s)
	s.Provider = ProviderName
	return s.Encode()
}

// SetAccessToken exchanges an authorization code for an access token.
// No client is returned unless the exchange succeeds.
func (c *Client) SetAccessToken(ctx context.Context, code string) (*AuthenticatedClient, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: empty code", ErrTokenExchange)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.exchangeClient())
	tok, err := c.conf.Exchange(ctx, code)
	if err != nil {
		c.logger.WarnContext(ctx, "token exchange failed",
			logger.Component("google"),
			logger.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", ErrTokenExchange, err)
	}

	return &AuthenticatedClient{
		token:       tok,
		httpClient:  c.httpClient,
		userInfoURL: c.userInfoURL,
	}, nil
}

// exchangeClient copies the HTTP client with a transport that rejects any
// token endpoint status other than 200. x/oauth2 alone accepts every 2xx.
func (c *Client) exchangeClient() *http.Client {
	hc := *c.httpClient
	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	hc.Transport = statusOKTransport{base: base}
	return &hc
}

type statusOKTransport struct {
	base http.RoundTripper
}

func (t statusOKTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}
	return resp, nil
}

// AuthenticatedClient holds an access token and can fetch the user profile.
// The zero value has no token and every call fails with ErrPrecondition.
type AuthenticatedClient struct {
	token       *oauth2.Token
	httpClient  *http.Client
	userInfoURL string
}

// AccessToken returns the raw access token.
func (a *AuthenticatedClient) AccessToken() string {
	if a == nil || a.token == nil {
		return ""
	}
	return a.token.AccessToken
}

// User fetches the profile of the token owner.
func (a *AuthenticatedClient) User(ctx context.Context) (*Profile, error) {
	if a.AccessToken() == "" {
		return nil, ErrPrecondition
	}

	endpoint := a.userInfoURL
	if endpoint == "" {
		endpoint = UserInfoURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProfileFetch, err)
	}
	req.Header.Set("Accept", "application/json")
	a.token.SetAuthHeader(req)

	hc := a.httpClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProfileFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrProfileFetch, resp.StatusCode)
	}

	var u userInfo
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProfileFetch, err)
	}
	return u.profile(), nil
}
