// Package google talks to Google's OAuth 2.0 endpoints on behalf of the login
// flow.
//
// The package splits the client into two capabilities. A Client knows the
// application credentials and can build authorization URLs, issue state
// parameters and exchange an authorization code. Exchanging a code yields an
// AuthenticatedClient, the only type able to fetch the user's profile:
//
//	c := google.New(google.Config{
//		ClientID:     settings.ClientID,
//		ClientSecret: settings.ClientSecret,
//		RedirectURL:  "https://example.com/auth/google/callback",
//	}, google.WithNonceIssuer(issue))
//
//	state, err := c.State(ctx, "/dashboard")
//	http.Redirect(w, r, c.AuthorizationURL(ctx, state), http.StatusFound)
//
//	// in the callback handler
//	ac, err := c.SetAccessToken(ctx, r.URL.Query().Get("code"))
//	profile, err := ac.User(ctx)
//
// Outgoing scopes, authorization parameters and state can be adjusted through
// events.Filter hooks passed with WithScopesFilter, WithAuthParamsFilter and
// WithStateFilter.
package google
