// Package googlelogin wires the Google sign-in flow into an HTTP application.
//
// A Flow owns the login routes:
//
//	GET  /login          login page with the Google button and, when enabled, One Tap
//	GET  /login/google   redirect to the Google consent screen
//	GET  /callback       OAuth redirect target
//	POST /one-tap        One Tap credential endpoint, JSON {success, data}
//	POST /logout         sign out
//
// Mount it on a chi router:
//
//	hooks := googlelogin.NewHooks()
//	auth := login.NewAuthenticator(userStore, cookieAuth, hooks.LoginOptions()...)
//	flow := googlelogin.New(cfg, resolver, auth, verifier, nonces, cookieAuth,
//		googlelogin.WithHooks(hooks),
//	)
//	r.Use(flow.Visitor)
//	r.Mount("/", flow.Handle())
//
// The callback path runs AuthenticateFilter, which lets every request that is
// not a well-formed Google login attempt pass through untouched.
package googlelogin
