// Package cookie issues HMAC-signed cookies and the auth cookies of a
// signed-in user.
//
// Manager signs values with the first configured secret and accepts any of
// them on read, so secrets can be rotated by prepending a new one.
//
// Auth builds on Manager. Issue first expires every auth cookie the browser
// may hold and then writes fresh ones, so switching identities never leaves
// the previous session behind:
//
//	auth := cookie.NewAuth(manager)
//	auth.Issue(w, user.ID, settings.CookieExpiry())
//
//	id, err := auth.UserID(r)
//
// VisitorID hands out a stable random id per browser that binds anti-forgery
// nonces to the visitor before they are signed in.
package cookie
