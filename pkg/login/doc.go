// Package login turns a verified Google profile into a signed-in local user.
//
// Authenticator looks the profile's email up in the user store. Known users
// are signed in; unknown ones are registered when the settings allow it.
// Every error it returns is one of two kinds:
//
//   - *PolicyRejection: the configuration refuses the login (registration
//     disabled, domain not whitelisted). These are meant to be shown to the
//     visitor.
//   - *TransportFailure: a store or network call failed. These are logged
//     and reported generically.
//
// Use IsPolicyRejection to tell them apart.
package login
