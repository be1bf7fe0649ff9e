// Package email sends transactional mail for the login flow.
//
// Two senders implement Sender: PostmarkSender delivers through the Postmark
// API and DevSender writes each message to a directory as an HTML file plus a
// JSON metadata file, for local development.
//
// NewUserNotifier renders the "new user registered" message sent to the site
// administrator after a Google account creates a local user:
//
//	notifier := email.NewNewUserNotifier(sender, cfg.AdminEmail, "Example")
//	created.Subscribe(func(ctx context.Context, e login.UserCreated) error {
//		return notifier.Notify(ctx, e.User)
//	})
package email
