package email

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/googlelogin/pkg/users"
)

// TagNewUser tags administrator notifications about new accounts.
const TagNewUser = "new-user"

// NewUserNotifier tells the administrator about accounts created through Google.
type NewUserNotifier struct {
	sender   Sender
	to       string
	siteName string
	body     BodyFunc
}

// BodyFunc renders the notification body for a new user.
type BodyFunc func(siteName string, u *users.User) templ.Component

// NotifierOption configures a NewUserNotifier.
type NotifierOption func(*NewUserNotifier)

// WithBody replaces the default notification body.
func WithBody(fn BodyFunc) NotifierOption {
	return func(n *NewUserNotifier) {
		if fn != nil {
			n.body = fn
		}
	}
}

// NewNewUserNotifier creates a notifier. An empty recipient disables it.
func NewNewUserNotifier(sender Sender, to, siteName string, opts ...NotifierOption) *NewUserNotifier {
	n := &NewUserNotifier{sender: sender, to: to, siteName: siteName, body: newUserBody}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify sends the notification for u.
func (n *NewUserNotifier) Notify(ctx context.Context, u *users.User) error {
	if n == nil || n.sender == nil || n.to == "" || u == nil {
		return nil
	}
	body, err := Render(ctx, n.body(n.siteName, u))
	if err != nil {
		return fmt.Errorf("render new user email: %w", err)
	}
	return n.sender.Send(ctx, Message{
		To:       n.to,
		Subject:  fmt.Sprintf("[%s] New user registration", n.siteName),
		HTMLBody: body,
		Tag:      TagNewUser,
	})
}

// Render renders a component to a string.
func Render(ctx context.Context, c templ.Component) (string, error) {
	var sb strings.Builder
	if err := c.Render(ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// newUserBody is the placeholder body used unless WithBody supplies one.
func newUserBody(siteName string, u *users.User) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<p>New user registration on %s via Google:</p><p>Username: %s</p><p>Email: %s</p>`,
			templ.EscapeString(siteName),
			templ.EscapeString(u.Username),
			templ.EscapeString(u.Email),
		)
		return err
	})
}
