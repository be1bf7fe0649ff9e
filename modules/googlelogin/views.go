package googlelogin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/googlelogin/handler"
)

// GSIClientURL is Google's Identity Services script.
const GSIClientURL = "https://accounts.google.com/gsi/client"

// LoginPageParams is passed to the login page view.
type LoginPageParams struct {
	Configured bool
	ButtonURL  string
	Error      string
	OneTap     *OneTapParams
}

// OneTapParams is passed to the One Tap view.
type OneTapParams struct {
	ClientID string
	Endpoint string
	State    string
}

// Views are the templ components rendered by the flow.
type Views struct {
	LoginPage func(LoginPageParams) templ.Component
	OneTap    func(OneTapParams) templ.Component
	ErrorPage func(handler.ErrorPageParams) templ.Component
}

// DefaultViews returns minimal unstyled placeholder views. Hosts replace them
// with their own templ components through WithViews.
func DefaultViews() Views {
	return Views{
		LoginPage: LoginPage,
		OneTap:    OneTap,
		ErrorPage: ErrorPage,
	}
}

// LoginPage renders the sign-in page.
func LoginPage(p LoginPageParams) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := writeHead(w, "Sign in"); err != nil {
			return err
		}
		if p.Error != "" {
			if _, err := fmt.Fprintf(w, `<p class="login-error" role="alert">%s</p>`, templ.EscapeString(p.Error)); err != nil {
				return err
			}
		}
		if p.Configured {
			if err := LoginButton(p.ButtonURL).Render(ctx, w); err != nil {
				return err
			}
		} else {
			if _, err := io.WriteString(w, `<p class="login-unavailable">Google login is not configured.</p>`); err != nil {
				return err
			}
		}
		if p.OneTap != nil {
			if err := OneTap(*p.OneTap).Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</main></body></html>")
		return err
	})
}

// LoginButton renders the "Login with Google" link.
func LoginButton(href string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<a class="google-login-button" href="%s">Login with Google</a>`, templ.EscapeString(href))
		return err
	})
}

// OneTap renders the Google Identity Services markup and the callback that
// posts the credential to the flow.
func OneTap(p OneTapParams) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		endpoint, err := json.Marshal(p.Endpoint)
		if err != nil {
			return err
		}
		state, err := json.Marshal(p.State)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, `<script src="%s" async defer></script>
<div id="g_id_onload" data-client_id="%s" data-callback="googleLoginOneTap" data-auto_prompt="true" data-itp_support="true"></div>
<script>
function googleLoginOneTap(response) {
  var body = new URLSearchParams({token: response.credential, state: %s});
  fetch(%s, {method: "POST", credentials: "same-origin", body: body})
    .then(function (res) { return res.json(); })
    .then(function (res) {
      if (res.success) { window.location.assign(res.data.redirect); return; }
      console.warn("Google login:", res.data);
    });
}
</script>`,
			GSIClientURL,
			templ.EscapeString(p.ClientID),
			state,
			endpoint,
		)
		return err
	})
}

// ErrorPage renders a bare error page.
func ErrorPage(p handler.ErrorPageParams) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if err := writeHead(w, strconv.Itoa(p.StatusCode)); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, `<p>%s</p></main></body></html>`, templ.EscapeString(p.Message))
		return err
	})
}

func writeHead(w io.Writer, title string) error {
	_, err := fmt.Fprintf(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>%s</title></head><body><main>`, templ.EscapeString(title))
	return err
}
