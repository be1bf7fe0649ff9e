package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/googlelogin/handler"
	"github.com/dmitrymomot/googlelogin/pkg/binder"
)

type tokenRequest struct {
	Token string `form:"token"`
	State string `form:"state" query:"state"`
}

func TestWrap(t *testing.T) {
	t.Parallel()

	t.Run("binds query and form", func(t *testing.T) {
		t.Parallel()
		h := handler.Wrap(func(_ handler.Context, req tokenRequest) handler.Response {
			return handler.Success(map[string]string{"token": req.Token, "state": req.State})
		}, handler.WithBinders[handler.Context, tokenRequest](binder.Query(), binder.Form()))

		r := httptest.NewRequest(http.MethodPost, "/?state=from-query", strings.NewReader("token=jwt"))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		h(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		var body handler.Envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.Equal(t, map[string]any{"token": "jwt", "state": "from-query"}, body.Data)
	})

	t.Run("form binder skipped on get", func(t *testing.T) {
		t.Parallel()
		h := handler.Wrap(func(_ handler.Context, req tokenRequest) handler.Response {
			return handler.Success(req.State)
		}, handler.WithBinders[handler.Context, tokenRequest](binder.Query(), binder.Form()))

		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/?state=s", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("binding error reaches error handler as bad request", func(t *testing.T) {
		t.Parallel()
		var got error
		h := handler.Wrap(func(_ handler.Context, _ tokenRequest) handler.Response {
			t.Fatal("handler must not run")
			return nil
		},
			handler.WithBinders[handler.Context, tokenRequest](binder.Form()),
			handler.WithErrorHandler[handler.Context, tokenRequest](func(_ handler.Context, err error) { got = err }),
		)

		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}"))
		r.Header.Set("Content-Type", "application/json")
		h(httptest.NewRecorder(), r)

		require.Error(t, got)
		assert.ErrorIs(t, got, binder.ErrUnsupportedMediaType)
		var httpErr handler.HTTPError
		require.ErrorAs(t, got, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()
		h := handler.Wrap(func(_ handler.Context, _ struct{}) handler.Response { return nil })

		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("decorators run outermost first", func(t *testing.T) {
		t.Parallel()
		var order []string
		deco := func(name string) handler.Decorator[handler.Context, struct{}] {
			return func(next handler.HandlerFunc[handler.Context, struct{}]) handler.HandlerFunc[handler.Context, struct{}] {
				return func(ctx handler.Context, req struct{}) handler.Response {
					order = append(order, name)
					return next(ctx, req)
				}
			}
		}
		h := handler.Wrap(func(_ handler.Context, _ struct{}) handler.Response {
			order = append(order, "handler")
			return handler.Success(nil)
		}, handler.WithDecorators(deco("outer"), deco("inner")))

		h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, []string{"outer", "inner", "handler"}, order)
	})
}

func TestFailure(t *testing.T) {
	t.Parallel()

	t.Run("default status", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		require.NoError(t, handler.Failure(errors.New("registration is closed")).Render(w, httptest.NewRequest(http.MethodPost, "/", nil)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"success":false,"data":"registration is closed"}`, w.Body.String())
	})

	t.Run("http error status", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		resp := handler.Failure(handler.NewHTTPError(http.StatusForbidden, "nope"))
		require.NoError(t, resp.Render(w, httptest.NewRequest(http.MethodPost, "/", nil)))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.JSONEq(t, `{"success":false,"data":"nope"}`, w.Body.String())
	})
}

func TestTemplAndRedirect(t *testing.T) {
	t.Parallel()

	page := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<p>hi</p>")
		return err
	})

	w := httptest.NewRecorder()
	require.NoError(t, handler.TemplStatus(page, http.StatusForbidden).Render(w, httptest.NewRequest(http.MethodGet, "/", nil)))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "<p>hi</p>", w.Body.String())

	w = httptest.NewRecorder()
	require.NoError(t, handler.Redirect("/dashboard").Render(w, httptest.NewRequest(http.MethodGet, "/", nil)))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
}

func TestSafeRedirectTarget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"relative path", "/account?tab=1", "/account?tab=1"},
		{"same host", "https://example.com/welcome", "https://example.com/welcome"},
		{"other host", "https://evil.test/", "/"},
		{"protocol relative", "//evil.test/x", "/"},
		{"backslash trick", `/\evil.test`, "/"},
		{"javascript scheme", "javascript:alert(1)", "/"},
		{"bare word", "dashboard", "/"},
		{"empty", "", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, handler.SafeRedirectTarget(tt.target, "example.com", "/"))
		})
	}
}

func TestNewErrorHandler(t *testing.T) {
	t.Parallel()

	page := func(p handler.ErrorPageParams) templ.Component {
		return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
			_, err := io.WriteString(w, "error: "+p.Message)
			return err
		})
	}
	eh := handler.NewErrorHandler(nil, page)

	t.Run("http error", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		eh(handler.NewContext(w, httptest.NewRequest(http.MethodGet, "/", nil)), handler.NewHTTPError(http.StatusNotFound, "missing"))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "error: missing", w.Body.String())
	})

	t.Run("internal error hides detail", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		eh(handler.NewContext(w, httptest.NewRequest(http.MethodGet, "/", nil)), errors.New("db password wrong"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "db password")
	})
}
