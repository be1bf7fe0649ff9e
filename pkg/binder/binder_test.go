package binder_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/googlelogin/pkg/binder"
)

type request struct {
	Code     string   `query:"code" form:"code"`
	State    string   `query:"state" form:"state"`
	Remember bool     `form:"remember"`
	Page     *int     `query:"page"`
	Tags     []string `query:"tag"`
	Ignored  string   `query:"-" form:"-"`
	Fallback string
}

func TestQuery(t *testing.T) {
	t.Parallel()

	t.Run("binds tagged fields", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/callback?code=abc&state=xyz&page=2&tag=a&tag=b&Ignored=x&fallback=f", nil)

		var req request
		require.NoError(t, binder.Query()(r, &req))
		assert.Equal(t, "abc", req.Code)
		assert.Equal(t, "xyz", req.State)
		require.NotNil(t, req.Page)
		assert.Equal(t, 2, *req.Page)
		assert.Equal(t, []string{"a", "b"}, req.Tags)
		assert.Empty(t, req.Ignored)
		assert.Equal(t, "f", req.Fallback)
	})

	t.Run("invalid integer", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/?page=two", nil)

		var req request
		err := binder.Query()(r, &req)
		assert.ErrorIs(t, err, binder.ErrInvalidQuery)
	})

	t.Run("rejects non-pointer target", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.ErrorIs(t, binder.Query()(r, request{}), binder.ErrInvalidTarget)
	})
}

func TestForm(t *testing.T) {
	t.Parallel()

	t.Run("url-encoded body", func(t *testing.T) {
		t.Parallel()
		body := url.Values{"code": {"abc"}, "state": {"xyz"}, "remember": {"on"}}
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		var req request
		require.NoError(t, binder.Form()(r, &req))
		assert.Equal(t, "abc", req.Code)
		assert.Equal(t, "xyz", req.State)
		assert.True(t, req.Remember)
	})

	t.Run("get is not applicable", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		var req request
		assert.ErrorIs(t, binder.Form()(r, &req), binder.ErrNotApplicable)
	})

	t.Run("json is unsupported", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
		r.Header.Set("Content-Type", "application/json")

		var req request
		assert.ErrorIs(t, binder.Form()(r, &req), binder.ErrUnsupportedMediaType)
	})

	t.Run("invalid bool", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("remember=maybe"))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		var req request
		assert.ErrorIs(t, binder.Form()(r, &req), binder.ErrInvalidForm)
	})
}
