package settings_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/googlelogin/pkg/settings"
)

func TestWhitelistDomains(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"blank", "  ", nil},
		{"single", "example.com", []string{"example.com"}},
		{"trim and lower", " Example.com , OTHER.com ,, ", []string{"example.com", "other.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := settings.Settings{WhitelistedDomains: tt.raw}
			assert.Equal(t, tt.want, s.WhitelistDomains())
		})
	}
}

func TestCookieExpiry(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 48*time.Hour, settings.Settings{}.CookieExpiry())
	assert.Equal(t, 2*time.Hour, settings.Settings{CookieExpiryHours: 2}.CookieExpiry())
	assert.Equal(t, 48*time.Hour, settings.Defaults().CookieExpiry())
}

func TestConstantsFrom(t *testing.T) {
	t.Parallel()

	t.Run("unset constants are nil", func(t *testing.T) {
		t.Parallel()

		c, err := settings.ConstantsFrom(map[string]string{})
		require.NoError(t, err)
		assert.Nil(t, c.ClientID)
		assert.Nil(t, c.RegistrationEnabled)
		assert.Nil(t, c.CookieExpiryHours)
	})

	t.Run("set constants", func(t *testing.T) {
		t.Parallel()

		c, err := settings.ConstantsFrom(map[string]string{
			"GOOGLE_LOGIN_CLIENT_ID":         "env-client",
			"GOOGLE_LOGIN_USER_REGISTRATION": "true",
			"GOOGLE_LOGIN_COOKIE_EXPIRY":     "12",
		})
		require.NoError(t, err)
		require.NotNil(t, c.ClientID)
		assert.Equal(t, "env-client", *c.ClientID)
		require.NotNil(t, c.RegistrationEnabled)
		assert.True(t, *c.RegistrationEnabled)
		require.NotNil(t, c.CookieExpiryHours)
		assert.Equal(t, 12, *c.CookieExpiryHours)
	})
}

func ptr[T any](v T) *T { return &v }

func TestResolver(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		s, err := settings.NewResolver(nil, settings.Constants{}).Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, settings.Defaults(), s)
	})

	t.Run("constant wins over stored option", func(t *testing.T) {
		t.Parallel()

		store := settings.NewMemoryStore(map[string]string{
			settings.ClientID:            "stored-client",
			settings.ClientSecret:        "stored-secret",
			settings.RegistrationEnabled: "1",
			settings.OneTapLoginScope:    "sitewide",
			settings.CookieExpiry:        "24",
		})
		r := settings.NewResolver(store, settings.Constants{
			ClientID:            ptr("env-client"),
			RegistrationEnabled: ptr(false),
		})

		s, err := r.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "env-client", s.ClientID)
		assert.Equal(t, "stored-secret", s.ClientSecret)
		assert.False(t, s.RegistrationEnabled)
		assert.Equal(t, settings.OneTapSitewide, s.OneTapScope)
		assert.Equal(t, 24, s.CookieExpiryHours)
		assert.True(t, s.Configured())

		v, err := r.Resolve(ctx, settings.ClientID)
		require.NoError(t, err)
		assert.Equal(t, "env-client", v)
	})

	t.Run("unknown name", func(t *testing.T) {
		t.Parallel()

		_, err := settings.NewResolver(nil, settings.Constants{}).Resolve(ctx, "nope")
		assert.ErrorIs(t, err, settings.ErrInvalidArgument)
	})

	t.Run("malformed stored values fall back to defaults", func(t *testing.T) {
		t.Parallel()

		store := settings.NewMemoryStore(map[string]string{
			settings.OneTapLoginScope: "everywhere",
			settings.CookieExpiry:     "-3",
			settings.OneTapLogin:      "maybe",
		})
		s, err := settings.NewResolver(store, settings.Constants{}).Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, settings.OneTapLoginPage, s.OneTapScope)
		assert.Equal(t, settings.DefaultCookieExpiryHours, s.CookieExpiryHours)
		assert.False(t, s.OneTapLogin)
	})

	t.Run("fields report locks", func(t *testing.T) {
		t.Parallel()

		r := settings.NewResolver(nil, settings.Constants{ClientSecret: ptr("s3cret")})
		fields, err := r.Fields(ctx)
		require.NoError(t, err)
		require.Len(t, fields, len(settings.Names))

		for _, f := range fields {
			if f.Name == settings.ClientSecret {
				assert.True(t, f.Locked)
				assert.Equal(t, "s3cret", f.Value)
				assert.Equal(t, "GOOGLE_LOGIN_CLIENT_SECRET", f.EnvVar)
				continue
			}
			assert.False(t, f.Locked, f.Name)
		}
	})

	t.Run("save normalizes and refuses locked fields", func(t *testing.T) {
		t.Parallel()

		store := settings.NewMemoryStore(nil)
		r := settings.NewResolver(store, settings.Constants{ClientID: ptr("env-client")})

		require.NoError(t, r.Save(ctx, map[string]string{
			settings.OneTapLogin:      "on",
			settings.OneTapLoginScope: "SITEWIDE",
		}))
		stored, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			settings.OneTapLogin:      "true",
			settings.OneTapLoginScope: "sitewide",
		}, stored)

		err = r.Save(ctx, map[string]string{settings.ClientID: "other"})
		assert.ErrorIs(t, err, settings.ErrFieldLocked)

		err = r.Save(ctx, map[string]string{settings.CookieExpiry: "soon"})
		assert.ErrorIs(t, err, settings.ErrInvalidValue)

		err = r.Save(ctx, map[string]string{"theme": "dark"})
		assert.ErrorIs(t, err, settings.ErrInvalidArgument)
	})
}

func TestYAMLStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "options.yaml")
	store := settings.NewYAMLStore(path)

	values, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, values)

	require.NoError(t, store.Save(ctx, map[string]string{settings.ClientID: "abc"}))
	require.NoError(t, store.Save(ctx, map[string]string{settings.WhitelistedDomains: "example.com"}))

	values, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		settings.ClientID:           "abc",
		settings.WhitelistedDomains: "example.com",
	}, values)

	require.NoError(t, os.WriteFile(path, []byte("client_id: [broken"), 0o600))
	_, err = store.Load(ctx)
	assert.Error(t, err)
}
