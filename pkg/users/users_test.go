package users_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/googlelogin/pkg/users"
)

func TestSanitizeUsername(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"john", "john"},
		{"John.Doe", "john.doe"},
		{"jöhn", "john"},
		{"Éloïse_Ñúñez", "eloise_nunez"},
		{"a+tag", "atag"},
		{"..weird--", "weird"},
		{"日本", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, users.SanitizeUsername(tt.in))
		})
	}
}

func TestUniqueUsername(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("free base", func(t *testing.T) {
		t.Parallel()

		name, err := users.UniqueUsername(ctx, users.NewMemoryStore(), "John@example.com")
		require.NoError(t, err)
		assert.Equal(t, "john", name)
	})

	t.Run("appends suffix on collision", func(t *testing.T) {
		t.Parallel()

		store := users.NewMemoryStore()
		require.NoError(t, store.Create(ctx, &users.User{Username: "john", Email: "john@a.com"}))

		name, err := users.UniqueUsername(ctx, store, "john@b.com")
		require.NoError(t, err)
		assert.Equal(t, "john1", name)

		require.NoError(t, store.Create(ctx, &users.User{Username: name, Email: "john@b.com"}))
		name, err = users.UniqueUsername(ctx, store, "john@c.com")
		require.NoError(t, err)
		assert.Equal(t, "john2", name)
	})

	t.Run("fallback for empty local part", func(t *testing.T) {
		t.Parallel()

		name, err := users.UniqueUsername(ctx, users.NewMemoryStore(), "日本@example.com")
		require.NoError(t, err)
		assert.Equal(t, users.FallbackUsername, name)
	})

	t.Run("store error", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		_, err := users.UniqueUsername(ctx, failingChecker{boom}, "a@b.c")
		assert.ErrorIs(t, err, boom)
	})
}

type failingChecker struct{ err error }

func (f failingChecker) UsernameExists(context.Context, string) (bool, error) { return false, f.err }

func TestPassword(t *testing.T) {
	t.Parallel()

	a, err := users.RandomPassword()
	require.NoError(t, err)
	b, err := users.RandomPassword()
	require.NoError(t, err)
	assert.Len(t, a, 24)
	assert.NotEqual(t, a, b)

	hash, err := users.HashPassword(a)
	require.NoError(t, err)
	assert.True(t, users.CheckPassword(hash, a))
	assert.False(t, users.CheckPassword(hash, b))
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := users.NewMemoryStore()

	u := &users.User{Username: "jane", Email: "Jane@Example.com", DisplayName: "Jane"}
	require.NoError(t, store.Create(ctx, u))
	assert.NotEqual(t, uuid.Nil, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	got, err := store.GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = store.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane", got.Username)

	exists, err := store.UsernameExists(ctx, "jane")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.SetAvatar(ctx, u.ID, "https://cdn.example.com/a.jpg"))
	got, _ = store.GetByID(ctx, u.ID)
	assert.Equal(t, "https://cdn.example.com/a.jpg", got.AvatarURL)

	assert.ErrorIs(t, store.Create(ctx, &users.User{Username: "jane", Email: "x@y.z"}), users.ErrUsernameTaken)
	assert.ErrorIs(t, store.Create(ctx, &users.User{Username: "other", Email: "JANE@example.com"}), users.ErrEmailTaken)
	assert.ErrorIs(t, store.Create(ctx, &users.User{Email: "x@y.z"}), users.ErrInvalidUser)

	_, err = store.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, users.ErrUserNotFound)
	_, err = store.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, users.ErrUserNotFound)
	assert.ErrorIs(t, store.SetAvatar(ctx, uuid.New(), "x"), users.ErrUserNotFound)
}
