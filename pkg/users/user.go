package users

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is a local account.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	DisplayName  string
	FirstName    string
	LastName     string
	PasswordHash string
	AvatarURL    string
	CreatedAt    time.Time
}

// Store persists local accounts. Email lookups are case-insensitive.
type Store interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, u *User) error
	SetAvatar(ctx context.Context, id uuid.UUID, url string) error
}

// prepare fills generated fields before insert.
func prepare(u *User, now time.Time) error {
	if u.Username == "" || u.Email == "" {
		return ErrInvalidUser
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
