package users

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/googlelogin/pkg/pg"
)

// DB is the subset of *pgxpool.Pool used by PostgresStore.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore persists accounts in the users table.
type PostgresStore struct {
	db DB
}

// NewPostgresStore creates a store on top of db.
func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const selectUser = `SELECT id, username, email, display_name, first_name, last_name,
	password_hash, avatar_url, created_at FROM users`

func (s *PostgresStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.getOne(ctx, selectUser+` WHERE lower(email) = $1`, normalizeEmail(email))
}

func (s *PostgresStore) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.getOne(ctx, selectUser+` WHERE id = $1`, id)
}

func (s *PostgresStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) Create(ctx context.Context, u *User) error {
	if err := prepare(u, time.Now().UTC()); err != nil {
		return err
	}
	_, err := s.db.Exec(ctx, `INSERT INTO users
		(id, username, email, display_name, first_name, last_name, password_hash, avatar_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.Username, u.Email, u.DisplayName, u.FirstName, u.LastName,
		u.PasswordHash, u.AvatarURL, u.CreatedAt,
	)
	if pg.IsDuplicateKeyError(err) {
		if pg.ConstraintName(err) == "users_username_key" {
			return ErrUsernameTaken
		}
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresStore) SetAvatar(ctx context.Context, id uuid.UUID, url string) error {
	tag, err := s.db.Exec(ctx, `UPDATE users SET avatar_url = $2 WHERE id = $1`, id, url)
	if err != nil {
		return fmt.Errorf("update avatar: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *PostgresStore) getOne(ctx context.Context, query string, arg any) (*User, error) {
	var u User
	err := s.db.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.DisplayName, &u.FirstName, &u.LastName,
		&u.PasswordHash, &u.AvatarURL, &u.CreatedAt,
	)
	if pg.IsNotFoundError(err) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
