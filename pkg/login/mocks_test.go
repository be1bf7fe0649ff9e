package login_test

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/googlelogin/pkg/users"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*users.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func (m *MockUserStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserStore) Create(ctx context.Context, u *users.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserStore) SetAvatar(ctx context.Context, id uuid.UUID, url string) error {
	return m.Called(ctx, id, url).Error(0)
}

type MockPictureImporter struct {
	mock.Mock
}

func (m *MockPictureImporter) Import(ctx context.Context, src, key string) (string, error) {
	args := m.Called(ctx, src, key)
	return args.String(0), args.Error(1)
}

type MockSessionIssuer struct {
	mock.Mock
}

func (m *MockSessionIssuer) Issue(w http.ResponseWriter, userID uuid.UUID, ttl time.Duration) {
	m.Called(w, userID, ttl)
}

func (m *MockSessionIssuer) Clear(w http.ResponseWriter) {
	m.Called(w)
}
