package identity

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"biglibrary/internal/profile"
)

type mockAccounts struct {
	mock.Mock
}

func (m *mockAccounts) Create(ctx context.Context, a *Account) error {
	args := m.Called(ctx, a)
	if args.Error(0) == nil && a.ID == "" {
		a.ID = "generated-id"
	}
	return args.Error(0)
}

func (m *mockAccounts) GetByEmail(ctx context.Context, email string) (Account, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(Account), args.Error(1)
}

func (m *mockAccounts) GetByID(ctx context.Context, id string) (Account, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Account), args.Error(1)
}

// memBlacklist is a plain map; the tests only need membership.
type memBlacklist map[string]time.Time

func (b memBlacklist) Add(_ context.Context, jti, _ string, expiresAt time.Time) error {
	b[jti] = expiresAt
	return nil
}

func (b memBlacklist) Contains(_ context.Context, jti string) (bool, error) {
	_, ok := b[jti]
	return ok, nil
}

type mockProfiles struct {
	mock.Mock
}

func (m *mockProfiles) Ensure(ctx context.Context, userID, email string) (profile.Profile, error) {
	args := m.Called(ctx, userID, email)
	return args.Get(0).(profile.Profile), args.Error(1)
}
