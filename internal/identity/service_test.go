package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"biglibrary/internal/role"
)

const testSecret = "test-secret"

func newTestService(accounts AccountRepository) (*Service, memBlacklist) {
	bl := memBlacklist{}
	return NewService(accounts, bl, role.ParseAllowList("admin@example.com"), testSecret, time.Hour), bl
}

func TestService_CreateAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("success - trims email and hashes password", func(t *testing.T) {
		accounts := new(mockAccounts)
		svc, _ := newTestService(accounts)
		accounts.On("Create", ctx, mock.MatchedBy(func(a *Account) bool {
			return a.Email == "new@example.com" && VerifyPassword(a.PasswordHash, "secret1")
		})).Return(nil)

		a, err := svc.CreateAccount(ctx, "  new@example.com ", "secret1")

		require.NoError(t, err)
		assert.Equal(t, "generated-id", a.ID)
	})

	t.Run("error - short password never reaches the store", func(t *testing.T) {
		accounts := new(mockAccounts)
		svc, _ := newTestService(accounts)

		_, err := svc.CreateAccount(ctx, "new@example.com", "12345")

		assert.ErrorIs(t, err, ErrWeakPassword)
		accounts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("error - email taken", func(t *testing.T) {
		accounts := new(mockAccounts)
		svc, _ := newTestService(accounts)
		accounts.On("Create", ctx, mock.Anything).Return(ErrEmailTaken)

		_, err := svc.CreateAccount(ctx, "dup@example.com", "secret1")

		assert.ErrorIs(t, err, ErrEmailTaken)
	})
}

func TestService_VerifyCredentials(t *testing.T) {
	ctx := context.Background()
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	stored := Account{ID: "u1", Email: "s@example.com", PasswordHash: hash}

	accounts := new(mockAccounts)
	accounts.On("GetByEmail", ctx, "s@example.com").Return(stored, nil)
	accounts.On("GetByEmail", ctx, "ghost@example.com").Return(Account{}, ErrNotFound)
	accounts.On("GetByEmail", ctx, "broken@example.com").Return(Account{}, errors.New("db down"))
	svc, _ := newTestService(accounts)

	a, err := svc.VerifyCredentials(ctx, "s@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "u1", a.ID)

	_, err = svc.VerifyCredentials(ctx, "s@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.VerifyCredentials(ctx, "ghost@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.VerifyCredentials(ctx, "broken@example.com", "secret1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_TokenLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, bl := newTestService(new(mockAccounts))

	tok, err := svc.IssueToken(Account{ID: "u1", Email: "admin@example.com"})
	require.NoError(t, err)

	p, err := svc.VerifyToken(ctx, tok.Value)
	require.NoError(t, err)
	assert.Equal(t, "u1", p.UserID)
	assert.Equal(t, role.Admin, p.Role)

	require.NoError(t, svc.SignOut(ctx, tok.Value))
	assert.Contains(t, bl, tok.JTI)

	_, err = svc.VerifyToken(ctx, tok.Value)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestService_VerifyToken_StudentRole(t *testing.T) {
	svc, _ := newTestService(new(mockAccounts))
	tok, err := svc.IssueToken(Account{ID: "u2", Email: "student@example.com"})
	require.NoError(t, err)

	p, err := svc.VerifyToken(context.Background(), tok.Value)

	require.NoError(t, err)
	assert.Equal(t, role.Student, p.Role)
}
