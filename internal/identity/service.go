package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"biglibrary/internal/httpx"
	"biglibrary/internal/role"
)

type Service struct {
	accounts  AccountRepository
	blacklist Blacklist
	allow     role.AllowList
	secret    string
	ttl       time.Duration
}

func NewService(accounts AccountRepository, blacklist Blacklist, allow role.AllowList, secret string, ttl time.Duration) *Service {
	return &Service{
		accounts:  accounts,
		blacklist: blacklist,
		allow:     allow,
		secret:    secret,
		ttl:       ttl,
	}
}

func (s *Service) CreateAccount(ctx context.Context, email, password string) (Account, error) {
	email = strings.TrimSpace(email)
	if err := ValidatePassword(password); err != nil {
		return Account{}, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return Account{}, fmt.Errorf("hash password: %w", err)
	}

	a := Account{Email: email, PasswordHash: hash}
	if err := s.accounts.Create(ctx, &a); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return Account{}, ErrEmailTaken
		}
		return Account{}, fmt.Errorf("create account: %w", err)
	}
	return a, nil
}

func (s *Service) VerifyCredentials(ctx context.Context, email, password string) (Account, error) {
	a, err := s.accounts.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Account{}, ErrInvalidCredentials
		}
		return Account{}, fmt.Errorf("get account: %w", err)
	}
	if !VerifyPassword(a.PasswordHash, password) {
		return Account{}, ErrInvalidCredentials
	}
	return a, nil
}

// IssueToken signs a bearer token for a. The role claim reflects the
// allow-list at issue time.
func (s *Service) IssueToken(a Account) (Token, error) {
	return GenerateToken(s.secret, a.ID, a.Email, s.allow.RoleFor(a.Email), s.ttl)
}

// ParseClaims validates signature, expiry and revocation.
func (s *Service) ParseClaims(ctx context.Context, token string) (*Claims, error) {
	claims, err := ParseToken(s.secret, token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	if claims.ID != "" {
		revoked, err := s.blacklist.Contains(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check blacklist: %w", err)
		}
		if revoked {
			return nil, ErrUnauthorized
		}
	}
	return claims, nil
}

// VerifyToken resolves a bearer token to its caller. The role is derived
// from the allow-list again so a changed list takes effect without
// re-issuing tokens.
func (s *Service) VerifyToken(ctx context.Context, token string) (httpx.Principal, error) {
	claims, err := s.ParseClaims(ctx, token)
	if err != nil {
		return httpx.Principal{}, err
	}
	return httpx.Principal{
		UserID: claims.Sub,
		Email:  claims.Email,
		Role:   s.allow.RoleFor(claims.Email),
	}, nil
}

// SignOut revokes the token until its natural expiry.
func (s *Service) SignOut(ctx context.Context, token string) error {
	claims, err := s.ParseClaims(ctx, token)
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(s.ttl)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return s.blacklist.Add(ctx, claims.ID, claims.Sub, expiresAt)
}

// Allow exposes the allow-list used for role derivation.
func (s *Service) Allow() role.AllowList {
	return s.allow
}
