// Package identity is the credential store behind sign-up, sign-in and
// sign-out. It issues HS256 bearer tokens whose role claim is derived from
// the admin allow-list.
package identity

import (
	"errors"
	"time"
)

type Account struct {
	ID           string    `json:"uid"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Token is a signed bearer token together with its identifiers.
type Token struct {
	Value     string
	JTI       string
	ExpiresAt time.Time
}

var (
	ErrNotFound           = errors.New("account not found")
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
)
