package session

import (
	"context"
)

// Provider is the identity provider as consumed by the client.
type Provider interface {
	CreateAccount(ctx context.Context, email, password string) (User, error)
	VerifyCredentials(ctx context.Context, email, password string) (User, error)
	SignOut(ctx context.Context) error
	// Subscribe registers fn for auth-state changes. fn receives nil when
	// signed out. Implementations push the current state right away.
	Subscribe(fn func(*User)) (unsubscribe func())
}

type ProfileWriter interface {
	PutProfile(ctx context.Context, uid string, p Profile) error
}
