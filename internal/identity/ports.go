package identity

import (
	"context"
	"time"

	"biglibrary/internal/profile"
)

type AccountRepository interface {
	Create(ctx context.Context, a *Account) error
	GetByEmail(ctx context.Context, email string) (Account, error)
	GetByID(ctx context.Context, id string) (Account, error)
}

// Blacklist holds revoked token ids until they expire.
type Blacklist interface {
	Add(ctx context.Context, jti, userID string, expiresAt time.Time) error
	Contains(ctx context.Context, jti string) (bool, error)
}

// ProfileEnsurer writes the users document after a successful sign-up.
type ProfileEnsurer interface {
	Ensure(ctx context.Context, userID, email string) (profile.Profile, error)
}
