package profile

import "context"

type Repository interface {
	// Upsert writes email, role and isAdmin. CreatedAt is only written when
	// the document does not exist yet; the stored value is copied back into p.
	Upsert(ctx context.Context, p *Profile) error
	Get(ctx context.Context, userID string) (Profile, error)
}
