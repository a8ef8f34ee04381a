package identity

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type BlacklistPG struct {
	db *pgxpool.Pool
}

func NewBlacklistPG(db *pgxpool.Pool) *BlacklistPG {
	return &BlacklistPG{db: db}
}

func (r *BlacklistPG) Add(ctx context.Context, jti, userID string, expiresAt time.Time) error {
	const query = `
	INSERT INTO token_blacklist (jti, user_id, expires_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (jti) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, jti, userID, expiresAt)
	return err
}

func (r *BlacklistPG) Contains(ctx context.Context, jti string) (bool, error) {
	const query = `
	SELECT EXISTS(
		SELECT 1 FROM token_blacklist
		WHERE jti = $1 AND expires_at > now()
	)
	`
	var exists bool
	err := r.db.QueryRow(ctx, query, jti).Scan(&exists)
	return exists, err
}

// CleanupExpired removes entries whose tokens could no longer be presented.
func (r *BlacklistPG) CleanupExpired(ctx context.Context) (int64, error) {
	const query = `DELETE FROM token_blacklist WHERE expires_at < now()`
	tag, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
