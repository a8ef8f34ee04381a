package profile

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) Upsert(ctx context.Context, p *Profile) error {
	const query = `
	INSERT INTO users (user_id, email, role, is_admin, created_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (user_id) DO UPDATE
	SET email = EXCLUDED.email, role = EXCLUDED.role, is_admin = EXCLUDED.is_admin
	RETURNING created_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, query, p.UserID, p.Email, p.Role, p.IsAdmin, p.CreatedAt).Scan(&p.CreatedAt)
}

func (r *PostgresRepo) Get(ctx context.Context, userID string) (Profile, error) {
	const query = `
	SELECT user_id, email, role, is_admin, created_at
	FROM users
	WHERE user_id = $1
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var p Profile
	err := r.db.QueryRow(timeoutCtx, query, userID).Scan(&p.UserID, &p.Email, &p.Role, &p.IsAdmin, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	return p, err
}
