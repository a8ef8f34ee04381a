package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

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

func (r *PostgresRepo) Create(ctx context.Context, a *Account) error {
	const query = `
	INSERT INTO accounts (id, email, password_hash)
	VALUES ($1, $2, $3)
	RETURNING created_at
	`
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := r.db.QueryRow(timeoutCtx, query, a.ID, a.Email, a.PasswordHash).Scan(&a.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrEmailTaken
	}
	return err
}

func (r *PostgresRepo) GetByEmail(ctx context.Context, email string) (Account, error) {
	const query = `
	SELECT id, email, password_hash, created_at
	FROM accounts
	WHERE email = $1
	`
	return r.getOne(ctx, query, email)
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Account, error) {
	const query = `
	SELECT id, email, password_hash, created_at
	FROM accounts
	WHERE id = $1
	`
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepo) getOne(ctx context.Context, query string, arg string) (Account, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var a Account
	err := r.db.QueryRow(timeoutCtx, query, arg).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrNotFound
	}
	return a, err
}
