package favorites

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
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

const insertAttempts = 3

func (r *PostgresRepo) Insert(ctx context.Context, f *Favorite) (bool, error) {
	const insert = `
	INSERT INTO favorites (id, user_id, book_id, title, image_url, authors, added_at)
	VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)
	ON CONFLICT (user_id, book_id) DO NOTHING
	RETURNING id
	`
	const existing = `SELECT id FROM favorites WHERE user_id = $1 AND book_id = $2`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	authors := f.Authors
	if authors == nil {
		authors = []string{}
	}

	// A concurrent delete may remove the conflicting row before it is read
	// back, so the pair is retried a few times.
	var err error
	for attempt := 0; attempt < insertAttempts; attempt++ {
		err = r.db.QueryRow(timeoutCtx, insert, uuid.NewString(), f.UserID, f.BookID, f.Title, f.ImageURL, authors, f.AddedAt).Scan(&f.ID)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return false, err
		}
		err = r.db.QueryRow(timeoutCtx, existing, f.UserID, f.BookID).Scan(&f.ID)
		if err == nil {
			return false, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return false, err
		}
	}
	return false, err
}

func (r *PostgresRepo) DeleteByBook(ctx context.Context, userID, bookID string) (int, error) {
	const query = `DELETE FROM favorites WHERE user_id = $1 AND book_id = $2`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(timeoutCtx, query, userID, bookID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *PostgresRepo) ListByUser(ctx context.Context, userID string) ([]Favorite, error) {
	const query = `
	SELECT id, user_id, book_id, title, COALESCE(image_url, ''), authors, added_at
	FROM favorites
	WHERE user_id = $1
	ORDER BY added_at DESC
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var favs []Favorite
	for rows.Next() {
		var f Favorite
		if err := rows.Scan(&f.ID, &f.UserID, &f.BookID, &f.Title, &f.ImageURL, &f.Authors, &f.AddedAt); err != nil {
			return nil, err
		}
		if len(f.Authors) == 0 {
			f.Authors = nil
		}
		favs = append(favs, f)
	}
	return favs, rows.Err()
}

func (r *PostgresRepo) Exists(ctx context.Context, userID, bookID string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND book_id = $2)`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var exists bool
	err := r.db.QueryRow(timeoutCtx, query, userID, bookID).Scan(&exists)
	return exists, err
}
