package article

import (
	"context"
	"errors"
	"fmt"
	"strings"
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

const selectColumns = `id, title, description, content, COALESCE(category, ''), author, created_at, updated_at`

func (r *PostgresRepo) Create(ctx context.Context, a *Article) error {
	const query = `
	INSERT INTO articles (id, title, description, content, category, author, created_at)
	VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	a.ID = uuid.NewString()
	_, err := r.db.Exec(timeoutCtx, query, a.ID, a.Title, a.Description, a.Content, a.Category, a.Author, a.CreatedAt)
	return err
}

func (r *PostgresRepo) Update(ctx context.Context, id string, c Changes) error {
	sets := []string{"updated_at = $2"}
	args := []any{id, c.UpdatedAt}
	add := func(col string, v *string) {
		if v == nil {
			return
		}
		args = append(args, *v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	add("title", c.Title)
	add("description", c.Description)
	add("content", c.Content)
	if c.Category != nil {
		args = append(args, *c.Category)
		sets = append(sets, fmt.Sprintf("category = NULLIF($%d, '')", len(args)))
	}

	query := "UPDATE articles SET " + strings.Join(sets, ", ") + " WHERE id = $1"

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(timeoutCtx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (Article, error) {
	query := `SELECT ` + selectColumns + ` FROM articles WHERE id = $1`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	a, err := scanArticle(r.db.QueryRow(timeoutCtx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Article{}, ErrNotFound
	}
	return a, err
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) List(ctx context.Context) ([]Article, error) {
	query := `SELECT ` + selectColumns + ` FROM articles ORDER BY created_at DESC`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func scanArticle(row pgx.Row) (Article, error) {
	var a Article
	err := row.Scan(&a.ID, &a.Title, &a.Description, &a.Content, &a.Category, &a.Author, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}
