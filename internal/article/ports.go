package article

import "context"

type Repository interface {
	Create(ctx context.Context, a *Article) error
	Update(ctx context.Context, id string, c Changes) error
	Get(ctx context.Context, id string) (Article, error)
	Delete(ctx context.Context, id string) error
	// List returns every article, newest first.
	List(ctx context.Context) ([]Article, error)
}
