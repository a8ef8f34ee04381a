package favorites

import (
	"context"

	"biglibrary/internal/catalog"
)

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks biglibrary/internal/favorites Repository

// Repository persists favorites. Insert must leave at most one record per
// (UserID, BookID): when one already exists it reports created=false and
// fills f.ID with the existing id.
type Repository interface {
	Insert(ctx context.Context, f *Favorite) (created bool, err error)
	DeleteByBook(ctx context.Context, userID, bookID string) (int, error)
	ListByUser(ctx context.Context, userID string) ([]Favorite, error)
	Exists(ctx context.Context, userID, bookID string) (bool, error)
}

// Enricher looks catalog items up by id; failed lookups are simply absent
// from the result.
type Enricher interface {
	FetchMany(ctx context.Context, ids []string) []catalog.Item
}
