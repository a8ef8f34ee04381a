package catalog

import (
	"context"

	"biglibrary/internal/platform/googlebooks"
)

// Source is the remote catalog. *googlebooks.Client satisfies it.
type Source interface {
	SearchVolumes(ctx context.Context, p googlebooks.SearchParams) (*googlebooks.VolumesResponse, error)
	GetVolume(ctx context.Context, id string) (*googlebooks.Volume, error)
}

// Searcher runs one page query. Both *Service and the API client implement it.
type Searcher interface {
	Search(ctx context.Context, q Query) (Page, error)
}
