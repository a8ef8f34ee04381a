package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"biglibrary/internal/metrics"
	"biglibrary/internal/platform/googlebooks"
)

type Service struct {
	src    Source
	rec    metrics.Recorder
	logger *slog.Logger
}

func NewService(src Source, rec metrics.Recorder, logger *slog.Logger) *Service {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Service{src: src, rec: rec, logger: logger}
}

// Search fetches one page of volumes. A blank query yields an empty page
// without touching the network.
func (s *Service) Search(ctx context.Context, q Query) (Page, error) {
	if q.Order == "" {
		q.Order = OrderRelevance
	}
	if !q.Order.valid() {
		return Page{}, ErrInvalidOrder
	}
	if q.Offset < 0 {
		return Page{}, ErrInvalidOffset
	}
	limit := clampLimit(q.Limit)

	text := strings.TrimSpace(q.Q)
	if text == "" {
		return Page{Offset: q.Offset, Limit: limit}, nil
	}
	if c := strings.TrimSpace(q.Category); c != "" {
		text += " " + c
	}

	start := time.Now()
	res, err := s.src.SearchVolumes(ctx, googlebooks.SearchParams{
		Q:          text,
		OrderBy:    string(q.Order),
		StartIndex: q.Offset,
		MaxResults: limit,
	})
	if err != nil {
		s.rec.RecordCatalogCall("search", "error", time.Since(start))
		return Page{}, fmt.Errorf("search volumes: %w", err)
	}
	s.rec.RecordCatalogCall("search", "ok", time.Since(start))

	items := make([]Item, 0, len(res.Items))
	for _, v := range res.Items {
		if len(items) == limit {
			break
		}
		items = append(items, fromVolume(v))
	}

	return Page{Items: items, TotalItems: res.TotalItems, Offset: q.Offset, Limit: limit}, nil
}

// Get fetches a single volume by id.
func (s *Service) Get(ctx context.Context, id string) (Item, error) {
	start := time.Now()
	v, err := s.src.GetVolume(ctx, id)
	if err != nil {
		s.rec.RecordCatalogCall("volume", "error", time.Since(start))
		if googlebooks.IsNotFound(err) {
			return Item{}, ErrNotFound
		}
		return Item{}, fmt.Errorf("get volume %s: %w", id, err)
	}
	s.rec.RecordCatalogCall("volume", "ok", time.Since(start))
	return fromVolume(*v), nil
}

// FetchMany looks every id up concurrently. Failed lookups are logged and
// dropped; the successes keep the order of ids.
func (s *Service) FetchMany(ctx context.Context, ids []string) []Item {
	if len(ids) == 0 {
		return nil
	}

	results := make([]*Item, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			item, err := s.Get(ctx, id)
			if err != nil {
				s.logger.Warn("volume lookup failed",
					slog.String("volume_id", id),
					slog.Any("error", err),
				)
				return
			}
			results[i] = &item
		}(i, id)
	}
	wg.Wait()

	items := make([]Item, 0, len(ids))
	for _, it := range results {
		if it != nil {
			items = append(items, *it)
		}
	}
	return items
}
