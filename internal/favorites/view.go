package favorites

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"biglibrary/internal/catalog"
	"biglibrary/internal/httpx"
	"biglibrary/internal/metrics"
)

// Entry is one favorite as displayed: the stored record overlaid with live
// catalog data when the lookup succeeded.
type Entry struct {
	catalog.Item
	FavoriteID string `json:"favoriteId"`
	AddedAt    string `json:"addedAt"`
	Enriched   bool   `json:"enriched"`
}

// View builds the favorites screen.
type View struct {
	favorites *Service
	enricher  Enricher
	rec       metrics.Recorder
	logger    *slog.Logger
}

func NewView(favorites *Service, enricher Enricher, rec metrics.Recorder, logger *slog.Logger) *View {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &View{favorites: favorites, enricher: enricher, rec: rec, logger: logger}
}

// Load lists the user's favorites and merges catalog details into them.
// An empty list makes no catalog call. When enrichment fails entirely the
// stored records are returned as they are.
func (v *View) Load(ctx context.Context, userID string) ([]Entry, error) {
	favs, err := v.favorites.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(favs) == 0 {
		return []Entry{}, nil
	}

	ids := make([]string, len(favs))
	for i, f := range favs {
		ids[i] = f.BookID
	}
	enriched := v.enrich(ctx, ids)

	byID := make(map[string]catalog.Item, len(enriched))
	for _, it := range enriched {
		byID[it.ID] = it
	}

	entries := make([]Entry, len(favs))
	for i, f := range favs {
		entries[i] = merge(f, byID)
	}
	return entries, nil
}

func (v *View) enrich(ctx context.Context, ids []string) (items []catalog.Item) {
	defer func() {
		if p := recover(); p != nil {
			v.rec.RecordEnrichmentFailure()
			v.logger.Error("favorites enrichment panicked", slog.Any("panic", fmt.Sprint(p)))
			items = nil
		}
	}()
	items = v.enricher.FetchMany(ctx, ids)
	if len(items) < len(ids) {
		v.rec.RecordEnrichmentFailure()
	}
	return items
}

func merge(f Favorite, byID map[string]catalog.Item) Entry {
	e := Entry{
		Item: catalog.Item{
			ID:       f.BookID,
			Title:    f.Title,
			ImageURL: f.ImageURL,
			Authors:  f.Authors,
		},
		FavoriteID: f.ID,
		AddedAt:    f.AddedAt.UTC().Format(time.RFC3339),
	}

	it, ok := byID[f.BookID]
	if !ok {
		return e
	}

	stored := e.Item
	e.Item = it
	e.Enriched = true
	if e.Title == "" {
		e.Title = stored.Title
	}
	if it.ImageURL == "" {
		e.ImageURL = stored.ImageURL
	}
	if len(it.Authors) == 0 {
		e.Authors = stored.Authors
	}
	return e
}

// Paginate returns the page-th slice (zero based) of entries and the total
// number of pages.
func Paginate(entries []Entry, page, pageSize int) ([]Entry, int) {
	if pageSize <= 0 {
		pageSize = catalog.DefaultLimit
	}
	totalPages := catalog.PageCount(len(entries), pageSize)
	if page < 0 {
		page = 0
	}
	if page >= totalPages {
		return []Entry{}, totalPages
	}
	start := page * pageSize
	end := start + pageSize
	if end > len(entries) {
		end = len(entries)
	}
	return entries[start:end], totalPages
}

// ServeHTTP handles GET /v1/favorites/view?page=&page_size=; page is one based.
func (v *View) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(query.Get("page_size"))
	if pageSize <= 0 || pageSize > catalog.MaxLimit {
		pageSize = catalog.DefaultLimit
	}

	entries, err := v.Load(r.Context(), userID)
	if err != nil {
		v.logger.Error("favorites view failed", slog.String("user_id", userID), slog.Any("error", err))
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch favorites", nil)
		return
	}

	slice, totalPages := Paginate(entries, page-1, pageSize)
	httpx.JSONSuccess(w, r, slice, map[string]any{
		"page":        page,
		"page_size":   pageSize,
		"total":       len(entries),
		"total_pages": totalPages,
	})
}
