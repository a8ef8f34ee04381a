package catalog

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"biglibrary/internal/httpx"
)

type HTTPHandler struct {
	svc    *Service
	logger *slog.Logger
}

func NewHTTPHandler(svc *Service, logger *slog.Logger) *HTTPHandler {
	return &HTTPHandler{svc: svc, logger: logger}
}

// Search handles GET /v1/catalog/search
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "page is out of range", nil)
		return
	}
	pageSize, _ := strconv.Atoi(query.Get("page_size"))
	pageSize = clampLimit(pageSize)

	q := Query{
		Q:        query.Get("q"),
		Category: query.Get("category"),
		Order:    Order(query.Get("order")),
		Limit:    pageSize,
		Offset:   (page - 1) * pageSize,
	}

	result, err := h.svc.Search(r.Context(), q)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidOrder), errors.Is(err, ErrInvalidOffset):
			httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		default:
			h.logger.Error("catalog search failed", slog.String("request_id", httpx.RequestIDFrom(r)), slog.Any("error", err))
			httpx.JSONError(w, r, http.StatusBadGateway, "EXTERNAL_SERVICE_ERROR", "Catalog is unavailable", nil)
		}
		return
	}

	httpx.JSONSuccess(w, r, result.Items, map[string]any{
		"page":        page,
		"page_size":   result.Limit,
		"total":       result.TotalItems,
		"total_pages": PageCount(result.TotalItems, result.Limit),
	})
}

// GetVolume handles GET /v1/catalog/volumes/{id}
func (h *HTTPHandler) GetVolume(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !httpx.IsVolumeID(id) {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid volume id", nil)
		return
	}

	item, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found in catalog", nil)
			return
		}
		h.logger.Error("catalog lookup failed", slog.String("volume_id", id), slog.Any("error", err))
		httpx.JSONError(w, r, http.StatusBadGateway, "EXTERNAL_SERVICE_ERROR", "Catalog is unavailable", nil)
		return
	}

	httpx.JSONSuccess(w, r, item, nil)
}
