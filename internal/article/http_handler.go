package article

import (
	"errors"
	"log/slog"
	"net/http"

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

func (h *HTTPHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Article not found", nil)
	case errors.Is(err, ErrInvalidInput):
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Please fill in all fields", nil)
	default:
		h.logger.Error(op+" failed", slog.String("request_id", httpx.RequestIDFrom(r)), slog.Any("error", err))
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}

// List handles GET /v1/articles
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		h.fail(w, r, "list articles", err)
		return
	}
	httpx.JSONSuccess(w, r, list, map[string]any{"total": len(list)})
}

// Get handles GET /v1/articles/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "get article", err)
		return
	}
	httpx.JSONSuccess(w, r, a, nil)
}

// Create handles POST /v1/articles (admin)
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(in); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Please fill in all fields", details)
		return
	}

	a, err := h.svc.Publish(r.Context(), httpx.EmailFrom(r), in)
	if err != nil {
		h.fail(w, r, "publish article", err)
		return
	}
	httpx.JSONSuccessCreated(w, r, a)
}

// Update handles PATCH /v1/articles/{id} (admin)
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	var p Patch
	if err := httpx.DecodeJSON(r, &p); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(p); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	a, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		h.fail(w, r, "update article", err)
		return
	}
	httpx.JSONSuccess(w, r, a, nil)
}

// Delete handles DELETE /v1/articles/{id} (admin)
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "delete article", err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}
