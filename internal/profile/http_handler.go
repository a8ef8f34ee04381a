package profile

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"biglibrary/internal/httpx"
)

type HTTPHandler struct {
	service *Service
	logger  *slog.Logger
}

func NewHTTPHandler(service *Service, logger *slog.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, logger: logger}
}

// Put handles PUT /v1/me/profile. Role fields in the body are accepted for
// compatibility and ignored.
func (h *HTTPHandler) Put(w http.ResponseWriter, r *http.Request) {
	p, ok := httpx.PrincipalFrom(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}

	prof, err := h.service.Ensure(r.Context(), p.UserID, p.Email)
	if err != nil {
		h.logger.Error("profile upsert failed", slog.String("user_id", p.UserID), slog.Any("error", err))
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, prof, nil)
}

// Get handles GET /v1/me/profile
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	prof, err := h.service.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Profile not found", nil)
			return
		}
		h.logger.Error("profile get failed", slog.String("user_id", userID), slog.Any("error", err))
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, prof, nil)
}
