package favorites

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"biglibrary/internal/httpx"
)

// HTTPHandler serves the /favorites endpoints. Their bodies are flat JSON
// objects, not the success/data envelope used elsewhere.
type HTTPHandler struct {
	svc    *Service
	logger *slog.Logger
}

func NewHTTPHandler(svc *Service, logger *slog.Logger) *HTTPHandler {
	return &HTTPHandler{svc: svc, logger: logger}
}

type removeReq struct {
	BookID string `json:"bookId"`
}

// Add handles POST /favorites
func (h *HTTPHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)

	var req AddInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.BareError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if strings.TrimSpace(req.BookID) == "" || strings.TrimSpace(req.Title) == "" {
		httpx.BareError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.WriteJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid fields", "details": details})
		return
	}

	id, created, err := h.svc.Add(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			httpx.BareError(w, http.StatusBadRequest, "Missing required fields")
			return
		}
		h.logger.Error("add favorite failed", slog.String("user_id", userID), slog.Any("error", err))
		httpx.BareError(w, http.StatusInternalServerError, "Failed to add to favorites")
		return
	}
	if !created {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Book already in favorites"})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "id": id})
}

// Remove handles DELETE /favorites
func (h *HTTPHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)

	var req removeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.BookID) == "" {
		httpx.BareError(w, http.StatusBadRequest, "Missing bookId")
		return
	}

	if err := h.svc.Remove(r.Context(), userID, req.BookID); err != nil {
		h.logger.Error("remove favorite failed", slog.String("user_id", userID), slog.Any("error", err))
		httpx.BareError(w, http.StatusInternalServerError, "Failed to remove from favorites")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// List handles GET /favorites
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)

	favs, err := h.svc.List(r.Context(), userID)
	if err != nil {
		h.logger.Error("list favorites failed", slog.String("user_id", userID), slog.Any("error", err))
		httpx.BareError(w, http.StatusInternalServerError, "Failed to fetch favorites")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{"favorites": favs})
}

// Check handles GET /favorites/check?bookId=
func (h *HTTPHandler) Check(w http.ResponseWriter, r *http.Request) {
	bookID := strings.TrimSpace(r.URL.Query().Get("bookId"))
	if bookID == "" {
		httpx.BareError(w, http.StatusBadRequest, "Missing bookId")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"favorited": h.svc.Exists(r.Context(), httpx.UserIDFrom(r), bookID)})
}
