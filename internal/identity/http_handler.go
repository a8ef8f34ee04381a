package identity

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"biglibrary/internal/httpx"
)

type HTTPHandler struct {
	service  *Service
	profiles ProfileEnsurer
	logger   *slog.Logger
}

func NewHTTPHandler(service *Service, profiles ProfileEnsurer, logger *slog.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, profiles: profiles, logger: logger}
}

type CredentialsReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type UserView struct {
	UID     string `json:"uid"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	IsAdmin bool   `json:"isAdmin"`
}

type sessionView struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      UserView  `json:"user"`
}

func (h *HTTPHandler) userView(uid, email string) UserView {
	r := h.service.Allow().RoleFor(email)
	return UserView{UID: uid, Email: email, Role: r, IsAdmin: h.service.Allow().IsAdmin(email)}
}

func (h *HTTPHandler) decodeCredentials(w http.ResponseWriter, r *http.Request) (CredentialsReq, bool) {
	var req CredentialsReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return req, false
	}
	req.Email = strings.TrimSpace(req.Email)

	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", validationErrors)
		return req, false
	}
	return req, true
}

// SignUp handles POST /v1/auth/signup
func (h *HTTPHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}

	a, err := h.service.CreateAccount(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			httpx.JSONError(w, r, http.StatusConflict, "CONFLICT", "Email already in use", nil)
		case errors.Is(err, ErrWeakPassword):
			httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		default:
			h.logger.Error("signup failed", slog.String("request_id", httpx.RequestIDFrom(r)), slog.Any("error", err))
			httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		}
		return
	}

	if _, err := h.profiles.Ensure(r.Context(), a.ID, a.Email); err != nil {
		h.logger.Error("profile write failed after signup",
			slog.String("user_id", a.ID),
			slog.Any("error", err),
		)
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	tok, err := h.service.IssueToken(a)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccessCreated(w, r, sessionView{Token: tok.Value, ExpiresAt: tok.ExpiresAt, User: h.userView(a.ID, a.Email)})
}

// Login handles POST /v1/auth/login
func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}

	a, err := h.service.VerifyCredentials(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid email or password", nil)
			return
		}
		h.logger.Error("login failed", slog.String("request_id", httpx.RequestIDFrom(r)), slog.Any("error", err))
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	tok, err := h.service.IssueToken(a)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, r, sessionView{Token: tok.Value, ExpiresAt: tok.ExpiresAt, User: h.userView(a.ID, a.Email)}, nil)
}

// Logout handles POST /v1/auth/logout
func (h *HTTPHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := httpx.BearerToken(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	if err := h.service.SignOut(r.Context(), token); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token", nil)
			return
		}
		h.logger.Error("logout failed", slog.Any("error", err))
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccessNoContent(w)
}

// Me handles GET /v1/auth/me
func (h *HTTPHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := httpx.PrincipalFrom(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}
	httpx.JSONSuccess(w, r, h.userView(p.UserID, p.Email), nil)
}
