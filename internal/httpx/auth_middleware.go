package httpx

import (
	"context"
	"net/http"
	"strings"

	"biglibrary/internal/role"
)

// TokenVerifier resolves a bearer token to the identity it was issued for.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (Principal, error)
}

const (
	msgMissingToken = "Missing authorization token"
	msgInvalidToken = "Invalid or expired token"
)

// AuthMiddleware rejects requests without a valid bearer token using the
// standard JSON error envelope.
func AuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return authenticate(verifier, func(w http.ResponseWriter, r *http.Request, msg string) {
		JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", msg, nil)
	})
}

// BareAuthMiddleware behaves like AuthMiddleware but answers with a flat
// {"error": "..."} body, which is what the favorites endpoints expose.
func BareAuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return authenticate(verifier, func(w http.ResponseWriter, r *http.Request, msg string) {
		BareError(w, http.StatusUnauthorized, msg)
	})
}

func authenticate(verifier TokenVerifier, reject func(http.ResponseWriter, *http.Request, string)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				reject(w, r, msgMissingToken)
				return
			}

			p, err := verifier.VerifyToken(r.Context(), token)
			if err != nil {
				reject(w, r, msgInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), p)))
		})
	}
}

// OptionalAuthMiddleware attaches the principal when a valid token is
// present and otherwise lets the request through anonymously.
func OptionalAuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, ok := BearerToken(r); ok {
				if p, err := verifier.VerifyToken(r.Context(), token); err == nil {
					r = r.WithContext(ContextWithUser(r.Context(), p))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin must run after AuthMiddleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if RoleFrom(r) != role.Admin {
			JSONError(w, r, http.StatusForbidden, "FORBIDDEN", "Admin access required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	return token, token != ""
}
