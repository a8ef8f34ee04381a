package httpx

import (
	"context"
	"net/http"
)

type contextKey string

const (
	userIDKey    contextKey = "userID"
	emailKey     contextKey = "email"
	roleKey      contextKey = "role"
	requestIDKey contextKey = "requestID"
)

// Principal is the authenticated caller as established by a TokenVerifier.
type Principal struct {
	UserID string
	Email  string
	Role   string
}

// UserIDFrom retrieves the user ID from the request context.
func UserIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

// EmailFrom retrieves the signed-in email from the request context.
func EmailFrom(r *http.Request) string {
	if v, ok := r.Context().Value(emailKey).(string); ok {
		return v
	}
	return ""
}

// RoleFrom retrieves the user role from the request context.
func RoleFrom(r *http.Request) string {
	if v, ok := r.Context().Value(roleKey).(string); ok {
		return v
	}
	return ""
}

// PrincipalFrom returns the caller and whether one is present.
func PrincipalFrom(r *http.Request) (Principal, bool) {
	p := Principal{UserID: UserIDFrom(r), Email: EmailFrom(r), Role: RoleFrom(r)}
	return p, p.UserID != ""
}

// ContextWithUser returns a new context carrying the principal.
func ContextWithUser(ctx context.Context, p Principal) context.Context {
	ctx = context.WithValue(ctx, userIDKey, p.UserID)
	ctx = context.WithValue(ctx, emailKey, p.Email)
	return context.WithValue(ctx, roleKey, p.Role)
}

func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}
