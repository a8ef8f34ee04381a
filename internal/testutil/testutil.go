// Package testutil holds fixtures and fakes shared by package tests.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"biglibrary/internal/httpx"
	"biglibrary/internal/identity"
	"biglibrary/internal/role"
)

// TestStudent is a signed-in user without admin rights.
var TestStudent = httpx.Principal{
	UserID: "test-user-id-123",
	Email:  "student@example.com",
	Role:   role.Student,
}

// TestAdmin is a signed-in user on the allow-list.
var TestAdmin = httpx.Principal{
	UserID: "test-admin-id-456",
	Email:  "admin@example.com",
	Role:   role.Admin,
}

// TestAllowList contains TestAdmin's email only.
var TestAllowList = role.NewAllowList(TestAdmin.Email)

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// StaticVerifier maps bearer tokens to principals.
type StaticVerifier map[string]httpx.Principal

func (v StaticVerifier) VerifyToken(_ context.Context, token string) (httpx.Principal, error) {
	if p, ok := v[token]; ok {
		return p, nil
	}
	return httpx.Principal{}, errors.New("unknown token")
}

// Tokens used with DefaultVerifier.
const (
	StudentToken = "student-token"
	AdminToken   = "admin-token"
)

// DefaultVerifier accepts StudentToken and AdminToken.
func DefaultVerifier() StaticVerifier {
	return StaticVerifier{StudentToken: TestStudent, AdminToken: TestAdmin}
}

// GenerateTestToken generates a real signed token for testing.
func GenerateTestToken(secret string, p httpx.Principal) string {
	tok, _ := identity.GenerateToken(secret, p.UserID, p.Email, p.Role, time.Hour)
	return tok.Value
}

// GenerateExpiredToken generates an expired token for testing.
func GenerateExpiredToken(secret string, p httpx.Principal) string {
	c := identity.Claims{
		Sub:   p.UserID,
		Email: p.Email,
		Role:  p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	token, _ := t.SignedString([]byte(secret))
	return token
}

// NewRequest creates a new HTTP request for testing
func NewRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		if s, ok := body.(string); ok {
			bodyBytes = []byte(s)
		} else {
			bodyBytes, _ = json.Marshal(body)
		}
	}
	var r *http.Request
	if bodyBytes != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// NewRequestWithAuth creates a new HTTP request with a bearer token
func NewRequestWithAuth(method, path string, body interface{}, token string) *http.Request {
	r := NewRequest(method, path, body)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

// RecordResponse records the HTTP response for testing
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]interface{}
}

// RecordHTTPResponse records the HTTP response
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]interface{}
	if len(bodyBytes) > 0 {
		_ = json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
	}
}
