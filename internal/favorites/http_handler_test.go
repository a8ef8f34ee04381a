package favorites_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biglibrary/internal/favorites"
	"biglibrary/internal/httpx"
	"biglibrary/internal/testutil"
)

func newFavoritesRouter(repo favorites.Repository) http.Handler {
	h := favorites.NewHTTPHandler(favorites.NewService(repo, testutil.DiscardLogger()), testutil.DiscardLogger())
	r := chi.NewRouter()
	r.Route("/favorites", func(r chi.Router) {
		r.Use(httpx.BareAuthMiddleware(testutil.DefaultVerifier()))
		r.Post("/", h.Add)
		r.Delete("/", h.Remove)
		r.Get("/", h.List)
		r.Get("/check", h.Check)
	})
	return r
}

func serve(h http.Handler, r *http.Request) testutil.RecordResponse {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return testutil.RecordHTTPResponse(w)
}

func TestHTTPHandler_Unauthorized(t *testing.T) {
	router := newFavoritesRouter(testutil.NewMemoryFavorites())

	resp := serve(router, testutil.NewRequest(http.MethodGet, "/favorites", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "Missing authorization token", resp.Body["error"])

	resp = serve(router, testutil.NewRequestWithAuth(http.MethodGet, "/favorites", nil, "forged"))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "Invalid or expired token", resp.Body["error"])
}

func TestHTTPHandler_AddFlow(t *testing.T) {
	repo := testutil.NewMemoryFavorites()
	router := newFavoritesRouter(repo)
	body := map[string]any{"bookId": "zyTCAlFPjgYC", "title": "The Google Story", "authors": []string{"David A. Vise"}}

	resp := serve(router, testutil.NewRequestWithAuth(http.MethodPost, "/favorites", body, testutil.StudentToken))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, true, resp.Body["success"])
	assert.NotEmpty(t, resp.Body["id"])

	resp = serve(router, testutil.NewRequestWithAuth(http.MethodPost, "/favorites", body, testutil.StudentToken))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Book already in favorites", resp.Body["message"])
	assert.Equal(t, 1, repo.Count(testutil.TestStudent.UserID))

	resp = serve(router, testutil.NewRequestWithAuth(http.MethodGet, "/favorites/check?bookId=zyTCAlFPjgYC", nil, testutil.StudentToken))
	assert.Equal(t, true, resp.Body["favorited"])

	resp = serve(router, testutil.NewRequestWithAuth(http.MethodGet, "/favorites", nil, testutil.StudentToken))
	require.Equal(t, http.StatusOK, resp.Code)
	list := resp.Body["favorites"].([]interface{})
	require.Len(t, list, 1)
	first := list[0].(map[string]interface{})
	assert.Equal(t, "zyTCAlFPjgYC", first["bookId"])
	_, hasImage := first["imageUrl"]
	assert.False(t, hasImage)

	resp = serve(router, testutil.NewRequestWithAuth(http.MethodDelete, "/favorites", map[string]string{"bookId": "zyTCAlFPjgYC"}, testutil.StudentToken))
	assert.Equal(t, true, resp.Body["success"])

	resp = serve(router, testutil.NewRequestWithAuth(http.MethodGet, "/favorites/check?bookId=zyTCAlFPjgYC", nil, testutil.StudentToken))
	assert.Equal(t, false, resp.Body["favorited"])
}

func TestHTTPHandler_BadRequests(t *testing.T) {
	router := newFavoritesRouter(testutil.NewMemoryFavorites())

	resp := serve(router, testutil.NewRequestWithAuth(http.MethodPost, "/favorites", map[string]string{"bookId": "abc"}, testutil.StudentToken))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Missing required fields", resp.Body["error"])

	resp = serve(router, testutil.NewRequestWithAuth(http.MethodDelete, "/favorites", map[string]string{}, testutil.StudentToken))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Missing bookId", resp.Body["error"])

	resp = serve(router, testutil.NewRequestWithAuth(http.MethodGet, "/favorites/check", nil, testutil.StudentToken))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestHTTPHandler_StoreFailures(t *testing.T) {
	repo := testutil.NewMemoryFavorites()
	repo.Err = testutil.ErrStoreDown
	router := newFavoritesRouter(repo)

	resp := serve(router, testutil.NewRequestWithAuth(http.MethodGet, "/favorites", nil, testutil.StudentToken))
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, "Failed to fetch favorites", resp.Body["error"])

	resp = serve(router, testutil.NewRequestWithAuth(http.MethodGet, "/favorites/check?bookId=abc", nil, testutil.StudentToken))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, false, resp.Body["favorited"])
}
