package article_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biglibrary/internal/article"
	"biglibrary/internal/httpx"
	"biglibrary/internal/testutil"
)

func newArticlesRouter() http.Handler {
	h := article.NewHTTPHandler(article.NewService(testutil.NewMemoryArticles()), testutil.DiscardLogger())
	r := chi.NewRouter()
	r.Route("/v1/articles", func(r chi.Router) {
		r.Use(httpx.AuthMiddleware(testutil.DefaultVerifier()))
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Group(func(r chi.Router) {
			r.Use(httpx.RequireAdmin)
			r.Post("/", h.Create)
			r.Patch("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
	return r
}

func do(h http.Handler, r *http.Request) testutil.RecordResponse {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return testutil.RecordHTTPResponse(w)
}

func TestHTTPHandler_AdminOnlyWrites(t *testing.T) {
	router := newArticlesRouter()
	body := map[string]string{"title": "T", "description": "D", "content": "C"}

	resp := do(router, testutil.NewRequestWithAuth(http.MethodPost, "/v1/articles", body, testutil.StudentToken))
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = do(router, testutil.NewRequest(http.MethodGet, "/v1/articles", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = do(router, testutil.NewRequestWithAuth(http.MethodPost, "/v1/articles", body, testutil.AdminToken))
	require.Equal(t, http.StatusCreated, resp.Code)
	data := resp.Body["data"].(map[string]interface{})
	assert.Equal(t, testutil.TestAdmin.Email, data["author"])
	id := data["id"].(string)

	resp = do(router, testutil.NewRequestWithAuth(http.MethodGet, "/v1/articles", nil, testutil.StudentToken))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, resp.Body["data"], 1)

	resp = do(router, testutil.NewRequestWithAuth(http.MethodPatch, "/v1/articles/"+id, map[string]string{"description": "New"}, testutil.AdminToken))
	require.Equal(t, http.StatusOK, resp.Code)
	data = resp.Body["data"].(map[string]interface{})
	assert.Equal(t, "New", data["description"])
	assert.NotEmpty(t, data["updatedAt"])

	resp = do(router, testutil.NewRequestWithAuth(http.MethodDelete, "/v1/articles/"+id, nil, testutil.StudentToken))
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = do(router, testutil.NewRequestWithAuth(http.MethodDelete, "/v1/articles/"+id, nil, testutil.AdminToken))
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = do(router, testutil.NewRequestWithAuth(http.MethodDelete, "/v1/articles/"+id, nil, testutil.AdminToken))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHTTPHandler_Create_MissingFields(t *testing.T) {
	router := newArticlesRouter()

	resp := do(router, testutil.NewRequestWithAuth(http.MethodPost, "/v1/articles", map[string]string{"title": "T"}, testutil.AdminToken))

	require.Equal(t, http.StatusBadRequest, resp.Code)
	errBody := resp.Body["error"].(map[string]interface{})
	assert.Equal(t, "Please fill in all fields", errBody["message"])
}
