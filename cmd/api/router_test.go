package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biglibrary/internal/article"
	"biglibrary/internal/catalog"
	"biglibrary/internal/favorites"
	"biglibrary/internal/gate"
	"biglibrary/internal/identity"
	"biglibrary/internal/metrics"
	"biglibrary/internal/platform/googlebooks"
	"biglibrary/internal/profile"
	"biglibrary/internal/testutil"
)

const adminEmail = "admin@example.com"

// fakeBooks answers /volumes and /volumes/{id} with canned data.
func fakeBooks(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/volumes" {
			_, _ = w.Write([]byte(`{"totalItems":1,"items":[{"id":"vol1","volumeInfo":{"title":"Go","imageLinks":{"thumbnail":"http://img/1"}}}]}`))
			return
		}
		id := strings.TrimPrefix(r.URL.Path, "/volumes/")
		if id != "vol1" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"id":"vol1","volumeInfo":{"title":"Go","authors":["Pike"],"description":"<b>Fast</b>","pageCount":300}}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	log := testutil.DiscardLogger()
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	allow := testutil.TestAllowList

	identitySvc := identity.NewService(testutil.NewMemoryAccounts(), testutil.NewMemoryBlacklist(), allow, "test-secret", time.Hour)
	profileSvc := profile.NewService(testutil.NewMemoryProfiles(), allow)
	books := googlebooks.NewClient(googlebooks.Options{BaseURL: fakeBooks(t).URL, Timeout: 5 * time.Second})
	catalogSvc := catalog.NewService(books, collector, log)
	favoritesSvc := favorites.NewService(testutil.NewMemoryFavorites(), log)

	return newRouter(RouterDeps{
		Logger:        log,
		Verifier:      identitySvc,
		HTTPRecorder:  collector,
		Metrics:       metrics.Handler(registry),
		MaxBodyBytes:  1 << 20,
		Identity:      identity.NewHTTPHandler(identitySvc, profileSvc, log),
		Profiles:      profile.NewHTTPHandler(profileSvc, log),
		Catalog:       catalog.NewHTTPHandler(catalogSvc, log),
		Favorites:     favorites.NewHTTPHandler(favoritesSvc, log),
		FavoritesView: favorites.NewView(favoritesSvc, catalogSvc, collector, log),
		Articles:      article.NewHTTPHandler(article.NewService(testutil.NewMemoryArticles()), log),
		Gate:          gate.NewHTTPHandler(),
	})
}

func do(h http.Handler, r *http.Request) testutil.RecordResponse {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return testutil.RecordHTTPResponse(w)
}

func signUp(t *testing.T, h http.Handler, email string) string {
	t.Helper()
	resp := do(h, testutil.NewRequest(http.MethodPost, "/v1/auth/signup", map[string]string{"email": email, "password": "secret1"}))
	require.Equal(t, http.StatusCreated, resp.Code)
	data := resp.Body["data"].(map[string]interface{})
	return data["token"].(string)
}

func TestRouter_Health(t *testing.T) {
	h := newTestServer(t)

	assert.Equal(t, http.StatusOK, do(h, testutil.NewRequest(http.MethodGet, "/healthz", nil)).Code)
	assert.Equal(t, http.StatusOK, do(h, testutil.NewRequest(http.MethodGet, "/readyz", nil)).Code)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, testutil.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "biglibrary_http_requests_total")
}

func TestRouter_SignUpLoginLogout(t *testing.T) {
	h := newTestServer(t)

	token := signUp(t, h, "student@example.com")

	me := do(h, testutil.NewRequestWithAuth(http.MethodGet, "/v1/auth/me", nil, token))
	require.Equal(t, http.StatusOK, me.Code)
	assert.Equal(t, false, me.Body["data"].(map[string]interface{})["isAdmin"])

	prof := do(h, testutil.NewRequestWithAuth(http.MethodGet, "/v1/me/profile", nil, token))
	require.Equal(t, http.StatusOK, prof.Code)
	assert.Equal(t, "student", prof.Body["data"].(map[string]interface{})["role"])

	assert.Equal(t, http.StatusNoContent, do(h, testutil.NewRequestWithAuth(http.MethodPost, "/v1/auth/logout", nil, token)).Code)
	assert.Equal(t, http.StatusUnauthorized, do(h, testutil.NewRequestWithAuth(http.MethodGet, "/v1/auth/me", nil, token)).Code)

	login := do(h, testutil.NewRequest(http.MethodPost, "/v1/auth/login", map[string]string{"email": "student@example.com", "password": "wrong1"}))
	assert.Equal(t, http.StatusUnauthorized, login.Code)
}

func TestRouter_FavoritesFlatShapes(t *testing.T) {
	h := newTestServer(t)

	unauth := do(h, testutil.NewRequest(http.MethodGet, "/favorites", nil))
	assert.Equal(t, http.StatusUnauthorized, unauth.Code)
	assert.Equal(t, "Missing authorization token", unauth.Body["error"])

	token := signUp(t, h, "student@example.com")
	body := map[string]string{"bookId": "vol1", "title": "Go"}

	first := do(h, testutil.NewRequestWithAuth(http.MethodPost, "/favorites", body, token))
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, true, first.Body["success"])

	second := do(h, testutil.NewRequestWithAuth(http.MethodPost, "/v1/favorites", body, token))
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "Book already in favorites", second.Body["message"])

	check := do(h, testutil.NewRequestWithAuth(http.MethodGet, "/favorites/check?bookId=vol1", nil, token))
	assert.Equal(t, true, check.Body["favorited"])

	list := do(h, testutil.NewRequestWithAuth(http.MethodGet, "/favorites", nil, token))
	assert.Len(t, list.Body["favorites"], 1)

	rm := do(h, testutil.NewRequestWithAuth(http.MethodDelete, "/favorites", map[string]string{"bookId": "vol1"}, token))
	assert.Equal(t, true, rm.Body["success"])

	check = do(h, testutil.NewRequestWithAuth(http.MethodGet, "/favorites/check?bookId=vol1", nil, token))
	assert.Equal(t, false, check.Body["favorited"])
}

func TestRouter_FavoritesViewEnriches(t *testing.T) {
	h := newTestServer(t)
	token := signUp(t, h, "student@example.com")

	for _, id := range []string{"vol1", "gone"} {
		resp := do(h, testutil.NewRequestWithAuth(http.MethodPost, "/favorites", map[string]string{"bookId": id, "title": "T-" + id}, token))
		require.Equal(t, http.StatusOK, resp.Code)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, testutil.NewRequestWithAuth(http.MethodGet, "/v1/favorites/view?page=1&page_size=10", nil, token))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []favorites.Entry `json:"data"`
		Meta map[string]any    `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.Len(t, body.Data, 2)
	assert.Equal(t, float64(2), body.Meta["total"])

	byID := map[string]favorites.Entry{}
	for _, e := range body.Data {
		byID[e.ID] = e
	}
	assert.True(t, byID["vol1"].Enriched)
	assert.Equal(t, []string{"Pike"}, byID["vol1"].Authors)
	assert.Equal(t, "Fast", byID["vol1"].Description)
	assert.False(t, byID["gone"].Enriched)
	assert.Equal(t, "T-gone", byID["gone"].Title)
}

func TestRouter_CatalogSearch(t *testing.T) {
	h := newTestServer(t)
	token := signUp(t, h, "student@example.com")

	assert.Equal(t, http.StatusUnauthorized, do(h, testutil.NewRequest(http.MethodGet, "/v1/catalog/search?q=go", nil)).Code)

	resp := do(h, testutil.NewRequestWithAuth(http.MethodGet, "/v1/catalog/search?q=go", nil, token))
	require.Equal(t, http.StatusOK, resp.Code)
	items := resp.Body["data"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "https://img/1", items[0].(map[string]interface{})["imageUrl"])
}

func TestRouter_ArticlesRequireAdmin(t *testing.T) {
	h := newTestServer(t)
	student := signUp(t, h, "student@example.com")
	admin := signUp(t, h, adminEmail)
	in := map[string]string{"title": "Hello", "description": "Intro", "content": "<p>Body</p>"}

	denied := do(h, testutil.NewRequestWithAuth(http.MethodPost, "/v1/articles", in, student))
	assert.Equal(t, http.StatusForbidden, denied.Code)

	created := do(h, testutil.NewRequestWithAuth(http.MethodPost, "/v1/articles", in, admin))
	require.Equal(t, http.StatusCreated, created.Code)
	id := created.Body["data"].(map[string]interface{})["id"].(string)

	list := do(h, testutil.NewRequestWithAuth(http.MethodGet, "/v1/articles", nil, student))
	require.Equal(t, http.StatusOK, list.Code)
	assert.Len(t, list.Body["data"], 1)

	patched := do(h, testutil.NewRequestWithAuth(http.MethodPatch, "/v1/articles/"+id, map[string]string{"title": "Hello again"}, admin))
	require.Equal(t, http.StatusOK, patched.Code)
	data := patched.Body["data"].(map[string]interface{})
	assert.Equal(t, "Hello again", data["title"])
	assert.NotNil(t, data["updatedAt"])

	assert.Equal(t, http.StatusForbidden, do(h, testutil.NewRequestWithAuth(http.MethodDelete, "/v1/articles/"+id, nil, student)).Code)
	assert.Equal(t, http.StatusNoContent, do(h, testutil.NewRequestWithAuth(http.MethodDelete, "/v1/articles/"+id, nil, admin)).Code)
	assert.Equal(t, http.StatusNotFound, do(h, testutil.NewRequestWithAuth(http.MethodDelete, "/v1/articles/"+id, nil, admin)).Code)
}

func TestRouter_Gate(t *testing.T) {
	h := newTestServer(t)
	student := signUp(t, h, "student@example.com")
	admin := signUp(t, h, adminEmail)

	tests := []struct {
		name       string
		token      string
		wantStatus int
		wantLoc    string
	}{
		{"anonymous", "", http.StatusTemporaryRedirect, "/app/"},
		{"student", student, http.StatusTemporaryRedirect, "/app/"},
		{"admin", admin, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, testutil.NewRequestWithAuth(http.MethodGet, "/app/admin", nil, tt.token))
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantLoc, w.Header().Get("Location"))
		})
	}
}
