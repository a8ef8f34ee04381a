package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"biglibrary/internal/article"
	"biglibrary/internal/catalog"
	"biglibrary/internal/favorites"
	"biglibrary/internal/gate"
	"biglibrary/internal/httpx"
	"biglibrary/internal/identity"
	"biglibrary/internal/profile"
)

// RouterDeps groups everything newRouter needs.
type RouterDeps struct {
	Logger       *slog.Logger
	Verifier     httpx.TokenVerifier
	HTTPRecorder httpx.HTTPRecorder
	RateLimiter  *httpx.RateLimitMiddleware
	Metrics      http.Handler
	Ready        func(ctx context.Context) error

	CORSAllowedOrigins []string
	MaxBodyBytes       int64
	EnableHSTS         bool

	Identity      *identity.HTTPHandler
	Profiles      *profile.HTTPHandler
	Catalog       *catalog.HTTPHandler
	Favorites     *favorites.HTTPHandler
	FavoritesView *favorites.View
	Articles      *article.HTTPHandler
	Gate          *gate.HTTPHandler
}

// newRouter builds the API.
//
// Middleware order: RequestID -> Recovery -> AccessLog -> SecurityHeaders ->
// CORS -> RequestSizeLimit -> RateLimit.
func newRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(httpx.RequestIDMiddleware)
	r.Use(httpx.RecoveryMiddleware(deps.Logger))
	r.Use(httpx.AccessLogMiddleware(deps.Logger, deps.HTTPRecorder))
	r.Use(httpx.SecurityHeadersMiddleware(deps.EnableHSTS))
	r.Use(httpx.CORSMiddleware(deps.CORSAllowedOrigins))
	r.Use(httpx.RequestSizeLimitMiddleware(deps.MaxBodyBytes))
	if deps.RateLimiter != nil {
		r.Use(deps.RateLimiter.Middleware)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if deps.Ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
			defer cancel()
			if err := deps.Ready(ctx); err != nil {
				http.Error(w, "store not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	favoriteRoutes := func(r chi.Router) {
		r.Use(httpx.BareAuthMiddleware(deps.Verifier))
		r.Post("/", deps.Favorites.Add)
		r.Delete("/", deps.Favorites.Remove)
		r.Get("/", deps.Favorites.List)
		r.Get("/check", deps.Favorites.Check)
	}
	r.Route("/favorites", favoriteRoutes)

	r.With(httpx.OptionalAuthMiddleware(deps.Verifier)).Get(gate.Prefix+"/*", deps.Gate.Screen)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", deps.Identity.SignUp)
			r.Post("/login", deps.Identity.Login)
			r.Post("/logout", deps.Identity.Logout)
			r.With(httpx.AuthMiddleware(deps.Verifier)).Get("/me", deps.Identity.Me)
		})

		r.Route("/favorites", func(r chi.Router) {
			r.Group(favoriteRoutes)
			r.With(httpx.AuthMiddleware(deps.Verifier)).Method(http.MethodGet, "/view", deps.FavoritesView)
		})

		r.Group(func(r chi.Router) {
			r.Use(httpx.AuthMiddleware(deps.Verifier))

			r.Put("/me/profile", deps.Profiles.Put)
			r.Get("/me/profile", deps.Profiles.Get)

			r.Get("/catalog/search", deps.Catalog.Search)
			r.Get("/catalog/volumes/{id}", deps.Catalog.GetVolume)

			r.Route("/articles", func(r chi.Router) {
				r.Get("/", deps.Articles.List)
				r.Get("/{id}", deps.Articles.Get)

				r.Group(func(r chi.Router) {
					r.Use(httpx.RequireAdmin)
					r.Post("/", deps.Articles.Create)
					r.Patch("/{id}", deps.Articles.Update)
					r.Delete("/{id}", deps.Articles.Delete)
				})
			})
		})
	})

	return r
}
