package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"biglibrary/internal/article"
	"biglibrary/internal/catalog"
	"biglibrary/internal/config"
	"biglibrary/internal/favorites"
	"biglibrary/internal/gate"
	"biglibrary/internal/httpx"
	"biglibrary/internal/identity"
	"biglibrary/internal/logger"
	"biglibrary/internal/metrics"
	"biglibrary/internal/platform/googlebooks"
	"biglibrary/internal/profile"
	"biglibrary/internal/role"
	"biglibrary/internal/store"
)

const blacklistCleanupInterval = time.Hour

func main() {
	config.LoadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	log := logger.SetupDefault(os.Stdout, cfg.LogLevel)
	if err := run(cfg, log); err != nil {
		log.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

// repositories are the document-store backed repos for the chosen driver.
type repositories struct {
	favorites favorites.Repository
	articles  article.Repository
	profiles  profile.Repository
	ready     func(ctx context.Context) error
	close     func()
}

func openRepositories(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) (repositories, error) {
	if cfg.StoreDriver != config.DriverFirestore {
		return repositories{
			favorites: favorites.NewPostgresRepo(pool, cfg.DBTimeout),
			articles:  article.NewPostgresRepo(pool, cfg.DBTimeout),
			profiles:  profile.NewPostgresRepo(pool, cfg.DBTimeout),
			ready:     pool.Ping,
			close:     func() {},
		}, nil
	}

	fs, err := store.OpenFirestore(ctx, cfg.FirestoreProjectID)
	if err != nil {
		return repositories{}, err
	}
	return repositories{
		favorites: favorites.NewFirestoreRepo(fs, cfg.DBTimeout),
		articles:  article.NewFirestoreRepo(fs, cfg.DBTimeout),
		profiles:  profile.NewFirestoreRepo(fs, cfg.DBTimeout),
		ready:     pool.Ping,
		close:     func() { _ = fs.Close() },
	}, nil
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := store.OpenPostgres(ctx, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer pool.Close()
	log.Info("database connection OK", slog.String("dsn", store.RedactDSN(cfg.DatabaseDSN)))

	repos, err := openRepositories(ctx, cfg, pool)
	if err != nil {
		return err
	}
	defer repos.close()
	log.Info("document store ready", slog.String("driver", cfg.StoreDriver))

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry)

	allow := role.ParseAllowList(cfg.AdminEmails)
	if allow.Len() == 0 {
		log.Warn("ADMIN_EMAILS is empty; nobody can manage articles")
	}

	blacklist := identity.NewBlacklistPG(pool)
	identitySvc := identity.NewService(identity.NewPostgresRepo(pool, cfg.DBTimeout), blacklist, allow, cfg.JWTSecret, cfg.TokenTTL)
	profileSvc := profile.NewService(repos.profiles, allow)

	books := googlebooks.NewClient(googlebooks.Options{
		BaseURL:    cfg.GoogleBooksBaseURL,
		APIKey:     cfg.GoogleBooksAPIKey,
		UserAgent:  "biglibrary/1.0",
		RPS:        cfg.CatalogRPS,
		MaxRetries: cfg.CatalogMaxRetries,
		Timeout:    cfg.CatalogTimeout,
	})
	catalogSvc := catalog.NewService(books, collector, log)
	favoritesSvc := favorites.NewService(repos.favorites, log)

	limiter := httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer limiter.Stop()

	handler := newRouter(RouterDeps{
		Logger:             log,
		Verifier:           identitySvc,
		HTTPRecorder:       collector,
		RateLimiter:        limiter,
		Metrics:            metrics.Handler(registry),
		Ready:              repos.ready,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		MaxBodyBytes:       cfg.MaxBodyBytes,
		EnableHSTS:         cfg.EnableHSTS,
		Identity:           identity.NewHTTPHandler(identitySvc, profileSvc, log),
		Profiles:           profile.NewHTTPHandler(profileSvc, log),
		Catalog:            catalog.NewHTTPHandler(catalogSvc, log),
		Favorites:          favorites.NewHTTPHandler(favoritesSvc, log),
		FavoritesView:      favorites.NewView(favoritesSvc, catalogSvc, collector, log),
		Articles:           article.NewHTTPHandler(article.NewService(repos.articles), log),
		Gate:               gate.NewHTTPHandler(),
	})

	go cleanupBlacklist(ctx, blacklist, log)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", slog.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func cleanupBlacklist(ctx context.Context, bl *identity.BlacklistPG, log *slog.Logger) {
	ticker := time.NewTicker(blacklistCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := bl.CleanupExpired(ctx)
			if err != nil {
				log.Warn("blacklist cleanup failed", slog.Any("error", err))
				continue
			}
			if n > 0 {
				log.Info("blacklist cleanup", slog.Int64("removed", n))
			}
		}
	}
}
