package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"sort"
	"time"

	"biglibrary/internal/article"
	"biglibrary/internal/config"
	"biglibrary/internal/logger"
	"biglibrary/internal/role"
	"biglibrary/internal/store"
)

type sample struct {
	title, description, category, content string
}

var samples = []sample{
	{
		title:       "Welcome to Big Library",
		description: "What the library offers and how to find your way around.",
		category:    "News",
		content:     "<p>Browse millions of titles through the catalog, keep a personal list of favorites and read articles written by the library staff.</p>",
	},
	{
		title:       "Searching the catalog",
		description: "Tips for getting better results from the search box.",
		category:    "Guides",
		content:     "<p>Search by title, author or subject. Use the category filter to narrow results and switch the order to <em>newest</em> to see recent editions first.</p>",
	},
	{
		title:       "Building your favorites list",
		description: "Save books for later and keep track of what you want to read.",
		category:    "Guides",
		content:     "<p>Press the heart on any book to add it to your favorites. Your list keeps the cover and authors even when the catalog is slow to answer.</p>",
	},
}

func main() {
	var (
		driver = flag.String("driver", "", "Store driver: postgres or firestore (defaults to STORE_DRIVER)")
		force  = flag.Bool("force", false, "Seed even when articles already exist")
	)
	flag.Parse()

	config.LoadEnvFiles()
	log := logger.SetupDefault(os.Stdout, os.Getenv("LOG_LEVEL"))

	if *driver == "" {
		*driver = os.Getenv("STORE_DRIVER")
	}
	if *driver == "" {
		*driver = config.DriverPostgres
	}

	author := firstAdmin(role.ParseAllowList(os.Getenv("ADMIN_EMAILS")))
	if author == "" {
		log.Error("ADMIN_EMAILS is empty; seeded articles need an admin author")
		os.Exit(1)
	}

	ctx := context.Background()
	repo, closeRepo, err := openRepo(ctx, *driver)
	if err != nil {
		log.Error("failed to open store", slog.String("driver", *driver), slog.Any("error", err))
		os.Exit(1)
	}
	defer closeRepo()

	n, err := seed(ctx, article.NewService(repo), author, *force)
	if err != nil {
		log.Error("seed failed", slog.Any("error", err))
		os.Exit(1)
	}
	log.Info("seed finished", slog.Int("articles", n), slog.String("author", author))
}

func openRepo(ctx context.Context, driver string) (article.Repository, func(), error) {
	const timeout = 5 * time.Second

	if driver == config.DriverFirestore {
		fs, err := store.OpenFirestore(ctx, os.Getenv("FIRESTORE_PROJECT_ID"))
		if err != nil {
			return nil, nil, err
		}
		return article.NewFirestoreRepo(fs, timeout), func() { _ = fs.Close() }, nil
	}

	pool, err := store.OpenPostgres(ctx, os.Getenv("DB_DSN"))
	if err != nil {
		return nil, nil, err
	}
	return article.NewPostgresRepo(pool, timeout), pool.Close, nil
}

// firstAdmin picks a stable author from the allow-list.
func firstAdmin(allow role.AllowList) string {
	emails := allow.Emails()
	if len(emails) == 0 {
		return ""
	}
	sort.Strings(emails)
	return emails[0]
}

// seed publishes the sample articles unless some already exist.
func seed(ctx context.Context, svc *article.Service, author string, force bool) (int, error) {
	if !force {
		existing, err := svc.List(ctx)
		if err != nil {
			return 0, err
		}
		if len(existing) > 0 {
			return 0, nil
		}
	}

	for i, s := range samples {
		in := article.Input{Title: s.title, Description: s.description, Content: s.content, Category: s.category}
		if _, err := svc.Publish(ctx, author, in); err != nil {
			return i, err
		}
	}
	return len(samples), nil
}
