package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"biglibrary/internal/logger"
	"biglibrary/internal/store"
)

var errNameRequired = errors.New("name is required for 'create' command")

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, version, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	loadEnvFiles()
	log := logger.SetupDefault(os.Stdout, os.Getenv("LOG_LEVEL"))

	dir := migrationsDir()
	if *command == "create" {
		if err := run(nil, *command, *name, dir); err != nil {
			log.Error("migration failed", slog.String("command", *command), slog.Any("error", err))
			os.Exit(1)
		}
		log.Info("migration created", slog.String("name", *name), slog.String("dir", dir))
		return
	}

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Error("DB_DSN is not set")
		os.Exit(1)
	}

	pool, err := store.OpenPostgres(context.Background(), dsn)
	if err != nil {
		log.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := run(db, *command, *name, dir); err != nil {
		log.Error("migration failed", slog.String("command", *command), slog.Any("error", err))
		os.Exit(1)
	}
	log.Info("migration finished", slog.String("command", *command), slog.String("dsn", store.RedactDSN(dsn)))
}

func run(db *sql.DB, command, name, dir string) error {
	goose.SetBaseFS(nil)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	switch command {
	case "up":
		return goose.Up(db, dir)
	case "down":
		return goose.Down(db, dir)
	case "status":
		return goose.Status(db, dir)
	case "version":
		return goose.Version(db, dir)
	case "create":
		if name == "" {
			return errNameRequired
		}
		return goose.Create(nil, dir, name, "sql")
	default:
		return fmt.Errorf("unknown command %q, use: up, down, status, version, create", command)
	}
}
