// Command bigctl is an interactive terminal client for the Big Library API.
// The bearer token lives in memory for the lifetime of the process.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"biglibrary/internal/catalog"
	"biglibrary/internal/client"
	"biglibrary/internal/config"
	"biglibrary/internal/logger"
	"biglibrary/internal/role"
	"biglibrary/internal/session"
)

func main() {
	config.LoadEnvFiles()

	var (
		addr     = flag.String("addr", envOr("BIGLIBRARY_URL", "http://localhost:8080"), "API base URL")
		admins   = flag.String("admins", os.Getenv("ADMIN_EMAILS"), "Comma-separated admin allow-list")
		pageSize = flag.Int("page-size", catalog.DefaultLimit, "Items per page")
		logLevel = flag.String("log-level", envOr("LOG_LEVEL", "warn"), "Log level")
	)
	flag.Parse()

	log := logger.New(os.Stderr, *logLevel)
	api := client.New(client.Options{
		BaseURL:   *addr,
		UserAgent: "bigctl/1.0",
		Timeout:   15 * time.Second,
		Logger:    log,
	})
	resolver := session.NewResolver(api, api, role.ParseAllowList(*admins), log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sh := newShell(api, resolver, os.Stdout, *pageSize)
	sh.watch(ctx)

	if flag.NArg() > 0 {
		if err := sh.exec(ctx, strings.Join(flag.Args(), " ")); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		return
	}
	if err := sh.loop(ctx, os.Stdin); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
