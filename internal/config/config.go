// Package config loads the server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres  = "postgres"
	DriverFirestore = "firestore"
)

// Config is read once at startup and treated as immutable.
type Config struct {
	Addr string

	// Store
	StoreDriver        string
	DatabaseDSN        string
	DBTimeout          time.Duration
	FirestoreProjectID string

	// Auth
	JWTSecret   string
	TokenTTL    time.Duration
	AdminEmails string

	// Catalog
	GoogleBooksAPIKey  string
	GoogleBooksBaseURL string
	CatalogRPS         int
	CatalogMaxRetries  int
	CatalogTimeout     time.Duration

	// HTTP
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
	MaxBodyBytes       int64
	EnableHSTS         bool

	LogLevel string
}

// LoadEnvFiles reads .env and .env.local without overriding variables that
// are already present in the environment.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load reads the configuration from the environment. It returns an error
// listing every required variable that is missing.
func Load() (*Config, error) {
	cfg := &Config{}
	var missing []string

	cfg.StoreDriver = strings.ToLower(getEnvString("STORE_DRIVER", DriverPostgres))
	switch cfg.StoreDriver {
	case DriverPostgres, DriverFirestore:
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
	}

	// Accounts and the token blacklist always live in Postgres.
	cfg.DatabaseDSN = os.Getenv("DB_DSN")
	if cfg.DatabaseDSN == "" {
		missing = append(missing, "DB_DSN")
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	cfg.FirestoreProjectID = os.Getenv("FIRESTORE_PROJECT_ID")
	if cfg.StoreDriver == DriverFirestore && cfg.FirestoreProjectID == "" {
		missing = append(missing, "FIRESTORE_PROJECT_ID")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	cfg.Addr = getEnvString("APP_ADDR", ":8080")
	cfg.DBTimeout = getEnvDuration("DB_TIMEOUT", 3*time.Second)
	cfg.TokenTTL = getEnvDuration("TOKEN_TTL", time.Hour)
	cfg.AdminEmails = os.Getenv("ADMIN_EMAILS")
	cfg.GoogleBooksAPIKey = os.Getenv("GOOGLE_BOOKS_API_KEY")
	cfg.GoogleBooksBaseURL = getEnvString("GOOGLE_BOOKS_BASE_URL", "https://www.googleapis.com/books/v1")
	cfg.CatalogRPS = getEnvInt("CATALOG_RPS", 10)
	cfg.CatalogMaxRetries = getEnvInt("CATALOG_MAX_RETRIES", 0)
	cfg.CatalogTimeout = getEnvDuration("CATALOG_TIMEOUT", 15*time.Second)
	cfg.CORSAllowedOrigins = splitList(getEnvString("CORS_ALLOWED_ORIGINS", "http://localhost:5173"))
	cfg.RateLimitRPS = getEnvFloat("RATE_LIMIT_RPS", 20)
	cfg.RateLimitBurst = getEnvInt("RATE_LIMIT_BURST", 40)
	cfg.MaxBodyBytes = getEnvInt64("MAX_BODY_BYTES", 1<<20)
	cfg.EnableHSTS = os.Getenv("ENABLE_HSTS") == "true"
	cfg.LogLevel = getEnvString("LOG_LEVEL", "info")

	if cfg.CatalogRPS <= 0 {
		cfg.CatalogRPS = 1
	}

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvFloat(key string, defaultVal float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
