// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/librerose/sitebook/internal/domain"
)

// Store drivers accepted in STORE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// defaultMaxBodyBytes caps request bodies at 1 MiB.
const defaultMaxBodyBytes = 1 << 20

// defaultExportMaxDays lets one export cover up to a leap year.
const defaultExportMaxDays = 366

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"].
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// StoreDriver selects the document store: "postgres" (default) or "mongo".
	StoreDriver string

	// DatabaseURL is the Postgres connection string. Required for postgres.
	DatabaseURL string

	// MongoURL is the MongoDB connection string. Required for mongo.
	MongoURL string

	// MongoDatabase is the MongoDB database name. Defaults to "sitebook".
	MongoDatabase string

	// ExportDir is the directory temporary workbooks are written to.
	// Optional: when empty, export requests fail with a configuration error
	// while the rest of the API keeps working.
	ExportDir string

	// ExportMaxDays caps the number of days one export may cover.
	// Defaults to 366; 0 removes the cap.
	ExportMaxDays int

	// Site is the service site whose ledger this server keeps.
	// SITE_ID, SITE_NAME and SITE_CODE are required.
	Site domain.Site

	// MaxBodyBytes limits request body sizes. Defaults to 1 MiB.
	MaxBodyBytes int64
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		CORSOrigins:   splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		StoreDriver:   strings.ToLower(getEnv("STORE_DRIVER", DriverPostgres)),
		MongoDatabase: getEnv("MONGO_DATABASE", "sitebook"),
		ExportDir:     os.Getenv("EXCEL_EXPORT_TEMP_PATH"),
	}

	var missing []string
	require := func(key string) string {
		v := os.Getenv(key)
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	switch cfg.StoreDriver {
	case DriverPostgres:
		cfg.DatabaseURL = require("DATABASE_URL")
	case DriverMongo:
		cfg.MongoURL = require("MONGO_URL")
	default:
		return Config{}, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverMongo, cfg.StoreDriver)
	}

	cfg.Site = domain.Site{
		ID:   require("SITE_ID"),
		Name: require("SITE_NAME"),
		Code: require("SITE_CODE"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	maxBody, err := strconv.ParseInt(getEnv("MAX_BODY_BYTES", strconv.Itoa(defaultMaxBodyBytes)), 10, 64)
	if err != nil || maxBody <= 0 {
		return Config{}, fmt.Errorf("MAX_BODY_BYTES must be a positive integer, got %q", os.Getenv("MAX_BODY_BYTES"))
	}
	cfg.MaxBodyBytes = maxBody

	maxDays, err := strconv.Atoi(getEnv("EXPORT_MAX_DAYS", strconv.Itoa(defaultExportMaxDays)))
	if err != nil || maxDays < 0 {
		return Config{}, fmt.Errorf("EXPORT_MAX_DAYS must be a non-negative integer, got %q", os.Getenv("EXPORT_MAX_DAYS"))
	}
	cfg.ExportMaxDays = maxDays

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
