package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	TablePrefix string
	// Storage
	StorageDriver string // "postgres" or "sqlite"
	DatabaseURL   string
	SQLitePath    string
	// Auth - empty JWKS URL disables bearer token verification
	AuthJWKSURL string
	// LLM Configuration
	AnthropicAPIKey string
	DefaultProvider string // empty: inferred from DefaultModel
	DefaultModel    string
	MaxTokens       int
	// Enrichment
	GoogleMapsAPIKey string
	PlaceCacheTTL    time.Duration
	LinkCheckTimeout time.Duration
	// Logging
	LogDir      string
	LogMaxFiles int
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix: getTablePrefix(env),
		// Storage
		StorageDriver: getEnv("STORAGE_DRIVER", getDefaultStorageDriver(env)),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		SQLitePath:    getEnv("SQLITE_PATH", "data/assistant.db"),
		// Auth
		AuthJWKSURL: getEnv("AUTH_JWKS_URL", ""),
		// LLM Configuration
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		DefaultProvider: getEnv("DEFAULT_PROVIDER", ""),
		DefaultModel:    getEnv("DEFAULT_MODEL", "claude-haiku-4-5-20251001"),
		MaxTokens:       getEnvInt("LLM_MAX_TOKENS", 8192),
		// Enrichment
		GoogleMapsAPIKey: getEnv("GOOGLE_MAPS_API_KEY", ""),
		PlaceCacheTTL:    getEnvDuration("PLACE_CACHE_TTL", time.Hour),
		LinkCheckTimeout: getEnvDuration("LINK_CHECK_TIMEOUT", 10*time.Second),
		// Logging
		LogDir:      getEnv("LOG_DIR", ""),
		LogMaxFiles: getEnvInt("LOG_MAX_FILES", 10),
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true" // Enable DEBUG in dev/test by default
}

// getDefaultStorageDriver keeps local development free of a Postgres dependency
func getDefaultStorageDriver(env string) string {
	if env == "prod" {
		return "postgres"
	}
	return "sqlite"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	// Auto-generate based on environment
	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	case "dev":
		return "dev_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}
