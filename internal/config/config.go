package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/ymurata/peoplewiki/internal/pkg/logger"
)

// Config carries everything the process reads from the environment.
type Config struct {
	AppEnv string
	Port   int

	// DatabaseURL is a postgres DSN. When empty the server falls back to
	// a local sqlite file, which keeps dev setups zero-config.
	DatabaseURL string
	SQLitePath  string
	Debug       bool

	// Asset host settings. An empty bucket disables image uploads; the
	// affected operations then fail with an upload error instead of
	// silently dropping the image.
	AssetBucket    string
	AssetCDNDomain string
}

// Load reads .env (best effort) and the process environment.
func Load(log *logger.Logger) *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn("could not read .env file", "error", err)
	}
	return &Config{
		AppEnv:         GetEnv("APP_ENV", "development", log),
		Port:           GetEnvAsInt("PORT", 8080, log),
		DatabaseURL:    GetEnv("DATABASE_URL", "", log),
		SQLitePath:     GetEnv("SQLITE_PATH", "people.db", log),
		Debug:          GetEnvAsBool("DEBUG", false, log),
		AssetBucket:    GetEnv("ASSET_GCS_BUCKET", "", log),
		AssetCDNDomain: GetEnv("ASSET_CDN_DOMAIN", "", log),
	}
}

// GetEnv returns the named variable or the fallback when unset.
func GetEnv(key, fallback string, log *logger.Logger) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

// GetEnvAsInt returns the named variable parsed as int, or the fallback
// when unset or unparseable.
func GetEnvAsInt(key string, fallback int, log *logger.Logger) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn("env var is not an integer, using fallback", "key", key, "value", v)
		return fallback
	}
	return n
}

// GetEnvAsBool returns the named variable parsed as bool, or the fallback
// when unset or unparseable.
func GetEnvAsBool(key string, fallback bool, log *logger.Logger) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn("env var is not a boolean, using fallback", "key", key, "value", v)
		return fallback
	}
	return b
}
