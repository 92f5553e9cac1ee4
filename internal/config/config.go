package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Record store
	DataBackend  string
	DataFile     string // empty means the embedded sample year
	SQLiteDBPath string
	ReadingYear  int

	// Google Books enrichment
	GoogleBooksAPIKey     string
	GoogleBooksMaxResults int
	EnrichDelay           time.Duration
	LookupCacheSize       int
	LookupCacheTTL        time.Duration

	// Site rendering
	SiteOutputDir  string
	FeaturedPolicy string

	// Logging
	LogLevel  string
	LogFormat string
}

var (
	validBackends         = []string{"memory", "sqlite"}
	validFeaturedPolicies = []string{"curated", "five-star"}
	validLogFormats       = []string{"text", "json"}
	validLogLevels        = []string{"debug", "info", "warn", "warning", "error"}
)

func Load() *Config {
	cfg := &Config{
		DataBackend:  getEnv("DATA_BACKEND", "memory"),
		DataFile:     getEnv("DATA_FILE", ""),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/bookyear.db"),
		ReadingYear:  getEnvInt("READING_YEAR", 2025),

		GoogleBooksAPIKey:     getEnv("GOOGLE_BOOKS_API_KEY", ""),
		GoogleBooksMaxResults: getEnvInt("GOOGLE_BOOKS_MAX_RESULTS", 5),
		EnrichDelay:           getEnvDuration("ENRICH_DELAY", 500*time.Millisecond),
		LookupCacheSize:       getEnvInt("LOOKUP_CACHE_SIZE", 256),
		LookupCacheTTL:        getEnvDuration("LOOKUP_CACHE_TTL", time.Hour),

		SiteOutputDir:  getEnv("SITE_OUTPUT_DIR", "./public"),
		FeaturedPolicy: getEnv("FEATURED_POLICY", "curated"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if !slices.Contains(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "sqlite" && c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
	}

	if c.DataFile != "" {
		switch strings.ToLower(filepath.Ext(c.DataFile)) {
		case ".json", ".yaml", ".yml":
		default:
			errors = append(errors, fmt.Sprintf("unsupported data file '%s': must end in .json, .yaml or .yml", c.DataFile))
		}
		if _, err := os.Stat(c.DataFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("data file does not exist: %s", c.DataFile))
		}
	}

	if c.ReadingYear < 1 || c.ReadingYear > 9999 {
		errors = append(errors, fmt.Sprintf("invalid reading year %d: must be between 1 and 9999", c.ReadingYear))
	}

	if c.GoogleBooksMaxResults < 1 || c.GoogleBooksMaxResults > 40 {
		errors = append(errors, fmt.Sprintf("invalid Google Books max results %d: must be between 1 and 40", c.GoogleBooksMaxResults))
	}

	if c.EnrichDelay < 0 {
		errors = append(errors, fmt.Sprintf("invalid enrich delay %v: must not be negative", c.EnrichDelay))
	} else if c.EnrichDelay > time.Minute {
		errors = append(errors, fmt.Sprintf("invalid enrich delay %v: must be at most 1 minute", c.EnrichDelay))
	}

	if c.LookupCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid lookup cache size %d: must be at least 1", c.LookupCacheSize))
	}
	if c.LookupCacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid lookup cache TTL %v: must be at least 1 second", c.LookupCacheTTL))
	}

	if c.SiteOutputDir == "" {
		errors = append(errors, "site output directory cannot be empty")
	}

	if !slices.Contains(validFeaturedPolicies, c.FeaturedPolicy) {
		errors = append(errors, fmt.Sprintf("invalid featured policy '%s': must be one of %v", c.FeaturedPolicy, validFeaturedPolicies))
	}

	if !slices.Contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLogLevels))
	}
	if !slices.Contains(validLogFormats, c.LogFormat) {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be one of %v", c.LogFormat, validLogFormats))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
