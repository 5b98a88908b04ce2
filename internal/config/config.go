package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Catalog connection
	CatalogURL    string
	CatalogAPIKey string
	HTTPTimeout   time.Duration

	// Auth
	AdminAPIKey string

	// Forest cache
	ForestTTL      time.Duration
	FailedFetchTTL time.Duration

	// Import worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool

	// Observability
	MetricsEnabled bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		CatalogURL:    envOr("CATALOG_URL", "http://localhost:8080"),
		CatalogAPIKey: os.Getenv("CATALOG_API_KEY"),
		HTTPTimeout:   envDuration("HTTP_TIMEOUT", 30*time.Second),

		AdminAPIKey: os.Getenv("ADMIN_API_KEY"),

		ForestTTL:      envDuration("FOREST_TTL", 5*time.Minute),
		FailedFetchTTL: envDuration("FAILED_FETCH_TTL", 10*time.Second),

		WorkerCount:  envInt("WORKER_COUNT", 2),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 20),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		MetricsEnabled: envBool("METRICS_ENABLED", true),
	}

	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	if cfg.ForestTTL <= 0 {
		cfg.ForestTTL = 5 * time.Minute
	}
	if cfg.FailedFetchTTL <= 0 {
		cfg.FailedFetchTTL = 10 * time.Second
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 20
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.CatalogURL == "" {
		return fmt.Errorf("CATALOG_URL is required")
	}
	if c.CatalogAPIKey == "" {
		return fmt.Errorf("CATALOG_API_KEY is required")
	}
	if c.AdminAPIKey == "" {
		return fmt.Errorf("ADMIN_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
