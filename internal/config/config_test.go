package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "CATALOG_URL", "FOREST_TTL", "WORKER_COUNT", "MAX_UPLOAD_BYTES", "METRICS_ENABLED"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "8090" {
		t.Errorf("expected port %q, got %q", "8090", cfg.Port)
	}
	if cfg.CatalogURL != "http://localhost:8080" {
		t.Errorf("expected catalog url default, got %q", cfg.CatalogURL)
	}
	if cfg.ForestTTL != 5*time.Minute {
		t.Errorf("expected forest ttl 5m, got %s", cfg.ForestTTL)
	}
	if cfg.WorkerCount != 2 {
		t.Errorf("expected 2 workers, got %d", cfg.WorkerCount)
	}
	if cfg.MaxUploadBytes != 10485760 {
		t.Errorf("expected 10MB upload limit, got %d", cfg.MaxUploadBytes)
	}
	if !cfg.MetricsEnabled {
		t.Error("expected metrics enabled by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("FOREST_TTL", "30s")
	t.Setenv("WORKER_COUNT", "8")
	t.Setenv("PDF_FALLBACK_PDFTOTEXT", "false")
	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("expected port %q, got %q", "9000", cfg.Port)
	}
	if cfg.ForestTTL != 30*time.Second {
		t.Errorf("expected forest ttl 30s, got %s", cfg.ForestTTL)
	}
	if cfg.WorkerCount != 8 {
		t.Errorf("expected 8 workers, got %d", cfg.WorkerCount)
	}
	if cfg.PDFFallbackPdftotext {
		t.Error("expected pdftotext fallback disabled")
	}
}

func TestLoad_InvalidFallsBack(t *testing.T) {
	t.Setenv("WORKER_COUNT", "-3")
	t.Setenv("MAX_QUEUE_SIZE", "lots")
	t.Setenv("JOB_TTL", "forever")
	cfg := Load()
	if cfg.WorkerCount != 2 {
		t.Errorf("expected fallback to 2 workers, got %d", cfg.WorkerCount)
	}
	if cfg.MaxQueueSize != 20 {
		t.Errorf("expected fallback queue size 20, got %d", cfg.MaxQueueSize)
	}
	if cfg.JobTTL != time.Hour {
		t.Errorf("expected fallback job ttl 1h, got %s", cfg.JobTTL)
	}
}

func TestValidate(t *testing.T) {
	base := Config{CatalogURL: "http://catalog", CatalogAPIKey: "c", AdminAPIKey: "a"}
	if err := base.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := map[string]func(*Config){
		"missing catalog key": func(c *Config) { c.CatalogAPIKey = "" },
		"missing admin key":   func(c *Config) { c.AdminAPIKey = "" },
		"missing catalog url": func(c *Config) { c.CatalogURL = "" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := base
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
