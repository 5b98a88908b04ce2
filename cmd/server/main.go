package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/shopadmin/internal/api"
	"github.com/dgallion1/shopadmin/internal/catalog"
	"github.com/dgallion1/shopadmin/internal/config"
	"github.com/dgallion1/shopadmin/internal/pipeline"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize catalog client and forest cache.
	client := catalog.NewClient(cfg.CatalogURL, cfg.CatalogAPIKey, cfg.HTTPTimeout)
	forests := catalog.NewCache(client,
		catalog.WithTTL(cfg.ForestTTL),
		catalog.WithFailedTTL(cfg.FailedFetchTTL),
		catalog.WithLogger(log.With("component", "forest_cache")),
	)

	// Initialize import pipeline.
	orch := pipeline.NewOrchestrator(cfg, client, forests, log.With("component", "import"))
	orch.Start(ctx)

	// Warm the cache; failures are logged and retried on first request.
	if _, err := forests.Snapshot(ctx); err != nil {
		log.Warn("initial forest fetch failed", "error", err)
	}

	// Initialize HTTP server.
	srv := api.NewServer(forests, orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
		client.Close()
	}()

	log.Info("starting shopadmin", "port", cfg.Port, "catalog_url", cfg.CatalogURL)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
