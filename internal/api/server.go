package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dgallion1/shopadmin/internal/catalog"
	"github.com/dgallion1/shopadmin/internal/config"
	"github.com/dgallion1/shopadmin/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Forests supplies indexed category forests.
type Forests interface {
	Snapshot(ctx context.Context) (*catalog.Snapshot, error)
}

// Imports accepts outline import jobs.
type Imports interface {
	Submit(job *pipeline.Job) error
	GetJob(id string) *pipeline.Job
}

// Server is the HTTP API server for the category picker.
type Server struct {
	router  chi.Router
	forests Forests
	imports Imports
	log     *slog.Logger
	cfg     config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(forests Forests, imports Imports, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		forests: forests,
		imports: imports,
		log:     log,
		cfg:     cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	if s.cfg.MetricsEnabled {
		r.Use(RequestMetrics)
	}

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	if s.cfg.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.AdminAPIKey, s.log))

		r.Get("/api/categories/tree", s.handleTree)

		r.Route("/api/categories/selection", func(r chi.Router) {
			r.Post("/toggle", s.handleToggle)
			r.Post("/normalize", s.handleNormalize)
			r.Post("/coverage", s.handleCoverage)
			r.Post("/view", s.handleView)
		})

		if s.imports != nil {
			r.Post("/api/categories/import", s.handleImport)
			r.Get("/api/categories/import/{jobID}/status", s.handleImportStatus)
		}
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
