// Package metrics holds the service's Prometheus collectors. They register
// with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SelectionOps counts selection engine calls by operation and result.
	SelectionOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shopadmin_selection_operations_total",
		Help: "Selection operations by operation and result",
	}, []string{"op", "result"})

	// ForestFetches counts catalog fetches by result (ok, error, integrity).
	ForestFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shopadmin_forest_fetches_total",
		Help: "Category forest fetches from the catalog by result",
	}, []string{"result"})

	ForestCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shopadmin_forest_cache_hits_total",
		Help: "Forest snapshot requests served from cache",
	})

	ForestNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "shopadmin_forest_nodes",
		Help: "Categories in the most recently indexed forest",
	})

	ForestBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "shopadmin_forest_build_duration_seconds",
		Help:    "Time to index a fetched forest",
		Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1},
	})

	// Imports counts finished import jobs by final status.
	Imports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shopadmin_imports_total",
		Help: "Outline import jobs by final status",
	}, []string{"status"})

	ImportQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "shopadmin_import_queue_depth",
		Help: "Import jobs waiting for a worker",
	})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shopadmin_http_request_duration_seconds",
		Help:    "HTTP request duration by route and status",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "status"})
)
