package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/shopadmin/internal/catalog"
	"github.com/dgallion1/shopadmin/internal/categorytree"
	"github.com/dgallion1/shopadmin/internal/metrics"
	"github.com/dgallion1/shopadmin/internal/outline"
)

// Publisher replaces the catalog's category forest.
type Publisher interface {
	PublishForest(ctx context.Context, forest []*categorytree.Node) error
}

// Invalidator drops cached forests after a publish.
type Invalidator interface {
	Invalidate()
}

// lastPublished remembers the content hash of the most recent publish so
// re-uploads of an unchanged outline are skipped.
type lastPublished struct {
	mu   sync.Mutex
	hash string
}

func (l *lastPublished) get() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hash
}

func (l *lastPublished) set(h string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hash = h
}

// Worker processes a single import job.
type Worker struct {
	publisher   Publisher
	invalidator Invalidator
	log         *slog.Logger
	parserOpts  outline.Options
	published   *lastPublished
	backoff     func(attempt int) time.Duration
}

func NewWorker(pub Publisher, inv Invalidator, log *slog.Logger, opts outline.Options, published *lastPublished) *Worker {
	if published == nil {
		published = &lastPublished{}
	}
	return &Worker{
		publisher:   pub,
		invalidator: inv,
		log:         log,
		parserOpts:  opts,
		published:   published,
		backoff:     Backoff,
	}
}

// Process runs the full import pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)
	defer job.releaseFileData()
	defer func() {
		job.mu.Lock()
		status := job.Status
		job.mu.Unlock()
		metrics.Imports.WithLabelValues(string(status)).Inc()
	}()

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := outline.ForFile(job.Filename, w.parserOpts)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	forest, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	// Phase 2: Validate
	job.SetStatus(StatusValidating, "validating")
	idx, err := categorytree.Build(forest)
	if err != nil {
		log.Error("outline rejected", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "validating")
		return
	}
	stats := idx.Stats()
	job.SetStats(stats)
	if stats.Nodes == 0 {
		log.Warn("no categories found")
		job.AddError("no categories found in outline")
		job.SetStatus(StatusFailed, "validating")
		return
	}

	encoded, err := json.Marshal(forest)
	if err != nil {
		job.AddError(fmt.Sprintf("encode: %s", err))
		job.SetStatus(StatusFailed, "validating")
		return
	}
	hash := ContentHashHex(encoded)
	job.SetContentHash(hash)
	log.Info("outline validated",
		"categories", stats.Nodes,
		"roots", stats.Roots,
		"leaves", stats.Leaves,
		"max_depth", stats.MaxDepth,
	)

	if job.DryRun {
		job.SetStatus(StatusCompleted, "validated")
		return
	}

	// Phase 2.5: Dedup check
	if hash == w.published.get() {
		log.Info("forest unchanged since last publish, skipping", "content_hash", hash)
		job.SetStatus(StatusDupSkipped, "dedup")
		return
	}

	// Phase 3: Publish
	job.SetStatus(StatusPublishing, "publishing")
	var lastErr error
	for attempt := range MaxRetries {
		job.IncrAttempts()
		lastErr = w.publisher.PublishForest(ctx, forest)
		if lastErr == nil || !catalog.IsRetryable(lastErr) {
			break
		}
		log.Warn("retryable publish error", "attempt", attempt, "error", lastErr)
		if attempt == MaxRetries-1 {
			break
		}
		select {
		case <-time.After(w.backoff(attempt)):
			continue
		case <-ctx.Done():
			lastErr = ctx.Err()
		}
		break
	}
	if lastErr != nil {
		log.Error("publish failed", "error", lastErr)
		job.AddError(fmt.Sprintf("publish: %s", lastErr))
		job.SetStatus(StatusFailed, "publishing")
		return
	}

	w.published.set(hash)
	if w.invalidator != nil {
		w.invalidator.Invalidate()
	}
	log.Info("forest published", "content_hash", hash)
	job.SetStatus(StatusCompleted, "done")
}
