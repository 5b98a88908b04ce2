package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/shopadmin/internal/categorytree"
	"github.com/dgallion1/shopadmin/internal/metrics"
	"golang.org/x/sync/singleflight"
)

// ForestSource supplies the current category forest.
type ForestSource interface {
	FetchForest(ctx context.Context) ([]*categorytree.Node, error)
}

// Snapshot is an indexed forest as fetched at FetchedAt. It is shared
// between callers and must not be mutated.
type Snapshot struct {
	Forest    []*categorytree.Node
	Index     *categorytree.Index
	FetchedAt time.Time
}

// Cache keeps the latest indexed forest fresh for TTL. Concurrent misses
// share one fetch. Transport failures are remembered for FailedTTL and,
// when an older snapshot exists, the stale snapshot is served instead.
// Forests that fail integrity checks are never stored.
type Cache struct {
	src       ForestSource
	ttl       time.Duration
	failedTTL time.Duration
	log       *slog.Logger
	now       func() time.Time

	mu         sync.RWMutex
	snap       *Snapshot
	failErr    error
	failUntil  time.Time
	generation uint64

	flight singleflight.Group
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithTTL sets how long a snapshot is served without refetching.
func WithTTL(d time.Duration) CacheOption {
	return func(c *Cache) { c.ttl = d }
}

// WithFailedTTL sets how long a failed fetch is remembered.
func WithFailedTTL(d time.Duration) CacheOption {
	return func(c *Cache) { c.failedTTL = d }
}

// WithLogger sets the cache logger.
func WithLogger(log *slog.Logger) CacheOption {
	return func(c *Cache) { c.log = log }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) { c.now = now }
}

func NewCache(src ForestSource, opts ...CacheOption) *Cache {
	c := &Cache{
		src:       src,
		ttl:       5 * time.Minute,
		failedTTL: 10 * time.Second,
		log:       slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

const flightKey = "forest"

// Snapshot returns a fresh indexed forest, fetching it if needed.
func (c *Cache) Snapshot(ctx context.Context) (*Snapshot, error) {
	now := c.now()

	c.mu.RLock()
	snap, failErr, failUntil, gen := c.snap, c.failErr, c.failUntil, c.generation
	c.mu.RUnlock()

	if snap != nil && now.Sub(snap.FetchedAt) < c.ttl {
		metrics.ForestCacheHits.Inc()
		return snap, nil
	}
	if failErr != nil && now.Before(failUntil) {
		if snap != nil {
			return snap, nil
		}
		return nil, failErr
	}

	// The shared fetch outlives any single caller's cancellation.
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(flightKey, func() (any, error) {
		return c.refresh(fetchCtx, gen)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			var ie *categorytree.IntegrityError
			if snap != nil && !errors.As(res.Err, &ie) {
				c.log.Warn("serving stale forest", "error", res.Err, "fetched_at", snap.FetchedAt)
				return snap, nil
			}
			return nil, res.Err
		}
		return res.Val.(*Snapshot), nil
	}
}

func (c *Cache) refresh(ctx context.Context, gen uint64) (*Snapshot, error) {
	start := c.now()
	forest, err := c.src.FetchForest(ctx)
	if err != nil {
		metrics.ForestFetches.WithLabelValues("error").Inc()
		c.log.Error("fetch forest failed", "error", err)
		c.mu.Lock()
		if c.generation == gen {
			c.failErr = fmt.Errorf("fetch forest: %w", err)
			c.failUntil = c.now().Add(c.failedTTL)
		}
		failErr := c.failErr
		c.mu.Unlock()
		if failErr == nil {
			failErr = fmt.Errorf("fetch forest: %w", err)
		}
		return nil, failErr
	}

	buildStart := time.Now()
	idx, err := categorytree.Build(forest)
	metrics.ForestBuildDuration.Observe(time.Since(buildStart).Seconds())
	if err != nil {
		metrics.ForestFetches.WithLabelValues("integrity").Inc()
		c.log.Error("fetched forest rejected", "error", err)
		return nil, fmt.Errorf("index forest: %w", err)
	}

	snap := &Snapshot{Forest: forest, Index: idx, FetchedAt: start}
	stats := idx.Stats()
	metrics.ForestFetches.WithLabelValues("ok").Inc()
	metrics.ForestNodes.Set(float64(stats.Nodes))
	c.log.Info("forest indexed",
		"nodes", stats.Nodes,
		"roots", stats.Roots,
		"leaves", stats.Leaves,
		"max_depth", stats.MaxDepth,
	)

	c.mu.Lock()
	if c.generation == gen {
		c.snap = snap
		c.failErr = nil
	}
	c.mu.Unlock()
	return snap, nil
}

// Invalidate drops the cached snapshot and any remembered failure. Fetches
// already in flight do not repopulate the cache.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.snap = nil
	c.failErr = nil
	c.generation++
	c.mu.Unlock()
	c.flight.Forget(flightKey)
}
