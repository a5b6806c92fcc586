package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mindlayout/pkg/cache"
	"github.com/matzehuels/mindlayout/pkg/graph"
	"github.com/matzehuels/mindlayout/pkg/observability"
)

// Cache key types reported to observability hooks.
const (
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute lays out a document and renders the result in one call.
func (r *Runner) Execute(ctx context.Context, doc graph.Document, opts Options) (*Result, error) {
	r.applyLogger(&opts)

	result := &Result{}
	result.Stats.NodeCount = len(doc.Nodes)
	result.Stats.EdgeCount = len(doc.Edges)
	if data, err := graph.MarshalDocument(doc); err == nil {
		result.DocHash = cache.Hash(data)
	}

	// Stage 1: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.ComputeLayout(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Document = graph.ApplyLayout(doc, l.Positions)
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"nodes", len(l.Positions),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, result.Document, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ComputeLayout lays out a document with caching and reports whether the
// result came from the cache.
func (r *Runner) ComputeLayout(ctx context.Context, doc graph.Document, opts Options) (l graph.Layout, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, false, err
	}
	if err := ValidateDocument(doc); err != nil {
		return graph.Layout{}, false, err
	}

	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnLayoutStart(ctx, opts.Strategy, len(doc.Nodes))
	defer func() {
		passes, converged := 0, false
		if l.Stats != nil {
			passes, converged = l.Stats.Passes, l.Stats.Converged
		}
		hooks.OnLayoutComplete(ctx, opts.Strategy, passes, converged, time.Since(start), err)
	}()

	docData, err := graph.MarshalDocument(doc)
	if err != nil {
		return graph.Layout{}, false, err
	}
	cacheKey := r.Keyer.LayoutKey(cache.Hash(docData), opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if cached, ok := r.cachedLayout(ctx, cacheKey); ok {
			opts.Logger.Debug("layout cache hit", "key", cacheKey)
			return cached, true, nil
		}
	}

	l, err = GenerateLayout(doc, opts)
	if err != nil {
		return graph.Layout{}, false, err
	}
	if l.Stats != nil && !l.Stats.Converged {
		opts.Logger.Warn("overlaps remain after final pass",
			"passes", l.Stats.Passes,
			"collisions", l.Stats.Collisions,
			"residual", l.Stats.Residual)
	}

	// Cache the result
	if data, err := graph.MarshalLayout(l); err == nil {
		r.store(ctx, keyTypeLayout, cacheKey, data, cache.TTLLayout)
	}

	return l, false, nil
}

// ResolveIncremental fixes overlaps after an edit without recomputing the
// layout. Results depend on the caller's current positions and are not cached.
func (r *Runner) ResolveIncremental(ctx context.Context, doc graph.Document, movable []string, opts Options) (l graph.Layout, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, err
	}
	if err := ValidateDocument(doc); err != nil {
		return graph.Layout{}, err
	}

	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnResolveStart(ctx, len(doc.Nodes), len(movable))
	defer func() {
		moved := l.Stats != nil && l.Stats.Moved > 0
		hooks.OnResolveComplete(ctx, moved, time.Since(start), err)
	}()

	l, err = ResolveOverlaps(doc, movable, opts)
	if err != nil {
		return graph.Layout{}, err
	}
	opts.Logger.Debug("resolved overlaps",
		"movable", len(movable),
		"moved", l.Stats.Moved,
		"residual", l.Stats.Residual,
		"duration", time.Since(start))
	return l, nil
}

// RenderWithCacheInfo renders a positioned document with caching and
// reports whether every artifact came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, doc graph.Document, opts Options) (artifacts map[string][]byte, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnRenderStart(ctx, opts.Formats)
	defer func() {
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	}()

	// Compute cache key from the positioned document
	docData, err := graph.MarshalDocument(doc)
	if err != nil {
		return nil, false, fmt.Errorf("serialize document for cache key: %w", err)
	}
	docHash := cache.Hash(docData)

	// Try to get all formats from cache
	artifacts = make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format))
		data, ok := r.lookup(ctx, keyTypeArtifact, cacheKey)
		if !ok {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil // All artifacts from cache
	}

	// Render all formats
	rendered, err := RenderDocument(ctx, doc, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format))
		r.store(ctx, keyTypeArtifact, cacheKey, data, cache.TTLArtifact)
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, doc graph.Document, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, doc, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// cachedLayout returns a cached layout if one exists and still decodes.
func (r *Runner) cachedLayout(ctx context.Context, key string) (graph.Layout, bool) {
	data, ok := r.lookup(ctx, keyTypeLayout, key)
	if !ok {
		return graph.Layout{}, false
	}
	l, err := graph.UnmarshalLayout(data)
	if err != nil {
		r.Logger.Debug("discarding unreadable cache entry", "key", key, "error", err)
		return graph.Layout{}, false
	}
	return l, true
}

// lookup reads the cache and reports hits and misses to the hooks. Backend
// errors count as misses.
func (r *Runner) lookup(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

// store writes to the cache; failures are logged and otherwise ignored.
func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
