package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chemlayout/pkg/cache"
	"github.com/matzehuels/chemlayout/pkg/graph"
	"github.com/matzehuels/chemlayout/pkg/observability"
)

// Cache key types reported to observability hooks.
const (
	keyTypeGraph    = "graph"
	keyTypeScene    = "scene"
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

// Execute runs the complete parse → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Parse
	parseStart := time.Now()
	graphs, parseHit, err := r.ParseWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Graphs = graphs
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.GraphCount = len(graphs)
	result.Stats.NodeCount, result.Stats.EdgeCount = countGraphs(graphs)
	result.CacheInfo.ParseHit = parseHit
	if data, err := graph.MarshalDocument(graphs); err == nil {
		result.GraphHash = cache.Hash(data)
	}

	r.Logger.Info("parsed input",
		"format", opts.InputFormat,
		"graphs", describeGraphs(graphs),
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"duration", result.Stats.ParseTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	scene, layoutHit, err := r.GenerateSceneWithCacheInfo(ctx, graphs, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Scene = scene
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"arranged", scene.Arranged,
		"size", fmt.Sprintf("%.0fx%.0f", scene.Width, scene.Height),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, scene, opts)
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

// ParseWithCacheInfo parses the input with caching and returns cache hit info.
func (r *Runner) ParseWithCacheInfo(ctx context.Context, opts Options) ([]graph.Graph, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForParse(); err != nil {
		return nil, false, err
	}

	cacheKey := r.Keyer.GraphKey(cache.Hash([]byte(opts.Input)), opts.GraphKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if graphs, ok := r.cachedGraphs(ctx, cacheKey); ok {
			return graphs, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, opts.InputFormat)
	start := time.Now()
	graphs, err := Parse(ctx, opts)
	nodes, _ := countGraphs(graphs)
	hooks.OnParseComplete(ctx, opts.InputFormat, len(graphs), nodes, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := graph.MarshalDocument(graphs); err == nil {
		r.store(ctx, keyTypeGraph, cacheKey, data, cache.TTLGraph)
	}

	return graphs, false, nil
}

// Parse is a convenience wrapper that calls ParseWithCacheInfo and discards the cache hit info.
func (r *Runner) Parse(ctx context.Context, opts Options) ([]graph.Graph, error) {
	graphs, _, err := r.ParseWithCacheInfo(ctx, opts)
	return graphs, err
}

// GenerateSceneWithCacheInfo lays out graphs with caching and returns cache hit info.
func (r *Runner) GenerateSceneWithCacheInfo(ctx context.Context, graphs []graph.Graph, opts Options) (graph.Scene, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Scene{}, false, err
	}
	if len(graphs) == 0 {
		return graph.Scene{}, false, graph.ErrNoGraphs
	}

	graphData, err := graph.MarshalDocument(graphs)
	if err != nil {
		return graph.Scene{}, false, fmt.Errorf("serialize graphs for cache key: %w", err)
	}
	cacheKey := r.Keyer.SceneKey(cache.Hash(graphData), opts.SceneKeyOpts())

	if !opts.Refresh {
		if data, ok := r.lookup(ctx, keyTypeScene, cacheKey); ok {
			if s, err := graph.UnmarshalScene(data); err == nil {
				return s, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
	}

	mode := layoutMode(graphs, opts)
	nodes, _ := countGraphs(graphs)
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, mode, nodes)
	start := time.Now()
	s, outcome := generateScene(graphs, opts)
	hooks.OnLayoutComplete(ctx, mode, outcome, time.Since(start))

	r.Logger.Debug("layout finished", "mode", mode, "outcome", outcome)

	if data, err := graph.MarshalScene(s); err == nil {
		r.store(ctx, keyTypeScene, cacheKey, data, cache.TTLScene)
	}

	return s, false, nil
}

// GenerateScene is a convenience wrapper that calls GenerateSceneWithCacheInfo and discards the cache hit info.
func (r *Runner) GenerateScene(ctx context.Context, graphs []graph.Graph, opts Options) (graph.Scene, error) {
	s, _, err := r.GenerateSceneWithCacheInfo(ctx, graphs, opts)
	return s, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, s graph.Scene, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	sceneData, err := graph.MarshalScene(s)
	if err != nil {
		return nil, false, fmt.Errorf("serialize scene for cache key: %w", err)
	}
	sceneHash := cache.Hash(sceneData)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, ok := r.lookup(ctx, keyTypeArtifact, r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format)))
		if !ok {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(ctx, s, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		r.store(ctx, keyTypeArtifact, r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format)), data, cache.TTLArtifact)
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, s graph.Scene, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, s, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// cachedGraphs reads a cached graph document.
func (r *Runner) cachedGraphs(ctx context.Context, key string) ([]graph.Graph, bool) {
	data, ok := r.lookup(ctx, keyTypeGraph, key)
	if !ok {
		return nil, false
	}
	graphs, err := graph.ReadDocument(bytes.NewReader(data))
	if err != nil {
		return nil, false
	}
	return graphs, true
}

// lookup reads key from the cache and reports the hit or miss. Backend
// errors count as misses.
func (r *Runner) lookup(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

// store writes to the cache. Failures are logged and otherwise ignored.
func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "error", err)
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
