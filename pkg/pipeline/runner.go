package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/patentfig/pkg/cache"
	"github.com/matzehuels/patentfig/pkg/diagram"
	"github.com/matzehuels/patentfig/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// The CLI, the HTTP API and the MCP server all use it so caching behaves the
// same everywhere.
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
// Spec errors from package diagram are returned wrapped, so callers can
// still match them with errors.As.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Parse
	parseStart := time.Now()
	s, err := Parse(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Stats.ParseTime = time.Since(parseStart)
	if s.Kind == KindFlow {
		result.Stats.StepCount = len(s.Steps)
	} else {
		result.Stats.BlockCount = len(s.Blocks)
	}

	r.Logger.Debug("parsed graph spec",
		"kind", s.Kind,
		"count", s.Count(),
		"duration", result.Stats.ParseTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	scene, sceneHit, err := r.BuildSceneWithCacheInfo(ctx, s, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Scene = scene
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.ConnectorCount = len(scene.Connectors)
	result.CacheInfo.SceneHit = sceneHit

	if sceneData, err := diagram.MarshalScene(scene); err == nil {
		result.SceneHash = cache.Hash(sceneData)
	}

	r.Logger.Info("built scene",
		"kind", scene.Kind,
		"connectors", len(scene.Connectors),
		"cached", sceneHit,
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
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// BuildSceneWithCacheInfo lays out a decoded spec with caching and returns
// cache hit info.
func (r *Runner) BuildSceneWithCacheInfo(ctx context.Context, s Spec, opts Options) (diagram.Scene, bool, error) {
	r.applyLogger(&opts)
	hooks := observability.Cache()

	specHash, err := s.Hash()
	if err != nil {
		return diagram.Scene{}, false, err
	}
	opts.Kind = s.Kind
	cacheKey := r.Keyer.SceneKey(specHash, opts.SceneKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			cached, err := diagram.UnmarshalScene(data)
			if err == nil {
				hooks.OnCacheHit(ctx, "scene")
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		} else if err != nil {
			opts.Logger.Warn("scene cache read failed", "error", err)
		}
	}
	hooks.OnCacheMiss(ctx, "scene")

	scene, err := GenerateScene(ctx, s, opts)
	if err != nil {
		return diagram.Scene{}, false, err
	}

	if data, err := diagram.MarshalScene(scene); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLScene); err != nil {
			opts.Logger.Warn("scene cache write failed", "error", err)
		} else {
			hooks.OnCacheSet(ctx, "scene", len(data))
		}
	}

	return scene, false, nil
}

// BuildScene is a convenience wrapper that calls BuildSceneWithCacheInfo and
// discards the cache hit info.
func (r *Runner) BuildScene(ctx context.Context, s Spec, opts Options) (diagram.Scene, error) {
	scene, _, err := r.BuildSceneWithCacheInfo(ctx, s, opts)
	return scene, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// opts.Kind is taken from the scene.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, scene diagram.Scene, opts Options) (map[string][]byte, bool, error) {
	opts.Kind = string(scene.Kind)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)
	hooks := observability.Cache()

	sceneData, err := diagram.MarshalScene(scene)
	if err != nil {
		return nil, false, fmt.Errorf("serialize scene for cache key: %w", err)
	}
	sceneHash := cache.Hash(sceneData)

	// Try to get all formats from cache
	allCached := !opts.Refresh
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		if !allCached {
			break
		}
		cacheKey := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		hooks.OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}
	hooks.OnCacheMiss(ctx, "artifact")

	rendered, err := Render(ctx, scene, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err != nil {
			opts.Logger.Warn("artifact cache write failed", "format", format, "error", err)
			continue
		}
		hooks.OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil
}

// RenderScene is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) RenderScene(ctx context.Context, scene diagram.Scene, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, scene, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
