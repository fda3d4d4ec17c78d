package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/blueprint/pkg/blueprint"
	"github.com/matzehuels/blueprint/pkg/cache"
	"github.com/matzehuels/blueprint/pkg/graph"
	"github.com/matzehuels/blueprint/pkg/layout"
	"github.com/matzehuels/blueprint/pkg/observability"
	"github.com/matzehuels/blueprint/pkg/planner"
)

// Cache key types reported to the cache hooks.
const (
	keyLayout    = "layout"
	keyArtifact  = "artifact"
	keyBlueprint = "blueprint"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching behaves the same everywhere.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	LayoutTTL    time.Duration
	ArtifactTTL  time.Duration
	BlueprintTTL time.Duration
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
		Cache:        c,
		Keyer:        keyer,
		Logger:       logger,
		LayoutTTL:    cache.LayoutTTL,
		ArtifactTTL:  cache.ArtifactTTL,
		BlueprintTTL: cache.BlueprintTTL,
	}
}

// Execute runs layout → render with caching.
func (r *Runner) Execute(ctx context.Context, g graph.Graph, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	work, _ := r.PrepareGraph(g, opts)
	result := &Result{
		Graph:     work,
		GraphHash: hashGraph(g),
	}
	result.Stats.NodeCount = work.NodeCount()
	result.Stats.EdgeCount = work.EdgeCount()

	// Stage 1: Layout
	layoutStart := time.Now()
	res, layoutHit, err := r.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = res
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"cards", len(res.Cards),
		"curves", len(res.Curves),
		"scale", res.Scale,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, res, opts)
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

// PrepareGraph substitutes the options' provider graph when g has no usable
// nodes. The second result reports whether the fallback was used.
func (r *Runner) PrepareGraph(g graph.Graph, opts Options) (graph.Graph, bool) {
	opts.SetLayoutDefaults()
	out, fallback := graph.OrDefault(g, opts.Provider)
	if fallback {
		r.Logger.Debug("empty graph, using fallback", "diagram", opts.Diagram, "nodes", out.NodeCount())
	}
	return out, fallback
}

// LayoutWithCacheInfo lays out g with caching and returns cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, g graph.Graph, opts Options) (layout.Result, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Result{}, false, err
	}

	work, fallback := r.PrepareGraph(g, opts)
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Diagram, g.NodeCount())
	start := time.Now()

	cacheKey := r.Keyer.LayoutKey(hashGraph(work), opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := layout.Unmarshal(data); err == nil {
				observability.Cache().OnCacheHit(ctx, keyLayout)
				cached.Fallback = fallback
				hooks.OnLayoutComplete(ctx, opts.Diagram, fallback, time.Since(start), nil)
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, keyLayout)
	}

	res := layout.Build(work, opts.Layout, opts.AvailableWidth)
	res.Fallback = fallback
	logReport(opts, res.Report)

	if data, err := layout.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, r.LayoutTTL); err != nil {
			r.Logger.Warn("cache layout", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, keyLayout, len(data))
		}
	}

	hooks.OnLayoutComplete(ctx, opts.Diagram, fallback, time.Since(start), nil)
	return res, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, g graph.Graph, opts Options) (layout.Result, error) {
	res, _, err := r.LayoutWithCacheInfo(ctx, g, opts)
	return res, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res layout.Result, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	// Compute cache key from layout data
	layoutData, err := layout.Marshal(res)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, keyArtifact)
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, keyArtifact)
			return artifacts, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(ctx, res, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, r.ArtifactTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, keyArtifact, len(data))
		}
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, res layout.Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, res, opts)
	return artifacts, err
}

// DiagramLayout lays out one of the two diagrams of a blueprint. The
// returned source tells which candidate the graph was taken from.
func (r *Runner) DiagramLayout(ctx context.Context, bp blueprint.Blueprint, t graph.DiagramType, opts Options) (layout.Result, blueprint.Source, error) {
	opts.Diagram = string(t)
	if opts.Provider == nil {
		opts.Provider = graph.ProviderFor(t)
	}
	var (
		g   graph.Graph
		src blueprint.Source
	)
	if t == graph.DiagramTechStack {
		g, src = blueprint.TechStackGraph(bp, opts.Provider)
	} else {
		g, src = blueprint.UserFlowGraph(bp, opts.Provider)
	}
	res, err := r.Layout(ctx, g, opts)
	if err != nil {
		return layout.Result{}, "", err
	}
	res.Fallback = src == blueprint.SourceFallback
	return res, src, nil
}

// Generator produces blueprints. [planner.Client] is the production
// implementation.
type Generator interface {
	GenerateBlueprint(ctx context.Context, idea string, mode blueprint.Mode) (planner.Result, error)
}

// Plan generates a blueprint for idea, serving repeated ideas from the
// cache. Ideas are matched case- and whitespace-insensitively. The second
// result reports a cache hit.
func (r *Runner) Plan(ctx context.Context, gen Generator, idea string, mode blueprint.Mode, refresh bool) (planner.Result, bool, error) {
	key := r.Keyer.BlueprintKey(idea, string(mode))
	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached planner.Result
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, keyBlueprint)
				blueprint.Normalize(&cached.Blueprint)
				return cached, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, keyBlueprint)
	}

	res, err := gen.GenerateBlueprint(ctx, idea, mode)
	if err != nil {
		return planner.Result{}, false, err
	}
	r.Logger.Info("generated blueprint", "mode", mode, "provider", res.Provider, "title", res.Blueprint.Title())

	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.BlueprintTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, keyBlueprint, len(data))
		}
	}
	return res, false, nil
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
}

func hashGraph(g graph.Graph) string {
	data, _ := graph.Marshal(g)
	return cache.Hash(data)
}
