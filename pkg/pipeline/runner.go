package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/skein-viz/skein/pkg/cache"
	"github.com/skein-viz/skein/pkg/graph"
	"github.com/skein-viz/skein/pkg/layout"
	"github.com/skein-viz/skein/pkg/observability"
	"github.com/skein-viz/skein/pkg/positions"
	"github.com/skein-viz/skein/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for its collaborators - it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner
// with different options.
type Runner struct {
	Cache     cache.Cache
	Keyer     cache.Keyer
	Positions positions.Store
	Logger    *log.Logger
}

// NewRunner creates a runner with the given cache, keyer and position store.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If store is nil, viewer position overrides are unavailable.
func NewRunner(c cache.Cache, keyer cache.Keyer, store positions.Store, logger *log.Logger) *Runner {
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
		Cache:     c,
		Keyer:     keyer,
		Positions: store,
		Logger:    logger,
	}
}

// Execute runs the complete layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, g graph.Graph, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("invalid graph: %w", err)
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}
	result.Stats.NodeCount = len(g.Nodes)
	result.Stats.EdgeCount = len(g.Edges)

	if graphData, err := graph.MarshalGraph(g); err == nil {
		result.GraphHash = cache.Hash(graphData)
	}

	// Stage 1+2: Coarse layout and post-processing
	layoutStart := time.Now()
	l, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.RoutedEdges = len(l.Routes)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"nodes", len(l.Nodes),
		"routed_edges", len(l.Routes),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, opts)
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

// ComputeLayoutWithCacheInfo computes a layout with caching and returns
// cache hit info.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, g graph.Graph, opts Options) (graph.Layout, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, false, err
	}
	r.applyLogger(&opts)

	overrides, err := r.loadOverrides(ctx, g, opts)
	if err != nil {
		return graph.Layout{}, false, err
	}

	// Compute cache key. Viewer overrides change the result, so they
	// scope the key: same graph, different saved positions, different key.
	graphData, _ := graph.MarshalGraph(g)
	graphHash := cache.Hash(graphData)
	keyer := r.Keyer
	if len(overrides) > 0 {
		ovData, _ := json.Marshal(overrides)
		keyer = cache.NewScopedKeyer(r.Keyer, "viewer:"+cache.Hash(ovData)[:16]+":")
	}
	cacheKey := keyer.LayoutKey(graphHash, opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			cached, err := graph.UnmarshalLayout(data)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		}
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	observability.Pipeline().OnLayoutStart(ctx, opts.Engine, len(g.Nodes))
	start := time.Now()
	l, err := buildLayout(ctx, g, overrides, opts)
	observability.Pipeline().OnLayoutComplete(ctx, opts.Engine, time.Since(start), err)
	if err != nil {
		return graph.Layout{}, false, err
	}

	// Cache the result
	if data, err := graph.MarshalLayout(l); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}

	return l, false, nil // Cache miss
}

// ComputeLayout is a convenience wrapper that calls
// ComputeLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, g graph.Graph, opts Options) (graph.Layout, error) {
	l, _, err := r.ComputeLayoutWithCacheInfo(ctx, g, opts)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache
// hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from layout data
	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil // All artifacts from cache
		}
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	// Render all formats
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := renderFormats(l, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	var firstErr error
	if r.Cache != nil {
		firstErr = r.Cache.Close()
	}
	if r.Positions != nil {
		if err := r.Positions.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// loadOverrides fetches the viewer's saved positions for this topology.
// Missing overrides are not an error: the viewer simply has none saved.
func (r *Runner) loadOverrides(ctx context.Context, g graph.Graph, opts Options) (positions.Overrides, error) {
	if opts.ViewerID == "" || r.Positions == nil {
		return nil, nil
	}
	ov, err := r.Positions.Get(ctx, opts.ViewerID, positions.TopologyHash(g))
	if errors.Is(err, positions.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load positions: %w", err)
	}
	r.Logger.Debug("merged viewer positions",
		"viewer", opts.ViewerID,
		"overrides", len(ov))
	return ov, nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// buildLayout runs the uncached layout stages: coarse placement, viewer
// override merge, layer spacing, and edge routing.
func buildLayout(ctx context.Context, g graph.Graph, overrides positions.Overrides, opts Options) (graph.Layout, error) {
	nodes, err := opts.CoarseLayouter().Layout(ctx, g, opts.CoarseOptions())
	if err != nil {
		return graph.Layout{}, fmt.Errorf("coarse layout (%s): %w", opts.Engine, err)
	}

	nodes = positions.Apply(nodes, overrides)

	cfg := opts.Config()
	nodes = layout.AdjustLayerSpacing(nodes, g.Edges, cfg)
	routes := layout.ComputeEdgeRoutes(nodes, g.Edges, cfg)

	l := graph.Layout{
		Direction: opts.Direction,
		Nodes:     nodes,
		Edges:     g.Edges,
		Routes:    routes,
	}
	l.Width, l.Height = frameExtent(nodes, opts)
	return l, nil
}

// frameExtent returns the bounding span of the positioned nodes including
// their footprint.
func frameExtent(nodes []graph.Node, opts Options) (w, h float64) {
	if len(nodes) == 0 {
		return 0, 0
	}
	cfg := opts.Config().WithDefaults()
	nw, nh := cfg.NodeWidth, cfg.NodeHeight
	minX, maxX := nodes[0].X, nodes[0].X
	minY, maxY := nodes[0].Y, nodes[0].Y
	for _, n := range nodes[1:] {
		minX = min(minX, n.X)
		maxX = max(maxX, n.X)
		minY = min(minY, n.Y)
		maxY = max(maxY, n.Y)
	}
	return maxX - minX + nw, maxY - minY + nh
}

// renderFormats produces every requested artifact from the layout.
func renderFormats(l graph.Layout, opts Options) (map[string][]byte, error) {
	out := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		switch format {
		case FormatSVG:
			svgOpts := []render.SVGOption{render.WithConfig(opts.Config())}
			if opts.ShowLabels {
				svgOpts = append(svgOpts, render.WithLabels())
			}
			if opts.Highlight != "" {
				svgOpts = append(svgOpts, render.WithHighlight(opts.Highlight))
			}
			out[format] = render.RenderSVG(l, svgOpts...)
		case FormatJSON:
			data, err := graph.MarshalLayout(l)
			if err != nil {
				return nil, fmt.Errorf("marshal layout: %w", err)
			}
			out[format] = data
		default:
			return nil, ValidateFormat(format)
		}
	}
	return out, nil
}
