// Package pipeline provides the core layout pipeline for Skein.
//
// This package implements the complete coarse-layout → spacing → routing →
// render pipeline that can be used by CLI and API components. By
// centralizing this logic, we ensure consistent behavior across all entry
// points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Coarse layout: assign every node an initial tiered position
//  2. Post-process: merge saved viewer positions, widen tier gaps for the
//     edges crossing them, and assign each edge a lane
//  3. Render: generate output in various formats (SVG, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, nil, logger)
//	opts := pipeline.Options{
//	    Direction: "TB",
//	    Engine:    "grid",
//	    Formats:   []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, g, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Layout only
//	l, err := runner.ComputeLayout(ctx, g, opts)
//
//	// Render with an existing layout
//	artifacts, err := runner.Render(ctx, l, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/skein-viz/skein/pkg/cache"
	skerrors "github.com/skein-viz/skein/pkg/errors"
	"github.com/skein-viz/skein/pkg/graph"
	"github.com/skein-viz/skein/pkg/layout"
	"github.com/skein-viz/skein/pkg/layout/coarse"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// DefaultDirection is the default layout direction.
const DefaultDirection = string(layout.TopToBottom)

// DefaultEngine is the default coarse layout engine.
const DefaultEngine = EngineGrid

// Engine constants naming the coarse layouters.
const (
	EngineGrid     = "grid"
	EngineGraphviz = "graphviz"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// ValidEngines is the set of supported coarse layout engines.
var ValidEngines = map[string]bool{
	EngineGrid:     true,
	EngineGraphviz: true,
}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Direction   string  `json:"direction,omitempty"`
	Engine      string  `json:"engine,omitempty"`
	LaneSpacing float64 `json:"lane_spacing,omitempty"`
	Padding     float64 `json:"padding,omitempty"`
	MinLayerGap float64 `json:"min_layer_gap,omitempty"`
	NodeWidth   float64 `json:"node_width,omitempty"`
	NodeHeight  float64 `json:"node_height,omitempty"`

	// ViewerID selects the saved node positions to merge before spacing.
	// Empty means no overrides.
	ViewerID string `json:"viewer_id,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	ShowLabels bool     `json:"show_labels,omitempty"`
	Highlight  string   `json:"highlight,omitempty"`

	// Refresh bypasses cache reads and recomputes every stage.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger     `json:"-"`
	Layouter coarse.Layouter `json:"-"` // overrides Engine when set

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// GraphHash is the content hash of the input graph.
	GraphHash string

	// Layout contains the positioned nodes and the edge routing table.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount   int
	EdgeCount   int
	RoutedEdges int
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateDirection checks that a direction is valid.
func ValidateDirection(dir string) error {
	if !layout.Direction(dir).Valid() {
		return skerrors.New(skerrors.ErrCodeInvalidDirection,
			"invalid direction: %q (must be one of: TB, LR)", dir)
	}
	return nil
}

// ValidateEngine checks that a coarse layout engine is valid.
func ValidateEngine(engine string) error {
	if !ValidEngines[engine] {
		return skerrors.New(skerrors.ErrCodeInvalidEngine,
			"invalid engine: %q (must be one of: grid, graphviz)", engine)
	}
	return nil
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return skerrors.New(skerrors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent - calling it multiple times has
// the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Direction == "" {
		o.Direction = DefaultDirection
	}
	if o.Engine == "" {
		o.Engine = DefaultEngine
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := ValidateDirection(o.Direction); err != nil {
		return err
	}
	if err := ValidateEngine(o.Engine); err != nil {
		return err
	}
	if o.ViewerID != "" {
		return skerrors.ValidateViewerID(o.ViewerID)
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// Config returns the post-processing configuration derived from the options.
// Zero-valued tunables fall back to the pkg/layout defaults.
func (o *Options) Config() layout.Config {
	return layout.Config{
		Direction:   layout.Direction(o.Direction),
		LaneSpacing: o.LaneSpacing,
		Padding:     o.Padding,
		MinLayerGap: o.MinLayerGap,
		NodeWidth:   o.NodeWidth,
		NodeHeight:  o.NodeHeight,
	}
}

// CoarseOptions returns the coarse layouter configuration.
func (o *Options) CoarseOptions() coarse.Options {
	return coarse.Options{
		Direction:  layout.Direction(o.Direction),
		NodeWidth:  o.NodeWidth,
		NodeHeight: o.NodeHeight,
		LayerGap:   o.MinLayerGap,
	}
}

// CoarseLayouter returns the layouter to use: the injected one when set,
// otherwise the built-in engine named by Engine.
func (o *Options) CoarseLayouter() coarse.Layouter {
	if o.Layouter != nil {
		return o.Layouter
	}
	if o.Engine == EngineGraphviz {
		return coarse.Graphviz{}
	}
	return coarse.Grid{}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Direction:   o.Direction,
		Engine:      o.Engine,
		LaneSpacing: o.LaneSpacing,
		Padding:     o.Padding,
		MinLayerGap: o.MinLayerGap,
		NodeWidth:   o.NodeWidth,
		NodeHeight:  o.NodeHeight,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		ShowLabels: o.ShowLabels,
		Highlight:  o.Highlight,
	}
}
