// Package pipeline runs the mind-map layout workflow shared by the CLI and
// the HTTP server.
//
// This package wires document validation, the layout engine, caching,
// observability hooks and preview rendering together. By centralizing this
// logic, every entry point produces identical layouts for identical input.
//
// # Architecture
//
// The pipeline has two independent stages:
//
//  1. Layout: full positioning of a document ([Runner.ComputeLayout]) or an
//     incremental overlap fix after an edit ([Runner.ResolveIncremental])
//  2. Render: node-link previews of a positioned document (SVG, PNG, PDF, DOT)
//
// Full layouts are cached by document hash plus every engine parameter.
// Incremental resolutions depend on the caller's current positions and are
// never cached.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{Strategy: "radial"}
//	l, hit, err := runner.ComputeLayout(ctx, doc, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	positioned := graph.ApplyLayout(doc, l.Positions)
//	artifacts, err := runner.Render(ctx, positioned, pipeline.Options{Formats: []string{"svg"}})
package pipeline

import (
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mindlayout/pkg/cache"
	"github.com/matzehuels/mindlayout/pkg/config"
	"github.com/matzehuels/mindlayout/pkg/errors"
	"github.com/matzehuels/mindlayout/pkg/graph"
	"github.com/matzehuels/mindlayout/pkg/layout"
	"github.com/matzehuels/mindlayout/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultStrategy is the positioning strategy used when none is given.
	DefaultStrategy = string(layout.StrategyRadial)

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = layout.DefaultSeed

	// MaxNodes bounds the size of a single layout request.
	MaxNodes = 5000
)

// Re-exported output formats.
const (
	FormatSVG  = render.FormatSVG
	FormatPNG  = render.FormatPNG
	FormatPDF  = render.FormatPDF
	FormatDOT  = render.FormatDOT
	FormatJSON = render.FormatJSON
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// ValidStrategies is the set of supported layout strategies.
var ValidStrategies = map[string]bool{
	string(layout.StrategyRadial): true,
	string(layout.StrategyForce):  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests. Angles are in
// degrees. Pointer fields distinguish "unset" from a meaningful zero.
type Options struct {
	// Layout options
	Strategy       string   `json:"strategy,omitempty"`
	BaseRadius     float64  `json:"base_radius,omitempty"`
	DepthIncrement float64  `json:"depth_increment,omitempty"`
	ChildSpreadDeg float64  `json:"child_spread_deg,omitempty"`
	SectorGapDeg   *float64 `json:"sector_gap_deg,omitempty"`
	MinSectorDeg   float64  `json:"min_sector_deg,omitempty"`
	NodePadding    *float64 `json:"node_padding,omitempty"`
	MaxPasses      int      `json:"max_passes,omitempty"`
	Seed           uint64   `json:"seed,omitempty"`
	Refresh        bool     `json:"refresh,omitempty"`

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Detailed  bool     `json:"detailed,omitempty"`
	HideEdges bool     `json:"hide_edges,omitempty"`
	Scale     float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a layout-and-render run.
type Result struct {
	// Document is the input with computed positions applied.
	Document graph.Document

	// DocHash is the content hash of the input document.
	DocHash string

	// Layout contains the positions and engine diagnostics.
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
	NodeCount  int
	EdgeCount  int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether layout result came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// OptionsFromConfig seeds pipeline options from the [layout] config section.
func OptionsFromConfig(lc config.LayoutConfig) Options {
	gap, pad := lc.SectorGapDeg, lc.NodePadding
	return Options{
		Strategy:       lc.Strategy,
		BaseRadius:     lc.BaseRadius,
		DepthIncrement: lc.DepthIncrement,
		ChildSpreadDeg: lc.ChildSpreadDeg,
		SectorGapDeg:   &gap,
		MinSectorDeg:   lc.MinSectorDeg,
		NodePadding:    &pad,
		MaxPasses:      lc.MaxPasses,
		Seed:           lc.Seed,
	}
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, dot, json)", format)
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

// ValidateStrategy checks that a strategy is valid.
func ValidateStrategy(strategy string) error {
	if !ValidStrategies[strategy] {
		return errors.New(errors.ErrCodeInvalidStrategy, "invalid strategy: %q (must be one of: radial, force)", strategy)
	}
	return nil
}

// ValidateDocument checks a document against the request limits and the
// structural rules of the engine.
func ValidateDocument(doc graph.Document) error {
	if len(doc.Nodes) > MaxNodes {
		return errors.New(errors.ErrCodeInvalidInput, "document has %d nodes (max %d)", len(doc.Nodes), MaxNodes)
	}
	return doc.Validate()
}

// =============================================================================
// Options Methods
// =============================================================================

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Strategy == "" {
		o.Strategy = DefaultStrategy
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := ValidateStrategy(o.Strategy); err != nil {
		return err
	}
	for name, v := range map[string]float64{
		"base_radius":      o.BaseRadius,
		"depth_increment":  o.DepthIncrement,
		"child_spread_deg": o.ChildSpreadDeg,
		"min_sector_deg":   o.MinSectorDeg,
	} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New(errors.ErrCodeInvalidInput, "%s must be a finite non-negative number", name)
		}
	}
	if g := o.SectorGapDeg; g != nil && (*g < 0 || *g > 30) {
		return errors.New(errors.ErrCodeInvalidInput, "sector_gap_deg must be within 0..30")
	}
	if p := o.NodePadding; p != nil && (*p < 0 || math.IsNaN(*p)) {
		return errors.New(errors.ErrCodeInvalidInput, "node_padding must be non-negative")
	}
	if o.MaxPasses < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max_passes must be non-negative")
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale <= 0 {
		o.Scale = render.DefaultScale
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

// EngineOptions converts the options to layout engine options. Unset fields
// keep the engine defaults.
func (o *Options) EngineOptions() layout.Options {
	e := layout.DefaultOptions()
	if o.Strategy != "" {
		e.Strategy = layout.Strategy(o.Strategy)
	}
	if o.BaseRadius > 0 {
		e.BaseRadius = o.BaseRadius
	}
	if o.DepthIncrement > 0 {
		e.DepthIncrement = o.DepthIncrement
	}
	if o.ChildSpreadDeg > 0 {
		e.ChildSpread = layout.Radians(o.ChildSpreadDeg)
	}
	if o.SectorGapDeg != nil {
		e.SectorGap = layout.Radians(*o.SectorGapDeg)
	}
	if o.MinSectorDeg > 0 {
		e.MinSectorAngle = layout.Radians(o.MinSectorDeg)
	}
	if o.NodePadding != nil {
		e.NodePadding = *o.NodePadding
	}
	if o.MaxPasses > 0 {
		e.MaxPasses = o.MaxPasses
	}
	if o.Seed != 0 {
		e.Seed = o.Seed
	}
	return e
}

// LayoutKeyOpts returns cache key options for layout computation. Values are
// taken after defaulting so equivalent requests share a key.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	e := o.EngineOptions()
	return cache.LayoutKeyOpts{
		Strategy:       string(e.Strategy),
		BaseRadius:     e.BaseRadius,
		DepthIncrement: e.DepthIncrement,
		ChildSpread:    e.ChildSpread,
		SectorGap:      e.SectorGap,
		MinSectorAngle: e.MinSectorAngle,
		NodePadding:    e.NodePadding,
		MaxPasses:      e.MaxPasses,
		Seed:           e.Seed,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:    format,
		Detailed:  o.Detailed,
		HideEdges: o.HideEdges,
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}
