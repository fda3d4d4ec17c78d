// Package pipeline runs the diagram pipeline shared by the CLI and the HTTP
// server: parse a graph, lay it out and render it, with caching at every
// stage.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Read a graph from JSON, YAML or Mermaid source
//  2. Layout: Compute card positions, ports and arrows with [layout.Build]
//  3. Render: Generate output in various formats (SVG, HTML, JSON, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    AvailableWidth: 900,
//	    Formats:        []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, g, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Blueprints go through [Runner.Plan], which caches generated blueprints,
// and [Runner.DiagramLayout], which lays out one of their two diagrams.
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/blueprint/pkg/cache"
	"github.com/matzehuels/blueprint/pkg/graph"
	"github.com/matzehuels/blueprint/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// DefaultStyle is the default visual style.
const DefaultStyle = StyleSimple

// DiagramGraph marks a layout of a plain graph that is not one of the
// blueprint diagrams.
const DiagramGraph = "graph"

// Format constants for output formats.
const (
	FormatSVG         = "svg"
	FormatHTML        = "html"
	FormatJSON        = "json"
	FormatDOT         = "dot"
	FormatGraphvizSVG = "graphviz-svg"
)

// Style names.
const (
	StyleSimple = "simple"
	StyleMono   = "mono"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:         true,
	FormatHTML:        true,
	FormatJSON:        true,
	FormatDOT:         true,
	FormatGraphvizSVG: true,
}

// ValidStyles is the set of supported visual styles.
var ValidStyles = map[string]bool{
	StyleSimple: true,
	StyleMono:   true,
}

// FormatExt returns the file extension for a format.
func FormatExt(format string) string {
	switch format {
	case FormatGraphvizSVG:
		return "graphviz.svg"
	case FormatJSON:
		return "layout.json"
	default:
		return format
	}
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the diagram pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Layout         layout.Config `json:"layout,omitempty"`
	AvailableWidth float64       `json:"available_width,omitempty"`
	Diagram        string        `json:"diagram,omitempty"` // graph, user-flow or tech-stack

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Style       string   `json:"style,omitempty"`
	NaturalSize bool     `json:"natural_size,omitempty"`
	Interactive bool     `json:"interactive,omitempty"`
	Detailed    bool     `json:"detailed,omitempty"` // category and tags in DOT labels
	Title       string   `json:"title,omitempty"`

	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger    `json:"-"`
	Provider graph.Provider `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the graph that was laid out, after fallback substitution.
	Graph graph.Graph

	// GraphHash is the content hash of the input graph.
	GraphHash string

	// Layout is the finalized layout.
	Layout layout.Result

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

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, html, json, dot, graphviz-svg)", format)
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

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !ValidStyles[style] {
		return fmt.Errorf("invalid style: %q (must be one of: simple, mono)", style)
	}
	return nil
}

// ValidateDiagram checks that a diagram name is valid.
func ValidateDiagram(diagram string) error {
	if diagram == DiagramGraph {
		return nil
	}
	_, err := graph.ParseDiagramType(diagram)
	return err
}

// =============================================================================
// Options Methods
// =============================================================================

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	o.Layout = o.Layout.WithDefaults()
	if o.Diagram == "" {
		o.Diagram = DiagramGraph
	}
	if o.Provider == nil {
		o.Provider = o.defaultProvider()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

func (o *Options) defaultProvider() graph.Provider {
	if t, err := graph.ParseDiagramType(o.Diagram); err == nil {
		return graph.ProviderFor(t)
	}
	return graph.DefaultProvider
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	if o.AvailableWidth < 0 {
		return fmt.Errorf("invalid available_width: %v (must not be negative)", o.AvailableWidth)
	}
	o.SetLayoutDefaults()
	return ValidateDiagram(o.Diagram)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateStyle(o.Style)
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	c := o.Layout.WithDefaults()
	return cache.LayoutKeyOpts{
		CardWidth:       c.CardWidth,
		CardHeight:      c.CardHeight,
		HorizontalGap:   c.HorizontalGap,
		VerticalGap:     c.VerticalGap,
		Padding:         c.Padding,
		ReferenceHeight: c.ReferenceHeight,
		ScaleFloor:      c.ScaleFloor,
		AvailableWidth:  o.AvailableWidth,
		Diagram:         o.Diagram,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG, FormatHTML:
		k.Style = o.Style
		k.NaturalSize = o.NaturalSize
		k.Interactive = o.Interactive
		k.Title = o.Title
	case FormatDOT, FormatGraphvizSVG:
		k.Engine = "dot"
		if o.Detailed {
			k.Engine = "dot-detailed"
		}
	}
	return k
}
