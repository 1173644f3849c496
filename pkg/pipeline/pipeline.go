// Package pipeline provides the core visualization pipeline for Kintree.
//
// This package implements the complete build → layout → render pipeline that
// is shared by the CLI and the HTTP API. Centralizing the staging and caching
// here keeps both entry points consistent.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: Derive the augmented family forest from the flat record lists
//  2. Layout: Compute box positions and connector lines for the forest
//  3. Render: Generate output in various formats (SVG, PNG, DOT, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline against a record store:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Viz:     pipeline.VizChart,
//	    Formats: []string{pipeline.FormatSVG},
//	}
//	result, err := runner.Execute(ctx, st, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kintree/kintree/pkg/cache"
	"github.com/kintree/kintree/pkg/tree"
	"github.com/kintree/kintree/pkg/tree/layout"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// Visualization type constants.
const (
	VizChart    = "chart"    // generation grid with connector lines
	VizNodelink = "nodelink" // Graphviz node-link diagram
)

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	VizChart:    true,
	VizNodelink: true,
}

// DefaultViz is the default visualization type.
const DefaultViz = VizChart

// Options contains all configuration for the visualization pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	BoxWidth  float64 `json:"box_width,omitempty"`
	BoxHeight float64 `json:"box_height,omitempty"`
	GapX      float64 `json:"gap_x,omitempty"`
	GapY      float64 `json:"gap_y,omitempty"`
	Margin    float64 `json:"margin,omitempty"`

	// Render options
	Viz       string   `json:"viz,omitempty"`
	Formats   []string `json:"formats,omitempty"`
	Title     string   `json:"title,omitempty"`
	Sublabels bool     `json:"sublabels,omitempty"` // life dates under each name

	// Refresh bypasses the cache for the build stage.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Persons is the augmented family forest.
	Persons []tree.Person

	// RecordsHash is the content hash of the flat records the run saw.
	RecordsHash string

	// Layout contains the computed box positions and connector lines.
	Layout layout.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	PersonCount       int
	RelationshipCount int
	BuildTime         time.Duration
	LayoutTime        time.Duration
	RenderTime        time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	BuildHit  bool // Whether the forest came from cache
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, png, dot, json)", format)
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

// ValidateViz checks that a visualization type is valid.
func ValidateViz(viz string) error {
	if !ValidVizTypes[viz] {
		return fmt.Errorf("invalid viz: %q (must be one of: chart, nodelink)", viz)
	}
	return nil
}

// ValidateAndSetDefaults checks fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as
// calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetLayoutDefaults()
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
// Geometry zero values are left for layout.Compute to fill.
func (o *Options) SetLayoutDefaults() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if o.Viz == "" {
		o.Viz = DefaultViz
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
// PNG and DOT output go through Graphviz, which only the nodelink view uses.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateViz(o.Viz); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.IsChart() {
		for _, f := range o.Formats {
			if f == FormatPNG || f == FormatDOT {
				return fmt.Errorf("format %q requires viz %q", f, VizNodelink)
			}
		}
	}
	return nil
}

// IsChart returns true if this is a chart (generation grid) visualization.
func (o *Options) IsChart() bool {
	return o.Viz == "" || o.Viz == VizChart
}

// IsNodelink returns true if this is a nodelink visualization.
func (o *Options) IsNodelink() bool {
	return o.Viz == VizNodelink
}

// LayoutOptions returns the layout geometry for layout.Compute.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{
		BoxWidth:  o.BoxWidth,
		BoxHeight: o.BoxHeight,
		GapX:      o.GapX,
		GapY:      o.GapY,
		Margin:    o.Margin,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	geo := o.LayoutOptions()
	geo.SetDefaults()
	return cache.LayoutKeyOpts{
		BoxWidth:  geo.BoxWidth,
		BoxHeight: geo.BoxHeight,
		GapX:      geo.GapX,
		GapY:      geo.GapY,
		Margin:    geo.Margin,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:    o.Viz + ":" + format,
		Title:     o.Title,
		Sublabels: o.Sublabels,
	}
}
