// Package pipeline provides the core layout pipeline for Pedigraph.
//
// This package implements the complete parse → layout → export pipeline
// that can be used by CLI and API components. By centralizing this
// logic, we ensure consistent behavior across all entry points and
// avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Read a family graph document and build the indexed graph
//  2. Layout: Compute positions (full or incremental) and derive the
//     connections between them
//  3. Export: Generate output in various formats (DOT, SVG, PNG, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Path:    "family.json",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Parse only
//	g, rootID, err := runner.Parse(ctx, opts)
//
//	// Layout with an existing graph
//	l, err := runner.ComputeLayout(ctx, g, rootID, opts)
//
//	// Export with an existing layout
//	artifacts, err := runner.Export(ctx, l, opts)
package pipeline

import (
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pedigraph/pedigraph/pkg/cache"
	apperrors "github.com/pedigraph/pedigraph/pkg/errors"
	"github.com/pedigraph/pedigraph/pkg/graph"
	"github.com/pedigraph/pedigraph/pkg/kin"
	"github.com/pedigraph/pedigraph/pkg/layout"
	"github.com/pedigraph/pedigraph/pkg/transition"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// DefaultMaxDegree disables the degree-of-separation scope filter.
// Degree 0 would keep only the root person, so the unset zero value is
// replaced with this during validation; set a positive value to clip
// the graph around the root.
const DefaultMaxDegree = -1

// Layout mode labels, used in cache keys and observability events.
const (
	ModeFull        = "full"
	ModeIncremental = "incremental"
)

// Format constants for output formats.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Parse options
	Path      string          `json:"path,omitempty"`       // Graph document on disk
	Document  json.RawMessage `json:"document,omitempty"`   // Inline graph document
	Root      string          `json:"root,omitempty"`       // Overrides the document's declared root
	MaxDegree int             `json:"max_degree,omitempty"` // Scope cut around the root; negative = no cut

	// Degrees carries degree-of-separation values precomputed by an
	// external relationship service, keyed by person ID. When set it
	// becomes the layout oracle: persons absent from the map are out of
	// scope, and the values drive placement-order bucketing. When empty
	// the graph's own adjacency decides scope and ordering.
	Degrees map[string]int `json:"degrees,omitempty"`

	// Layout options
	Incremental     bool    `json:"incremental,omitempty"` // Record one snapshot per placement
	BaseSpacing     float64 `json:"base_spacing,omitempty"`
	SpouseSpacing   float64 `json:"spouse_spacing,omitempty"`
	VerticalSpacing float64 `json:"vertical_spacing,omitempty"`
	MinSpacing      float64 `json:"min_spacing,omitempty"`
	ExpansionFactor float64 `json:"expansion_factor,omitempty"`

	// Connection options. When both endpoints are set, connections on
	// the shortest relationship path between them are highlighted.
	HighlightFrom string `json:"highlight_from,omitempty"`
	HighlightTo   string `json:"highlight_to,omitempty"`

	// Transition options. Zero selects the default threshold; callers
	// needing an exact-zero threshold use the transition package
	// directly.
	MovementThreshold float64 `json:"movement_threshold,omitempty"`

	// Export options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // Include generation and metadata in export labels

	// Refresh bypasses cache reads (results are still written back).
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return apperrors.New(apperrors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: dot, svg, png, json)", format)
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

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForExport(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks required fields for parsing.
func (o *Options) ValidateForParse() error {
	if o.Path == "" && len(o.Document) == 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "path or document is required")
	}
	if o.Path != "" && len(o.Document) > 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "path and document are mutually exclusive")
	}

	// Parse defaults
	if o.MaxDegree == 0 {
		o.MaxDegree = DefaultMaxDegree
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	def := layout.DefaultConfig()
	if o.BaseSpacing == 0 {
		o.BaseSpacing = def.BaseSpacing
	}
	if o.SpouseSpacing == 0 {
		o.SpouseSpacing = def.SpouseSpacing
	}
	if o.VerticalSpacing == 0 {
		o.VerticalSpacing = def.VerticalSpacing
	}
	if o.MinSpacing == 0 {
		o.MinSpacing = def.MinSpacing
	}
	if o.ExpansionFactor == 0 {
		o.ExpansionFactor = def.ExpansionFactor
	}
	if o.MovementThreshold == 0 {
		o.MovementThreshold = transition.DefaultMovementThreshold
	}
	if o.MaxDegree == 0 {
		o.MaxDegree = DefaultMaxDegree
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := o.LayoutConfig().Validate(); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "invalid spacing options")
	}
	return nil
}

// SetExportDefaults sets default values for exporting.
func (o *Options) SetExportDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForExport validates and sets defaults for exporting.
func (o *Options) ValidateForExport() error {
	o.SetExportDefaults()
	return ValidateFormats(o.Formats)
}

// LayoutConfig assembles the engine configuration from the options.
// Call SetLayoutDefaults (or a Validate* method) first so unset fields
// carry the defaults.
func (o *Options) LayoutConfig() layout.Config {
	return layout.Config{
		BaseSpacing:     o.BaseSpacing,
		SpouseSpacing:   o.SpouseSpacing,
		VerticalSpacing: o.VerticalSpacing,
		MinSpacing:      o.MinSpacing,
		ExpansionFactor: o.ExpansionFactor,
	}
}

// Mode returns the layout mode label for the options.
func (o *Options) Mode() string {
	if o.Incremental {
		return ModeIncremental
	}
	return ModeFull
}

// Source names where the graph document came from, for logging and
// observability events.
func (o *Options) Source() string {
	if o.Path != "" {
		return o.Path
	}
	return "inline"
}

// ShouldHighlight returns whether a highlight path was requested.
func (o *Options) ShouldHighlight() bool {
	return o.HighlightFrom != "" && o.HighlightTo != ""
}

// oracle returns the degree oracle for layout scoping, or nil when
// every person in the graph is in scope.
func (o *Options) oracle() layout.Oracle {
	if len(o.Degrees) == 0 {
		return nil
	}
	return kin.DegreeMap(o.Degrees)
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts(rootID string) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Root:            rootID,
		MaxDegree:       o.MaxDegree,
		Degrees:         o.Degrees,
		BaseSpacing:     o.BaseSpacing,
		SpouseSpacing:   o.SpouseSpacing,
		VerticalSpacing: o.VerticalSpacing,
		MinSpacing:      o.MinSpacing,
		ExpansionFactor: o.ExpansionFactor,
		Incremental:     o.Incremental,
		HighlightFrom:   o.HighlightFrom,
		HighlightTo:     o.HighlightTo,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Detailed: o.Detailed,
	}
}

// =============================================================================
// Result Types
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the parsed family graph.
	Graph *kin.Graph

	// Root is the resolved root person ID.
	Root string

	// GraphHash is the content hash of the graph document.
	GraphHash string

	// Layout contains the computed layout document (positions, steps,
	// connections).
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
	PersonCount     int
	ConnectionCount int
	ParseTime       time.Duration
	LayoutTime      time.Duration
	ExportTime      time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	ExportHit bool // Whether all artifacts came from cache
}
