// Package pipeline provides the place → render pipeline for albumstack.
//
// The CLI, the HTTP server and the file watcher all turn a page document into
// preview artifacts the same way. This package centralizes that path so every
// entry point shares defaults, caching and logging.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Place: stack the document's blocks and resolve every slot against the
//     asset registry ([placement.PlacePage])
//  2. Render: write the placed page in one or more formats (SVG, PNG, PDF,
//     JSON, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, doc, pipeline.Options{
//	    Width:   640,
//	    Formats: []string{"svg", "png"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// [placement.PlacePage]: github.com/matzehuels/albumstack/pkg/placement.PlacePage
package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/albumstack/pkg/cache"
	"github.com/matzehuels/albumstack/pkg/document"
	"github.com/matzehuels/albumstack/pkg/placement"
	"github.com/matzehuels/albumstack/pkg/render/sink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Watcher
// =============================================================================

const (
	// DefaultWidth is the default page width in pixels.
	DefaultWidth = placement.DefaultWidth

	// DefaultBlockGap is the default vertical gap between blocks.
	DefaultBlockGap = placement.DefaultBlockGap

	// DefaultPadding is the default page padding.
	DefaultPadding = placement.DefaultPadding

	// DefaultTitleHeight is the default height of the title band.
	DefaultTitleHeight = placement.DefaultTitleHeight

	// DefaultScale is the default PNG scale factor.
	DefaultScale = 2.0
)

// DefaultTheme is the default color palette.
const DefaultTheme = sink.DefaultTheme

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests. Zero values mean
// "use the default"; a page cannot ask for a zero block gap or padding.
type Options struct {
	// Place options
	Width       float64 `json:"width,omitempty"`
	BlockGap    float64 `json:"block_gap,omitempty"`
	Padding     float64 `json:"padding,omitempty"`
	TitleHeight float64 `json:"title_height,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Theme      string   `json:"theme,omitempty"`
	ShowLabels bool     `json:"show_labels,omitempty"`
	NoImages   bool     `json:"no_images,omitempty"`
	Scale      float64  `json:"scale,omitempty"`

	// Refresh bypasses cached layouts and artifacts.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// DocHash is the content hash of the placed document.
	DocHash string

	// Layout is the placed page.
	Layout placement.PageLayout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	BlockCount int
	SlotCount  int
	EmptySlots int
	PlaceTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the placed page came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: %s)", format,
			strings.Join(slices.Sorted(maps.Keys(ValidFormats)), ", "))
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

// ValidateTheme checks that a theme is valid.
func ValidateTheme(theme string) error {
	_, err := sink.LookupTheme(theme)
	return err
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForPlace(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetPlaceDefaults sets default values for placement.
func (o *Options) SetPlaceDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.BlockGap == 0 {
		o.BlockGap = DefaultBlockGap
	}
	if o.Padding == 0 {
		o.Padding = DefaultPadding
	}
	if o.TitleHeight == 0 {
		o.TitleHeight = DefaultTitleHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForPlace validates and sets defaults for placement.
func (o *Options) ValidateForPlace() error {
	o.SetPlaceDefaults()
	if o.Width < 0 || o.BlockGap < 0 || o.Padding < 0 || o.TitleHeight < 0 {
		return fmt.Errorf("page dimensions must not be negative")
	}
	if o.Width <= 2*o.Padding {
		return fmt.Errorf("width %v leaves no room inside padding %v", o.Width, o.Padding)
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Theme == "" {
		o.Theme = DefaultTheme
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetPlaceDefaults()
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 {
		return fmt.Errorf("scale must be positive, got %v", o.Scale)
	}
	return ValidateTheme(o.Theme)
}

// PlacementOptions converts to placement options.
func (o *Options) PlacementOptions() placement.Options {
	return placement.Options{
		Width:       o.Width,
		BlockGap:    o.BlockGap,
		Padding:     o.Padding,
		TitleHeight: o.TitleHeight,
	}
}

// LayoutKeyOpts returns cache key options for placement.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:       o.Width,
		BlockGap:    o.BlockGap,
		Padding:     o.Padding,
		TitleHeight: o.TitleHeight,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		Theme:      o.Theme,
		ShowLabels: o.ShowLabels,
		NoImages:   o.NoImages,
		Scale:      o.Scale,
	}
}

// DocumentHash hashes the content of doc. The revision is excluded, so two
// revisions with the same blocks and assets share cached layouts.
func DocumentHash(doc *document.Document) (string, error) {
	rec := doc.Record()
	rec.Revision = 0
	data, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}
