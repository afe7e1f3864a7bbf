// Package pipeline provides the parse → layout → render pipeline for chemlayout.
//
// This package implements the complete pipeline used by the CLI and the
// HTTP API. By centralizing this logic, both entry points parse, lay out,
// cache and render identically.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Decode SMILES, reaction SMILES, SD files or graph JSON into graphs
//  2. Layout: Position the graphs in a viewport (one graph is fitted, several are arranged in a row)
//  3. Render: Generate output in various formats (SVG, PNG, DOT, JSON, SDF)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    InputFormat: "smiles",
//	    Input:       "c1ccccc1O",
//	    Formats:     []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	graphs, err := runner.Parse(ctx, opts)
//	scene, err := runner.GenerateScene(ctx, graphs, opts)
//	artifacts, err := runner.Render(ctx, scene, opts)
package pipeline

import (
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chemlayout/pkg/cache"
	"github.com/matzehuels/chemlayout/pkg/errors"
	"github.com/matzehuels/chemlayout/pkg/graph"
	"github.com/matzehuels/chemlayout/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default viewport width.
	DefaultWidth = 800.0

	// DefaultHeight is the default viewport height.
	DefaultHeight = 600.0
)

// Input format constants.
const (
	InputJSON     = "json"
	InputSMILES   = "smiles"
	InputReaction = "reaction"
	InputSDF      = "sdf"
)

// Output format constants.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatDOT  = "dot"
	FormatJSON = "json"
	FormatSDF  = "sdf"
)

// ValidInputFormats is the set of supported input formats.
var ValidInputFormats = map[string]bool{
	InputJSON:     true,
	InputSMILES:   true,
	InputReaction: true,
	InputSDF:      true,
}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatDOT:  true,
	FormatJSON: true,
	FormatSDF:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Parse options
	InputFormat string `json:"input_format,omitempty"` // Detected from Input when empty
	Input       string `json:"input"`
	Name        string `json:"name,omitempty"` // Graph name for single-molecule input
	Refresh     bool   `json:"refresh,omitempty"`

	// Layout options
	Width   float64        `json:"width,omitempty"`
	Height  float64        `json:"height,omitempty"`
	Padding float64        `json:"padding,omitempty"` // Zero selects Layout.Padding; set that to 0 for no margin
	Spacing float64        `json:"spacing,omitempty"` // Zero selects layout.DefaultSpacing
	Arrange bool           `json:"arrange,omitempty"` // Arrange in a row even for a single graph
	Layout  *layout.Config `json:"layout,omitempty"`  // Nil selects layout.DefaultConfig

	// Render options
	Formats    []string `json:"formats,omitempty"`
	HideLabels bool     `json:"hide_labels,omitempty"`
	Background string   `json:"background,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graphs are the parsed graphs, before layout.
	Graphs []graph.Graph

	// GraphHash is the content hash of the parsed graphs.
	GraphHash string

	// Scene holds the laid-out graphs.
	Scene graph.Scene

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	GraphCount int
	NodeCount  int
	EdgeCount  int
	ParseTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ParseHit  bool // Whether parsed graphs came from cache
	LayoutHit bool // Whether the scene came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that an output format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, dot, json, sdf)", format)
	}
	return nil
}

// ValidateFormats checks that all output formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateInputFormat checks that an input format is valid.
func ValidateInputFormat(format string) error {
	if !ValidInputFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid input format: %q (must be one of: json, smiles, reaction, sdf)", format)
	}
	return nil
}

// DetectFormat maps a filename extension to an input format. It returns
// an empty string for unknown extensions.
func DetectFormat(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return InputJSON
	case ".smi", ".smiles":
		return InputSMILES
	case ".rsmi":
		return InputReaction
	case ".sdf", ".sd", ".mol":
		return InputSDF
	default:
		return ""
	}
}

// SniffFormat guesses the input format from content: graph JSON starts
// with '{', molfiles carry an "M  END" line, and SMILES with '>' is a
// reaction. Anything else is read as SMILES.
func SniffFormat(input string) string {
	s := strings.TrimSpace(input)
	switch {
	case strings.HasPrefix(s, "{"):
		return InputJSON
	case strings.Contains(s, "M  END") || strings.Contains(s, "$$$$"):
		return InputSDF
	case strings.Contains(s, ">"):
		return InputReaction
	default:
		return InputSMILES
	}
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
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks required fields for parsing.
func (o *Options) ValidateForParse() error {
	if strings.TrimSpace(o.Input) == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input is required")
	}
	if o.InputFormat == "" {
		o.InputFormat = SniffFormat(o.Input)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return ValidateInputFormat(o.InputFormat)
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Layout == nil {
		cfg := layout.DefaultConfig()
		o.Layout = &cfg
	}
	if o.Padding == 0 {
		o.Padding = o.Layout.Padding
	}
	if o.Spacing == 0 {
		o.Spacing = layout.DefaultSpacing
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := o.Layout.Validate(); err != nil {
		return err
	}
	if o.Spacing < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "spacing cannot be negative")
	}
	return o.Viewport().Validate()
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

// Viewport returns the layout viewport described by the options.
func (o *Options) Viewport() layout.Viewport {
	return layout.Viewport{Width: o.Width, Height: o.Height, Padding: o.Padding}
}

// LayoutConfig returns the layout configuration, or the defaults when unset.
func (o *Options) LayoutConfig() layout.Config {
	if o.Layout == nil {
		return layout.DefaultConfig()
	}
	return *o.Layout
}

// GraphKeyOpts returns cache key options for parsing.
func (o *Options) GraphKeyOpts() cache.GraphKeyOpts {
	return cache.GraphKeyOpts{Format: o.InputFormat}
}

// SceneKeyOpts returns cache key options for layout computation.
func (o *Options) SceneKeyOpts() cache.SceneKeyOpts {
	// Config is plain data; marshaling cannot fail.
	cfg, _ := json.Marshal(o.LayoutConfig())
	return cache.SceneKeyOpts{
		Width:      o.Width,
		Height:     o.Height,
		Padding:    o.Padding,
		Spacing:    o.Spacing,
		Arranged:   o.Arrange,
		ConfigHash: cache.Hash(cfg),
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		Labels:     !o.HideLabels,
		Background: o.Background,
	}
}
