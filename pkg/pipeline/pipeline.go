// Package pipeline provides the core diagram pipeline for patentfig.
//
// This package implements the complete parse → layout → render pipeline that
// is shared by the CLI, the HTTP API and the MCP tool server, so every entry
// point validates, lays out and renders a GraphSpec the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Decode the serialized GraphSpec (block names plus connection
//     mapping, or flow steps)
//  2. Layout: Build a [diagram.Scene] with the block or flow engine
//  3. Render: Generate output in various formats (SVG, PNG, PDF, JSON, DOT, Mermaid)
//
// Scenes and artifacts are cached; parsing is cheap and never cached.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Kind:    pipeline.KindFlow,
//	    Input:   []byte(`[{"start":"A","end":"B"}]`),
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Render a scene that was built earlier (for example one loaded from the
// store):
//
//	artifacts, err := runner.RenderScene(ctx, scene, opts)
package pipeline

import (
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/patentfig/pkg/cache"
	"github.com/matzehuels/patentfig/pkg/diagram"
	perrors "github.com/matzehuels/patentfig/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and MCP
// =============================================================================

const (
	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0

	// DefaultStyle is the default visual style.
	DefaultStyle = StyleSimple
)

// Diagram kinds.
const (
	KindBlock = string(diagram.KindBlock)
	KindFlow  = string(diagram.KindFlow)
)

// Visual styles.
const (
	StyleSimple = "simple"
	StylePatent = "patent"
)

// Format constants for output formats.
const (
	FormatSVG     = "svg"
	FormatPNG     = "png"
	FormatPDF     = "pdf"
	FormatJSON    = "json"
	FormatDOT     = "dot"
	FormatMermaid = "mermaid"
)

// ValidFormats is the set of supported output formats per diagram kind.
var ValidFormats = map[string]map[string]bool{
	KindBlock: {
		FormatSVG:  true,
		FormatPNG:  true,
		FormatPDF:  true,
		FormatJSON: true,
	},
	KindFlow: {
		FormatSVG:     true,
		FormatPNG:     true,
		FormatPDF:     true,
		FormatJSON:    true,
		FormatDOT:     true,
		FormatMermaid: true,
	},
}

// ValidStyles is the set of supported visual styles.
var ValidStyles = map[string]bool{
	StyleSimple: true,
	StylePatent: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the diagram pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Parse options
	Kind string `json:"kind"`
	// Blocks holds the positional block names. When empty for a block
	// diagram, Input must be a full block document.
	Blocks []string `json:"blocks,omitempty"`
	// Input is the serialized GraphSpec: the connection mapping when Blocks
	// is set, a block document otherwise, or the flow steps.
	Input  []byte `json:"input,omitempty"`
	Select string `json:"select,omitempty"`
	Strict bool   `json:"strict,omitempty"`

	// Layout options
	SlotCount   int    `json:"slot_count,omitempty"`
	StrictChain bool   `json:"strict_chain,omitempty"`
	Position    bool   `json:"position,omitempty"`
	Caption     string `json:"caption,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Style   string   `json:"style,omitempty"`
	Scale   float64  `json:"scale,omitempty"`
	Refresh bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Scene is the laid-out diagram.
	Scene diagram.Scene

	// SceneHash is the content hash of the serialized scene.
	SceneHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	BlockCount     int
	StepCount      int
	ConnectorCount int
	ParseTime      time.Duration
	LayoutTime     time.Duration
	RenderTime     time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	SceneHit  bool // Whether the scene came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateKind checks that a diagram kind is valid.
func ValidateKind(kind string) error {
	if _, ok := ValidFormats[kind]; !ok {
		return perrors.New(perrors.ErrCodeInvalidKind, "invalid kind: %q (must be one of: block, flow)", kind)
	}
	return nil
}

// ValidateFormat checks that a format is valid for the given kind.
func ValidateFormat(kind, format string) error {
	if err := ValidateKind(kind); err != nil {
		return err
	}
	if !ValidFormats[kind][format] {
		return perrors.New(perrors.ErrCodeInvalidFormat, "invalid format for %s diagram: %q (must be one of: %s)",
			kind, format, strings.Join(formatNames(kind), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid for the given kind.
func ValidateFormats(kind string, formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(kind, f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !ValidStyles[style] {
		return perrors.New(perrors.ErrCodeInvalidStyle, "invalid style: %q (must be one of: simple, patent)", style)
	}
	return nil
}

func formatNames(kind string) []string {
	names := make([]string, 0, len(ValidFormats[kind]))
	for f := range ValidFormats[kind] {
		names = append(names, f)
	}
	sort.Strings(names)
	return names
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
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks required fields for parsing.
func (o *Options) ValidateForParse() error {
	if err := ValidateKind(o.Kind); err != nil {
		return err
	}
	if len(o.Input) == 0 && !(o.Kind == KindBlock && len(o.Blocks) > 0) {
		return perrors.New(perrors.ErrCodeInvalidInput, "input is required")
	}
	if o.Kind == KindFlow && len(o.Blocks) > 0 {
		return perrors.New(perrors.ErrCodeInvalidInput, "blocks are not used by flow charts")
	}
	if o.Select != "" && len(o.Blocks) > 0 {
		return perrors.New(perrors.ErrCodeInvalidInput, "select applies to documents, not to a bare connection mapping")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Kind, o.Formats); err != nil {
		return err
	}
	return ValidateStyle(o.Style)
}

// IsFlow returns true if this is a flow chart.
func (o *Options) IsFlow() bool {
	return o.Kind == KindFlow
}

// SceneKeyOpts returns cache key options for scene construction.
func (o *Options) SceneKeyOpts() cache.SceneKeyOpts {
	k := cache.SceneKeyOpts{
		Kind:        o.Kind,
		SlotCount:   o.SlotCount,
		StrictChain: o.StrictChain,
		Caption:     o.Caption,
	}
	if o.IsFlow() && o.Position {
		k.Positioned = true
		// Graphviz node sizes depend on the style's fonts.
		k.Style = o.Style
	}
	return k
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	// JSON and Mermaid output ignore the visual style.
	if format != FormatJSON && format != FormatMermaid {
		k.Style = o.Style
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}
