// Package pipeline provides the synthesize → render pipeline shared by
// the CLI and the HTTP API.
//
// Centralizing the caching and option handling here keeps both entry
// points consistent: a POST to /api/synthesize and an `archsketch synth`
// run produce byte-identical documents for the same snapshot.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, snap, pipeline.Options{Format: "json"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out := result.Artifact
package pipeline

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/archsketch/archsketch/pkg/cache"
	"github.com/archsketch/archsketch/pkg/errors"
	"github.com/archsketch/archsketch/pkg/layout"
	"github.com/archsketch/archsketch/pkg/style"
)

// Output format constants.
const (
	FormatJSON = "json" // Excalidraw-compatible scene document
	FormatDOT  = "dot"  // Graphviz source for quick previews
	FormatSVG  = "svg"  // Graphviz-rendered preview
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// DefaultFormat is used when no format is requested.
const DefaultFormat = FormatJSON

// Options contains all configuration for one pipeline run. The struct
// supports JSON serialization for API requests.
type Options struct {
	// Format selects the output artifact.
	Format string `json:"format,omitempty"`

	// Detailed includes tech stacks and alerts in DOT/SVG previews.
	Detailed bool `json:"detailed,omitempty"`

	// Refresh bypasses cache reads (writes still happen).
	Refresh bool `json:"refresh,omitempty"`

	// Layout geometry overrides. Zero values keep the defaults.
	CanvasWidth  float64 `json:"canvas_width,omitempty"`
	LayerSpacing float64 `json:"layer_spacing,omitempty"`
	NodeSpacing  float64 `json:"node_spacing,omitempty"`

	// Runtime options (not serialized).
	Logger *log.Logger `json:"-"`

	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks the options and applies defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if !ValidFormats[o.Format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, dot, svg)", o.Format)
	}
	if o.CanvasWidth < 0 || o.LayerSpacing < 0 || o.NodeSpacing < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout dimensions must be positive")
	}
	if o.CanvasWidth == 0 {
		o.CanvasWidth = style.CanvasWidth
	}
	if o.LayerSpacing == 0 {
		o.LayerSpacing = style.LayerSpacing
	}
	if o.NodeSpacing == 0 {
		o.NodeSpacing = style.NodeSpacing
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Engine builds a layout engine honoring the option overrides.
func (o *Options) Engine() *layout.Engine {
	e := layout.New()
	e.CanvasWidth = o.CanvasWidth
	e.LayerSpacing = o.LayerSpacing
	e.NodeSpacing = o.NodeSpacing
	return e
}

// DocumentKeyOpts returns cache key options for document synthesis.
func (o *Options) DocumentKeyOpts() cache.DocumentKeyOpts {
	return cache.DocumentKeyOpts{
		Format:       FormatJSON, // the document itself is format-independent
		CanvasWidth:  o.CanvasWidth,
		LayerSpacing: o.LayerSpacing,
		NodeSpacing:  o.NodeSpacing,
	}
}

// RenderKeyOpts returns cache key options for preview rendering.
func (o *Options) RenderKeyOpts() cache.RenderKeyOpts {
	return cache.RenderKeyOpts{Format: o.Format, Detailed: o.Detailed}
}
