package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/patentfig/pkg/diagram"
	"github.com/matzehuels/patentfig/pkg/observability"
	"github.com/matzehuels/patentfig/pkg/render/blocks"
	"github.com/matzehuels/patentfig/pkg/render/blocks/styles"
	"github.com/matzehuels/patentfig/pkg/render/nodelink"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, s diagram.Scene, opts Options) (artifacts map[string][]byte, err error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	defer func() { hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err) }()

	switch s.Kind {
	case diagram.KindBlock:
		return renderBlocks(ctx, s, opts)
	case diagram.KindFlow:
		return renderFlow(ctx, s, opts)
	default:
		return nil, fmt.Errorf("unsupported scene kind: %q", s.Kind)
	}
}

// renderBlocks generates block diagram outputs.
func renderBlocks(ctx context.Context, s diagram.Scene, opts Options) (map[string][]byte, error) {
	svgOpts := buildSVGOptions(opts)
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = blocks.RenderSVG(s, svgOpts...)
		case FormatPNG:
			data, err = blocks.RenderPNG(ctx, s, blocks.WithPNGSVGOptions(svgOpts...), blocks.WithScale(opts.Scale))
		case FormatPDF:
			data, err = blocks.RenderPDF(ctx, s, svgOpts...)
		case FormatJSON:
			data, err = diagram.MarshalScene(s)
		default:
			return nil, fmt.Errorf("unsupported block format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// renderFlow generates flow chart outputs. The DOT source is built once and
// shared by every Graphviz-backed format.
func renderFlow(ctx context.Context, s diagram.Scene, opts Options) (map[string][]byte, error) {
	dot, err := nodelink.ToDOT(s, nodelinkOptions(opts))
	if err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, opts.Scale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dot)
		case FormatJSON:
			data, err = diagram.MarshalScene(s)
		case FormatDOT:
			data = []byte(dot)
		case FormatMermaid:
			var text string
			text, err = nodelink.ToMermaid(s)
			data = []byte(text)
		default:
			return nil, fmt.Errorf("unsupported flow format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// buildSVGOptions builds block SVG rendering options.
func buildSVGOptions(opts Options) []blocks.SVGOption {
	switch opts.Style {
	case StylePatent:
		return []blocks.SVGOption{blocks.WithStyle(styles.Patent{})}
	default:
		return []blocks.SVGOption{blocks.WithStyle(styles.Simple{})}
	}
}
