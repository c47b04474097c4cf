// Package render turns diagram scenes into artifacts.
//
// # Overview
//
// Rendering is split by figure kind:
//
//   - Block diagrams (Figure A) are drawn directly from scene geometry by
//     the [blocks] subpackage.
//   - Flow charts (Figure C) are handed to Graphviz by the [nodelink]
//     subpackage, which also emits DOT and Mermaid source.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert tool
// (from librsvg). Both renderers use them for raster and print output.
//
//	svg := blocks.RenderSVG(scene)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)
//
// Callers can check [Available] before offering PDF or PNG output. When the
// tool is missing the converters fail with [ErrConverterMissing].
//
// [blocks]: github.com/matzehuels/patentfig/pkg/render/blocks
// [nodelink]: github.com/matzehuels/patentfig/pkg/render/nodelink
package render
