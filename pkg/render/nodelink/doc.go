// Package nodelink renders flow chart scenes (Figure C) as node-link diagrams.
//
// # Overview
//
// Flow scenes carry an ordered edge list but no coordinates. This package
// hands them to Graphviz, which decides where every node goes:
//
//	dot, err := nodelink.ToDOT(scene, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)
//
// # DOT Format
//
// [ToDOT] lays the chart out left to right (rankdir=LR) with box nodes and
// uses the scene caption as the graph label. Node identifiers are the
// scene's own ("n0", "n1", ...) so labels may contain any characters.
// Repeated steps produce repeated edges.
//
// # Positions
//
// [Positioner] implements layout.Positioner by running the same DOT through
// Graphviz's plain output and reading node centers back, for callers that
// want coordinates in the scene JSON.
//
// # Mermaid
//
// [ToMermaid] emits the same graph as Mermaid flowchart source for embedding
// in Markdown.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process rendering.
// PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
