package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/patentfig/pkg/diagram"
	"github.com/matzehuels/patentfig/pkg/layout"
	"github.com/matzehuels/patentfig/pkg/render"
)

// Options configures flow chart rendering.
type Options struct {
	// Patent draws black-and-white boxes instead of grey fills.
	Patent bool
	// WrapWidth wraps node labels at this many characters. Zero keeps
	// labels on one line.
	WrapWidth int
}

// ToDOT converts a flow scene to Graphviz DOT source. Nodes are declared in
// first-appearance order and edges in scene order, so the same scene always
// yields the same DOT text. The scene caption becomes the graph label.
func ToDOT(s diagram.Scene, opts Options) (string, error) {
	if s.Kind != diagram.KindFlow {
		return "", fmt.Errorf("nodelink: scene kind is %q", s.Kind)
	}
	return buildDOT(sceneNodes(s), s.Edges(), s.Caption.Text, opts), nil
}

func buildDOT(nodes []diagram.Node, edges []diagram.Connection, caption string, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"white\";\n")
	if caption != "" {
		fmt.Fprintf(&buf, "  label=%q;\n", caption)
		buf.WriteString("  labelloc=b;\n")
		buf.WriteString("  fontsize=20;\n")
	}
	if opts.Patent {
		buf.WriteString("  fontname=\"Times-Roman\";\n")
		buf.WriteString("  node [shape=box, style=filled, fillcolor=white, color=black, penwidth=2, fontname=\"Times-Roman\", fontsize=14];\n")
		buf.WriteString("  edge [color=black, penwidth=2];\n")
	} else {
		buf.WriteString("  node [shape=box, style=filled, fillcolor=lightgrey, color=black, fontname=\"Helvetica\", fontsize=14];\n")
		buf.WriteString("  edge [color=black];\n")
	}
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	ids := make(map[string]string, len(nodes))
	for _, n := range nodes {
		ids[n.Label] = n.ID
		fmt.Fprintf(&buf, "  %s [label=%q];\n", n.ID, fmtLabel(n.Label, opts.WrapWidth))
	}

	buf.WriteString("\n")
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %s -> %s;\n", ids[e.From], ids[e.To])
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(label string, width int) string {
	if width < 1 {
		return label
	}
	return strings.Join(layout.Wrap(label, width), "\n")
}

// sceneNodes returns the scene's nodes, deriving them from the connectors
// when the scene was built without a node list.
func sceneNodes(s diagram.Scene) []diagram.Node {
	if len(s.Nodes) > 0 || len(s.Connectors) == 0 {
		return s.Nodes
	}
	return nodesFor(s.Edges())
}

func nodesFor(edges []diagram.Connection) []diagram.Node {
	seen := make(map[string]bool)
	var nodes []diagram.Node
	add := func(label string) {
		if !seen[label] {
			seen[label] = true
			nodes = append(nodes, diagram.Node{ID: fmt.Sprintf("n%d", len(nodes)), Label: label})
		}
	}
	for _, e := range edges {
		add(e.From)
		add(e.To)
	}
	return nodes
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := renderDOT(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders DOT source as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders DOT source as PNG via SVG conversion at the given scale.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
