package blocks

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/matzehuels/patentfig/pkg/diagram"
	"github.com/matzehuels/patentfig/pkg/layout"
	"github.com/matzehuels/patentfig/pkg/render"
	"github.com/matzehuels/patentfig/pkg/render/blocks/styles"
)

func patentScene(t *testing.T) diagram.Scene {
	t.Helper()
	names := []string{"eSIM (100)", "Device Management Module (200)", "Network Service Database (300)", "User Interface (400)"}
	conns := diagram.Connections{
		{Source: "eSIM (100)", Targets: []string{"Device Management Module (200)"}},
		{Source: "Device Management Module (200)", Targets: []string{"Network Service Database (300)"}},
	}
	s, err := layout.BuildBlocks(names, conns)
	if err != nil {
		t.Fatalf("BuildBlocks: %v", err)
	}
	return s
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(patentScene(t))
	if err != nil {
		t.Fatal(err)
	}
	out := string(svg)

	if !strings.HasPrefix(out, "<svg") || !strings.HasSuffix(out, "</svg>\n") {
		t.Error("output is not a single svg document")
	}
	if got := strings.Count(out, `class="block"`); got != 4 {
		t.Errorf("got %d blocks, want 4", got)
	}
	if got := strings.Count(out, `<line class="edge"`); got != 2 {
		t.Errorf("got %d edges, want 2", got)
	}
	if got := strings.Count(out, `class="arrowhead"`); got != 2 {
		t.Errorf("got %d arrowheads, want 2", got)
	}
	for _, want := range []string{
		"Figure A: Block Diagram",
		"<title>Device Management Module (200)</title>",
		">Management</tspan>",
		`fill="lightgrey"`,
		`stroke="black"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRenderSVGDimensions(t *testing.T) {
	svg, err := RenderSVG(patentScene(t), WithUnit(100))
	if err != nil {
		t.Fatal(err)
	}
	// 3x4 scene plus a half-unit margin on each side.
	if !strings.Contains(string(svg), `viewBox="0 0 400.0 500.0"`) {
		t.Errorf("unexpected viewBox in %s", svg[:120])
	}
}

func TestRenderSVGPatentStyle(t *testing.T) {
	svg, err := RenderSVG(patentScene(t), WithStyle(styles.Patent{}))
	if err != nil {
		t.Fatal(err)
	}
	out := string(svg)
	if strings.Contains(out, "lightgrey") {
		t.Error("patent style must be black and white")
	}
	if !strings.Contains(out, "Times New Roman") {
		t.Error("patent style font missing")
	}
}

func TestRenderSVGSelfLoop(t *testing.T) {
	s, err := layout.BuildBlocks([]string{"A", "B", "C", "D"}, diagram.Connections{{Source: "B", Targets: []string{"B"}}})
	if err != nil {
		t.Fatal(err)
	}
	svg, err := RenderSVG(s)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(svg), `<path class="edge" data-from="B"`) {
		t.Error("self-loop not drawn as a loop")
	}
}

func TestRenderSVGEscapesNames(t *testing.T) {
	s, err := layout.BuildBlocks([]string{"A<b>", "B & C", "C", "D"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	svg, _ := RenderSVG(s)
	out := string(svg)
	if strings.Contains(out, "<b>") {
		t.Error("name not escaped")
	}
	if !strings.Contains(out, "B &amp; C") {
		t.Error("ampersand not escaped")
	}
}

func TestRenderSVGRejectsFlowScene(t *testing.T) {
	flow, _ := layout.BuildFlow(nil)
	if _, err := RenderSVG(flow); err == nil {
		t.Error("expected error for flow scene")
	}
}

func TestRenderSVGConcurrent(t *testing.T) {
	s := patentScene(t)
	want, _ := RenderSVG(s)

	var wg sync.WaitGroup
	results := make([][]byte, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = RenderSVG(s)
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if !bytes.Equal(got, want) {
			t.Errorf("render %d differs", i)
		}
	}
}

func TestRenderPNGWithoutConverter(t *testing.T) {
	if render.Available() {
		t.Skip("rsvg-convert installed")
	}
	_, err := RenderPNG(context.Background(), patentScene(t))
	if !errors.Is(err, render.ErrConverterMissing) {
		t.Errorf("err = %v, want ErrConverterMissing", err)
	}
}

func TestRenderPDF(t *testing.T) {
	if !render.Available() {
		t.Skip("rsvg-convert not installed")
	}
	pdf, err := RenderPDF(context.Background(), patentScene(t))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
}
