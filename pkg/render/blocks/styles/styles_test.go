package styles

import (
	"bytes"
	"math"
	"strings"
	"testing"
)

func TestSimpleRenderBlock(t *testing.T) {
	var buf bytes.Buffer
	Simple{}.RenderBlock(&buf, Block{ID: "block-0", Name: "eSIM <100>", X: 10, Y: 20, W: 100, H: 50})
	out := buf.String()

	for _, want := range []string{
		`id="block-0"`,
		`x="10.00"`,
		`y="20.00"`,
		`width="100.00"`,
		`height="50.00"`,
		`fill="lightgrey"`,
		`stroke="black"`,
		`<title>eSIM &lt;100&gt;</title>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderBlock() output missing %q\nGot: %s", want, out)
		}
	}
}

func TestRenderEdgeColor(t *testing.T) {
	e := Edge{FromID: "a", ToID: "b", X1: 0, Y1: 0, X2: 100, Y2: 0, HeadWidth: 10, HeadLength: 10, Color: "red"}

	tests := []struct {
		name  string
		style Style
		want  string
	}{
		{"simple uses edge color", Simple{}, `stroke="red"`},
		{"patent forces black", Patent{}, `stroke="black"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.style.RenderEdge(&buf, e)
			out := buf.String()
			if !strings.Contains(out, tt.want) {
				t.Errorf("RenderEdge() missing %q\nGot: %s", tt.want, out)
			}
			if !strings.Contains(out, `<polygon class="arrowhead"`) {
				t.Error("RenderEdge() missing arrowhead")
			}
		})
	}
}

func TestSimpleDefaultEdgeColor(t *testing.T) {
	var buf bytes.Buffer
	Simple{}.RenderEdge(&buf, Edge{X2: 10, HeadWidth: 4, HeadLength: 4})
	if !strings.Contains(buf.String(), `stroke="lightgrey"`) {
		t.Errorf("got %s", buf.String())
	}
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	Simple{}.RenderText(&buf, Block{ID: "block-1", Lines: []string{"Device", "Management"}, W: 160, H: 160, CX: 80, CY: 80})
	out := buf.String()
	if strings.Count(out, "<tspan") != 2 {
		t.Errorf("want 2 tspans, got %s", out)
	}
	if !strings.Contains(out, `text-anchor="middle"`) {
		t.Error("label not centered")
	}
}

func TestRenderCaptionEmpty(t *testing.T) {
	var buf bytes.Buffer
	Patent{}.RenderCaption(&buf, Caption{})
	if buf.Len() != 0 {
		t.Errorf("empty caption wrote %q", buf.String())
	}
}

func TestFontSize(t *testing.T) {
	tests := []struct {
		name  string
		block Block
	}{
		{"short", Block{Lines: []string{"A"}, W: 160, H: 160}},
		{"many lines", Block{Lines: []string{"Device", "Management", "Module", "(200)"}, W: 160, H: 160}},
		{"tiny", Block{Lines: []string{"Management"}, W: 10, H: 10}},
		{"no lines", Block{W: 100, H: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FontSize(tt.block)
			if got < fontSizeMin || got > fontSizeMax {
				t.Errorf("FontSize() = %v, want between %v and %v", got, fontSizeMin, fontSizeMax)
			}
		})
	}
}

func TestArrowHead(t *testing.T) {
	h := ArrowHead(0, 0, 100, 0, 10, 6)
	if h[0] != [2]float64{100, 0} {
		t.Errorf("tip = %v", h[0])
	}
	for _, p := range h[1:] {
		if math.Abs(p[0]-90) > 1e-9 || math.Abs(math.Abs(p[1])-3) > 1e-9 {
			t.Errorf("base corner = %v", p)
		}
	}

	same := ArrowHead(5, 5, 5, 5, 10, 6)
	if same[1] != [2]float64{5, 5} {
		t.Errorf("degenerate head = %v", same)
	}
}

func TestEscapeXML(t *testing.T) {
	if got := EscapeXML(`a<b>&"c"`); got != "a&lt;b&gt;&amp;&#34;c&#34;" {
		t.Errorf("EscapeXML() = %q", got)
	}
}
