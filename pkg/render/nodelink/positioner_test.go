package nodelink

import (
	"context"
	"testing"

	"github.com/matzehuels/patentfig/pkg/diagram"
	"github.com/matzehuels/patentfig/pkg/layout"
)

const samplePlain = `graph 1 3.5 0.5
node n0 0.75 0.25 1.5 0.5 "Device Setup (100)" solid box black lightgrey
node n1 2.75 0.25 1.5 0.5 "Activate eSIM (200)" solid box black lightgrey
edge n0 n1 4 1.5 0.25 1.8 0.25 2.1 0.25 2.5 0.25 solid black
stop
`

func TestParsePlain(t *testing.T) {
	labels := map[string]string{"n0": "Device Setup (100)", "n1": "Activate eSIM (200)"}
	pl, err := parsePlain([]byte(samplePlain), labels)
	if err != nil {
		t.Fatal(err)
	}
	if pl.Width != 252 || pl.Height != 36 {
		t.Errorf("extent = %vx%v, want 252x36", pl.Width, pl.Height)
	}
	if got := pl.Positions["Activate eSIM (200)"]; got != (diagram.Point{X: 198, Y: 18}) {
		t.Errorf("position = %v", got)
	}
}

func TestParsePlainErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"node before graph", "node n0 1 1 1 1 x\nstop\n"},
		{"bad size", "graph 1 wide 2\nstop\n"},
		{"bad position", "graph 1 2 2\nnode n0 x y 1 1 A\nstop\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parsePlain([]byte(tt.input), map[string]string{"n0": "A"}); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestPositionerEmpty(t *testing.T) {
	pl, err := Positioner{}.Position(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(pl.Positions) != 0 {
		t.Errorf("got %d positions", len(pl.Positions))
	}
}

func TestPlaceFlowWithGraphviz(t *testing.T) {
	s := patentFlow(t)
	placed, err := layout.PlaceFlow(context.Background(), s, Positioner{})
	if err != nil {
		t.Skipf("graphviz plain output unavailable: %v", err)
	}
	for _, n := range placed.Nodes {
		if n.Position == nil {
			t.Errorf("node %q not placed", n.Label)
		}
	}
	// rankdir=LR puts each later step further right.
	if placed.Nodes[0].Position.X >= placed.Nodes[2].Position.X {
		t.Errorf("nodes not ordered left to right: %v, %v", *placed.Nodes[0].Position, *placed.Nodes[2].Position)
	}
}
