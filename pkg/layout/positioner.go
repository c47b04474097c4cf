package layout

import (
	"context"
	"fmt"

	"github.com/matzehuels/patentfig/pkg/diagram"
)

// Placement is the result of positioning a flow chart's nodes.
// Positions is keyed by node label.
type Placement struct {
	Width     float64
	Height    float64
	Positions map[string]diagram.Point
}

// Positioner computes node coordinates for an ordered edge list.
type Positioner interface {
	Position(ctx context.Context, edges []diagram.Connection) (Placement, error)
}

// PositionerFunc adapts a function to the [Positioner] interface.
type PositionerFunc func(ctx context.Context, edges []diagram.Connection) (Placement, error)

func (f PositionerFunc) Position(ctx context.Context, edges []diagram.Connection) (Placement, error) {
	return f(ctx, edges)
}

// PlaceFlow returns a copy of a flow scene with node positions and the scene
// extent filled in by p. Connectors and their order are left untouched.
func PlaceFlow(ctx context.Context, s diagram.Scene, p Positioner) (diagram.Scene, error) {
	if s.Kind != diagram.KindFlow {
		return diagram.Scene{}, fmt.Errorf("place flow: scene kind is %q", s.Kind)
	}

	pl, err := p.Position(ctx, s.Edges())
	if err != nil {
		return diagram.Scene{}, fmt.Errorf("place flow: %w", err)
	}

	out := s
	out.Nodes = make([]diagram.Node, len(s.Nodes))
	for i, n := range s.Nodes {
		out.Nodes[i] = diagram.Node{ID: n.ID, Label: n.Label}
		if pt, ok := pl.Positions[n.Label]; ok {
			pt := pt
			out.Nodes[i].Position = &pt
		}
	}
	out.Width, out.Height = pl.Width, pl.Height
	return out, nil
}
