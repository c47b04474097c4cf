package nodelink

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/patentfig/pkg/diagram"
	"github.com/matzehuels/patentfig/pkg/layout"
)

const pointsPerInch = 72.0

// Positioner places flow chart nodes with Graphviz's dot layout.
// Coordinates are in points with the origin at the top-left corner.
type Positioner struct {
	Options Options
}

var _ layout.Positioner = Positioner{}

// Position runs Graphviz over the edge list and reads node centers back from
// its plain-text output.
func (p Positioner) Position(ctx context.Context, edges []diagram.Connection) (layout.Placement, error) {
	nodes := nodesFor(edges)
	if len(nodes) == 0 {
		return layout.Placement{Positions: map[string]diagram.Point{}}, nil
	}

	out, err := renderDOT(ctx, buildDOT(nodes, edges, "", p.Options), graphviz.Format("plain"))
	if err != nil {
		return layout.Placement{}, err
	}

	labels := make(map[string]string, len(nodes))
	for _, n := range nodes {
		labels[n.ID] = n.Label
	}
	return parsePlain(out, labels)
}

// parsePlain reads Graphviz "plain" output. Only the graph and node lines
// are used; y is flipped so it grows downward like scene coordinates.
func parsePlain(data []byte, labels map[string]string) (layout.Placement, error) {
	pl := layout.Placement{Positions: make(map[string]diagram.Point, len(labels))}
	haveGraph := false

	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "graph":
			if len(fields) < 4 {
				return layout.Placement{}, fmt.Errorf("plain output: short graph line %q", sc.Text())
			}
			w, err1 := strconv.ParseFloat(fields[2], 64)
			h, err2 := strconv.ParseFloat(fields[3], 64)
			if err1 != nil || err2 != nil {
				return layout.Placement{}, fmt.Errorf("plain output: bad graph size %q", sc.Text())
			}
			pl.Width, pl.Height = w*pointsPerInch, h*pointsPerInch
			haveGraph = true
		case "node":
			if !haveGraph || len(fields) < 4 {
				return layout.Placement{}, fmt.Errorf("plain output: unexpected node line %q", sc.Text())
			}
			label, ok := labels[fields[1]]
			if !ok {
				continue
			}
			x, err1 := strconv.ParseFloat(fields[2], 64)
			y, err2 := strconv.ParseFloat(fields[3], 64)
			if err1 != nil || err2 != nil {
				return layout.Placement{}, fmt.Errorf("plain output: bad node position %q", sc.Text())
			}
			pl.Positions[label] = diagram.Point{X: x * pointsPerInch, Y: pl.Height - y*pointsPerInch}
		case "stop":
			return pl, nil
		}
	}
	if err := sc.Err(); err != nil {
		return layout.Placement{}, err
	}
	if !haveGraph {
		return layout.Placement{}, fmt.Errorf("plain output: missing graph line")
	}
	return pl, nil
}
