package layout

import (
	"fmt"

	"github.com/matzehuels/patentfig/pkg/diagram"
)

// FlowOption configures [BuildFlow].
type FlowOption func(*flowConfig)

type flowConfig struct {
	caption     string
	strictChain bool
}

// WithFlowCaption replaces the default "Figure C" caption.
func WithFlowCaption(text string) FlowOption { return func(c *flowConfig) { c.caption = text } }

// WithStrictChain requires every step after the first to start where the
// previous one ended.
func WithStrictChain() FlowOption { return func(c *flowConfig) { c.strictChain = true } }

// BuildFlow turns flow steps into a flow scene.
//
// Each step becomes one connector, in input order. Repeated pairs are kept as
// separate connectors. Nodes are the distinct labels in order of first
// appearance; they carry no position until [PlaceFlow] runs. An empty step
// list yields a scene with only the caption.
func BuildFlow(steps []diagram.FlowStep, opts ...FlowOption) (diagram.Scene, error) {
	cfg := flowConfig{caption: diagram.FlowCaption}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.strictChain {
		for i := 1; i < len(steps); i++ {
			if steps[i].Start != steps[i-1].End {
				return diagram.Scene{}, &diagram.ChainBreakError{Index: i - 1, End: steps[i-1].End, Next: steps[i].Start}
			}
		}
	}

	seen := make(map[string]struct{}, len(steps)+1)
	nodes := make([]diagram.Node, 0, len(steps)+1)
	addNode := func(label string) {
		if _, ok := seen[label]; ok {
			return
		}
		seen[label] = struct{}{}
		nodes = append(nodes, diagram.Node{ID: fmt.Sprintf("n%d", len(nodes)), Label: label})
	}

	connectors := make([]diagram.Connector, len(steps))
	for i, s := range steps {
		addNode(s.Start)
		addNode(s.End)
		connectors[i] = diagram.Connector{From: s.Start, To: s.End}
	}

	return diagram.Scene{
		Kind:       diagram.KindFlow,
		Connectors: connectors,
		Nodes:      nodes,
		Caption:    diagram.Caption{Text: cfg.caption},
	}, nil
}
