package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/patentfig/pkg/cache"
	"github.com/matzehuels/patentfig/pkg/diagram"
	"github.com/matzehuels/patentfig/pkg/observability"
	"github.com/matzehuels/patentfig/pkg/spec"
)

// Spec is a decoded GraphSpec, ready for layout.
type Spec struct {
	Kind        string              `json:"kind"`
	Blocks      []string            `json:"blocks,omitempty"`
	Connections diagram.Connections `json:"connections,omitempty"`
	Steps       []diagram.FlowStep  `json:"steps,omitempty"`
}

// Count returns the number of blocks or steps.
func (s Spec) Count() int {
	if s.Kind == KindFlow {
		return len(s.Steps)
	}
	return len(s.Blocks)
}

// Hash returns a content hash of the decoded spec. Connections keep their
// declaration order, so two inputs differing only in order hash differently.
func (s Spec) Hash() (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode spec: %w", err)
	}
	return cache.Hash(data), nil
}

// Parse decodes the GraphSpec described by opts.
func Parse(ctx context.Context, opts Options) (s Spec, err error) {
	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, opts.Kind)
	start := time.Now()
	defer func() { hooks.OnParseComplete(ctx, opts.Kind, s.Count(), time.Since(start), err) }()

	data := opts.Input
	if opts.Select != "" {
		if data, err = spec.Select(ctx, data, opts.Select); err != nil {
			return Spec{}, err
		}
	}

	var parseOpts []spec.Option
	if opts.Strict {
		parseOpts = append(parseOpts, spec.WithStrict())
	}

	switch opts.Kind {
	case KindBlock:
		return parseBlock(opts.Blocks, data, parseOpts)
	case KindFlow:
		steps, err := spec.ParseFlowDocument(data, parseOpts...)
		if err != nil {
			return Spec{}, err
		}
		return Spec{Kind: KindFlow, Steps: steps}, nil
	default:
		return Spec{}, ValidateKind(opts.Kind)
	}
}

// parseBlock decodes either a bare connection mapping for the given names or,
// when names is empty, a full block document.
func parseBlock(names []string, data []byte, parseOpts []spec.Option) (Spec, error) {
	if len(names) == 0 {
		doc, err := spec.ParseBlockDocument(data, parseOpts...)
		if err != nil {
			return Spec{}, err
		}
		return Spec{Kind: KindBlock, Blocks: doc.Blocks, Connections: doc.Connections}, nil
	}

	s := Spec{Kind: KindBlock, Blocks: names, Connections: diagram.Connections{}}
	if len(bytes.TrimSpace(data)) == 0 {
		return s, nil
	}
	conns, err := spec.ParseConnections(data, parseOpts...)
	if err != nil {
		return Spec{}, err
	}
	s.Connections = conns
	return s, nil
}
