package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/patentfig/pkg/diagram"
	"github.com/matzehuels/patentfig/pkg/layout"
	"github.com/matzehuels/patentfig/pkg/observability"
	"github.com/matzehuels/patentfig/pkg/render/nodelink"
)

// =============================================================================
// Scene Construction
// =============================================================================

// GenerateScene lays out a decoded spec. This is the unified entry point for
// both diagram kinds.
func GenerateScene(ctx context.Context, s Spec, opts Options) (scene diagram.Scene, err error) {
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, s.Kind, s.Count())
	start := time.Now()
	defer func() { hooks.OnLayoutComplete(ctx, s.Kind, time.Since(start), err) }()

	if s.Kind == KindFlow {
		return generateFlowScene(ctx, s, opts)
	}
	return generateBlockScene(s, opts)
}

// =============================================================================
// Block
// =============================================================================

func generateBlockScene(s Spec, opts Options) (diagram.Scene, error) {
	var layoutOpts []layout.BlockOption
	if opts.SlotCount > 0 {
		layoutOpts = append(layoutOpts, layout.WithSlotCount(opts.SlotCount))
	}
	if opts.Caption != "" {
		layoutOpts = append(layoutOpts, layout.WithBlockCaption(opts.Caption))
	}
	return layout.BuildBlocks(s.Blocks, s.Connections, layoutOpts...)
}

// =============================================================================
// Flow
// =============================================================================

// generateFlowScene builds a flow scene and, when requested, asks Graphviz
// for node positions so the JSON output carries coordinates.
func generateFlowScene(ctx context.Context, s Spec, opts Options) (diagram.Scene, error) {
	var layoutOpts []layout.FlowOption
	if opts.StrictChain {
		layoutOpts = append(layoutOpts, layout.WithStrictChain())
	}
	if opts.Caption != "" {
		layoutOpts = append(layoutOpts, layout.WithFlowCaption(opts.Caption))
	}

	scene, err := layout.BuildFlow(s.Steps, layoutOpts...)
	if err != nil || !opts.Position {
		return scene, err
	}
	return layout.PlaceFlow(ctx, scene, nodelink.Positioner{Options: nodelinkOptions(opts)})
}

// nodelinkOptions maps pipeline options onto Graphviz rendering options.
func nodelinkOptions(opts Options) nodelink.Options {
	return nodelink.Options{
		Patent:    opts.Style == StylePatent,
		WrapWidth: layout.DefaultWrapWidth,
	}
}
