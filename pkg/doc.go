// Package pkg provides the core libraries for patentfig figure generation.
//
// # Overview
//
// patentfig turns a small graph specification into the two figures a patent
// application most often needs: a four-block system diagram (Figure A) and a
// method flow chart (Figure C). The pkg directory is organized into these
// areas:
//
//  1. [spec] - Decode the serialized GraphSpec
//  2. [layout] - Block and flow layout engines producing a [diagram.Scene]
//  3. [render] - SVG, PNG, PDF, DOT and Mermaid output
//  4. [pipeline] - Orchestration (parse → layout → render) with caching
//  5. [cache], [store] - Scene and artifact caching, diagram persistence
//
// # Architecture
//
// The typical data flow:
//
//	serialized GraphSpec (block names + mapping, or flow steps)
//	         ↓
//	    [spec] package (decode and validate)
//	         ↓
//	    [layout] package (slots or flow boxes + connectors)
//	         ↓
//	    [render] package (blocks or nodelink)
//	         ↓
//	SVG/PNG/PDF/JSON/DOT/Mermaid output
//
// # Quick Start
//
// Lay out and draw a block diagram:
//
//	import (
//	    "github.com/matzehuels/patentfig/pkg/layout"
//	    "github.com/matzehuels/patentfig/pkg/render/blocks"
//	    "github.com/matzehuels/patentfig/pkg/spec"
//	)
//
//	names := []string{"Sensor (100)", "Controller (200)", "Memory (300)", "Display (400)"}
//	conns, _ := spec.ParseConnections([]byte(`{"Sensor (100)": ["Controller (200)"]}`))
//	scene, _ := layout.BuildBlocks(names, conns)
//	svg, _ := blocks.RenderSVG(scene)
//
// Or let the pipeline do all three stages, with caching:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, _ := runner.Execute(ctx, pipeline.Options{
//	    Kind:    pipeline.KindFlow,
//	    Input:   []byte(`[{"start": "Receive (100)", "end": "Store (200)"}]`),
//	    Formats: []string{"svg", "mermaid"},
//	})
//
// # Main Packages
//
//   - [diagram]: Slots, connections, flow steps, the Scene and domain errors
//   - [spec]: GraphSpec parsing, strict JSON Schema mode and jq selection
//   - [layout]: BuildBlocks, BuildFlow, GridSlots, Wrap and PlaceFlow
//   - [render/blocks]: Scene → SVG, with PNG and PDF via an external converter
//   - [render/nodelink]: Flow scene → DOT, Graphviz SVG/PNG/PDF, Mermaid
//   - [pipeline]: Options, validation, Runner with scene and artifact caching
//   - [cache]: File, Redis and null caches with content-hash keys
//   - [store]: Memory and MongoDB diagram stores
//   - [observability]: Pipeline, cache and server hooks
//   - [errors]: Coded errors shared by the CLI, HTTP API and MCP server
//   - [buildinfo]: Version information injected at build time
//
// [diagram]: https://pkg.go.dev/github.com/matzehuels/patentfig/pkg/diagram
// [diagram.Scene]: https://pkg.go.dev/github.com/matzehuels/patentfig/pkg/diagram#Scene
// [spec]: https://pkg.go.dev/github.com/matzehuels/patentfig/pkg/spec
// [layout]: https://pkg.go.dev/github.com/matzehuels/patentfig/pkg/layout
// [render]: https://pkg.go.dev/github.com/matzehuels/patentfig/pkg/render
// [render/blocks]: https://pkg.go.dev/github.com/matzehuels/patentfig/pkg/render/blocks
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/patentfig/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/patentfig/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/patentfig/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/patentfig/pkg/store
// [observability]: https://pkg.go.dev/github.com/matzehuels/patentfig/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/patentfig/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/patentfig/pkg/buildinfo
package pkg
