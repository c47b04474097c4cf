// Package layout turns parsed GraphSpecs into render-ready scenes.
//
// # Overview
//
// Two engines live here:
//
//   - [BuildBlocks] places named blocks on a fixed grid and computes
//     connector geometry between them (Figure A).
//   - [BuildFlow] turns flow steps into an ordered edge list with no
//     coordinates (Figure C). Node placement is left to a [Positioner].
//
// Both engines are pure functions of their input: the same names,
// connections and options always produce an identical [diagram.Scene].
//
// # Block Grid
//
// Blocks are assigned to slots positionally. The first name goes to the
// top-left slot, the second to bottom-left, the third to top-right and the
// fourth to bottom-right. Each block is a 1×1 unit rectangle and slots are two
// units apart, so the default grid occupies a 3×3 area with the caption
// beneath it. [GridSlots] generalizes the table to any block count for callers
// that opt in with [WithSlotCount].
//
// Labels are word-wrapped to [DefaultWrapWidth] characters per line with
// [Wrap].
//
// # Connectors
//
// A connector runs from the source block toward the destination block along
// the line between their centers, clipped at each rectangle's boundary so it
// starts and ends on block edges. A block connected to itself yields a
// zero-length connector at its center.
//
// # Flow Positioning
//
// [PlaceFlow] asks a [Positioner] for node coordinates and records them in
// the scene. The Graphviz-backed positioner lives in package nodelink.
package layout
