// Package diagram defines the data model shared by the patentfig parser,
// layout engines and renderers.
//
// # Inputs
//
// A block diagram is four named [Block] values, one per [Slot], plus an
// ordered [Connections] mapping from a source block to its destinations.
// A flow chart is an ordered list of [FlowStep] records. Both arrive as JSON
// and are decoded by package spec.
//
// # Scene
//
// The layout engines produce a [Scene]: rectangles, connectors, optional
// positioned nodes and a caption, in abstract units. A Scene is the only value
// that crosses from the layout core to a renderer, and it serializes to JSON
// so it can be cached or returned from an API unchanged.
//
// # Errors
//
// Every rejection is a typed error that wraps one of the sentinel values
// ([ErrMalformedSpec], [ErrMalformedStep], [ErrUnknownBlockReference],
// [ErrSlotCount], [ErrChainBreak]) so callers can branch with [errors.Is] and
// read the offending field with [errors.As].
package diagram
