// Package spec decodes serialized GraphSpecs into the diagram model.
//
// # Overview
//
// An upstream agent describes a figure as JSON. A block diagram's
// connections arrive as an object mapping a source block name to the list of
// blocks it points to:
//
//	{"A": ["B", "C"], "B": ["D"]}
//
// A flow chart arrives as an array of step records:
//
//	[{"start": "Receive", "end": "Validate"}, {"start": "Validate", "end": "Store"}]
//
// [ParseConnections] and [ParseFlowSteps] decode these, preserving declaration
// order exactly. They check structure only; whether a name refers to a
// declared block is decided later by package layout.
//
// # Strict Mode
//
// [WithStrict] additionally validates the document against an embedded JSON
// Schema, rejecting unknown record keys and empty names up front.
//
// # Envelopes
//
// Agents often wrap the GraphSpec in a larger response. [Select] runs a jq
// expression over such an envelope and returns the embedded GraphSpec, which
// may itself be a JSON-encoded string.
//
// All functions in this package are pure and safe for concurrent use.
package spec
