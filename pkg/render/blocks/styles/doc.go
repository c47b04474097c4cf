// Package styles provides the visual styles for block diagrams.
//
// A [Style] receives blocks, edges and the caption already converted to
// pixel coordinates and writes SVG elements for them. Two styles ship:
//
//   - [Simple]: light grey boxes, as the diagrams were first drawn
//   - [Patent]: black-and-white line art suitable for filings
//
// Text helpers ([FontSize], [EscapeXML]) and [ArrowHead] geometry are shared
// by both.
package styles
