package styles

import (
	"bytes"
	"math"
)

// Style defines the visual appearance of a block diagram.
// Implementations control how blocks, connectors, labels and the caption are drawn.
type Style interface {
	// RenderDefs writes SVG <defs> or <style> content shared by the drawing.
	RenderDefs(buf *bytes.Buffer)
	// RenderBlock writes the SVG for a single block rectangle.
	RenderBlock(buf *bytes.Buffer, b Block)
	// RenderEdge writes the SVG for a connector and its arrowhead.
	RenderEdge(buf *bytes.Buffer, e Edge)
	// RenderText writes the SVG for a block's wrapped label.
	RenderText(buf *bytes.Buffer, b Block)
	// RenderCaption writes the figure caption.
	RenderCaption(buf *bytes.Buffer, c Caption)
}

// Block contains everything needed to draw one block, in pixels.
type Block struct {
	ID         string   // Element identifier
	Name       string   // Block name as declared
	Lines      []string // Wrapped label lines
	X, Y, W, H float64  // Top-left corner and size
	CX, CY     float64  // Center
}

// Edge is a connector in pixels. Loop is set for a block connected to itself,
// in which case (X1, Y1) is the corner the loop is drawn at.
type Edge struct {
	FromID, ToID   string
	X1, Y1, X2, Y2 float64
	HeadWidth      float64
	HeadLength     float64
	Color          string
	Loop           bool
}

// Caption is the figure title anchored at its center baseline.
type Caption struct {
	Text     string
	X, Y     float64
	FontSize float64
}

// ArrowHead returns the three corners of an arrowhead whose tip sits at
// (x2, y2), pointing along the segment from (x1, y1).
func ArrowHead(x1, y1, x2, y2, length, width float64) [3][2]float64 {
	dx, dy := x2-x1, y2-y1
	d := math.Hypot(dx, dy)
	if d == 0 {
		return [3][2]float64{{x2, y2}, {x2, y2}, {x2, y2}}
	}
	ux, uy := dx/d, dy/d
	bx, by := x2-ux*length, y2-uy*length
	px, py := -uy*width/2, ux*width/2
	return [3][2]float64{{x2, y2}, {bx + px, by + py}, {bx - px, by - py}}
}
