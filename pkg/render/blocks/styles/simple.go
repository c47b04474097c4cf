package styles

import (
	"bytes"
	"fmt"
)

// Simple draws light grey blocks with black outlines and connectors in the
// color carried by each edge.
type Simple struct{}

func (Simple) RenderDefs(buf *bytes.Buffer) {}

func (Simple) RenderBlock(buf *bytes.Buffer, b Block) {
	fmt.Fprintf(buf, `  <rect id="%s" class="block" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="lightgrey" stroke="black" stroke-width="1"><title>%s</title></rect>`+"\n",
		EscapeXML(b.ID), b.X, b.Y, b.W, b.H, EscapeXML(b.Name))
}

func (Simple) RenderEdge(buf *bytes.Buffer, e Edge) {
	color := e.Color
	if color == "" {
		color = "lightgrey"
	}
	writeEdge(buf, e, "2", EscapeXML(color))
}

func (Simple) RenderText(buf *bytes.Buffer, b Block) {
	writeLines(buf, b, `font-family="Helvetica, Arial, sans-serif" fill="black"`)
}

func (Simple) RenderCaption(buf *bytes.Buffer, c Caption) {
	writeCaption(buf, c, `font-family="Helvetica, Arial, sans-serif" fill="black"`)
}
