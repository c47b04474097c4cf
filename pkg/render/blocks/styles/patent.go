package styles

import (
	"bytes"
	"fmt"
)

const patentFont = `font-family="Times New Roman, Times, serif"`

// Patent draws black line art on white, the form patent offices accept for
// drawings. Edge colors are ignored.
type Patent struct{}

func (Patent) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString("  <rect class=\"background\" x=\"0\" y=\"0\" width=\"100%\" height=\"100%\" fill=\"white\"/>\n")
}

func (Patent) RenderBlock(buf *bytes.Buffer, b Block) {
	fmt.Fprintf(buf, `  <rect id="%s" class="block" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="white" stroke="black" stroke-width="2"><title>%s</title></rect>`+"\n",
		EscapeXML(b.ID), b.X, b.Y, b.W, b.H, EscapeXML(b.Name))
}

func (Patent) RenderEdge(buf *bytes.Buffer, e Edge) {
	writeEdge(buf, e, "2", "black")
}

func (Patent) RenderText(buf *bytes.Buffer, b Block) {
	writeLines(buf, b, patentFont+` fill="black"`)
}

func (Patent) RenderCaption(buf *bytes.Buffer, c Caption) {
	writeCaption(buf, c, patentFont+` font-weight="bold" fill="black"`)
}
