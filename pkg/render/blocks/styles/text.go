package styles

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

const (
	fontHeightRatio = 0.8
	fontWidthRatio  = 0.9
	fontCharWidth   = 0.55
	lineSpacing     = 1.2
	fontSizeMin     = 8.0
	fontSizeMax     = 24.0
)

// FontSize picks a label size that fits every line of b inside the block.
func FontSize(b Block) float64 {
	n := max(1, len(b.Lines))
	longest := 1
	for _, l := range b.Lines {
		longest = max(longest, len([]rune(l)))
	}
	byHeight := (b.H * fontHeightRatio) / (float64(n) * lineSpacing)
	byWidth := (b.W * fontWidthRatio) / (float64(longest) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, min(byHeight, byWidth)))
}

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// writeLines writes b's label as centered tspans.
func writeLines(buf *bytes.Buffer, b Block, attrs string) {
	size := FontSize(b)
	step := size * lineSpacing
	y := b.CY - step*float64(len(b.Lines)-1)/2

	fmt.Fprintf(buf, `  <text class="block-text" data-block="%s" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="middle" font-size="%.2f" %s>`,
		EscapeXML(b.ID), b.CX, y, size, attrs)
	for i, line := range b.Lines {
		dy := 0.0
		if i > 0 {
			dy = step
		}
		fmt.Fprintf(buf, `<tspan x="%.2f" dy="%.2f">%s</tspan>`, b.CX, dy, EscapeXML(line))
	}
	buf.WriteString("</text>\n")
}

func writeCaption(buf *bytes.Buffer, c Caption, attrs string) {
	if c.Text == "" {
		return
	}
	fmt.Fprintf(buf, `  <text class="caption" x="%.2f" y="%.2f" text-anchor="middle" font-size="%.2f" %s>%s</text>`+"\n",
		c.X, c.Y, c.FontSize, attrs, EscapeXML(c.Text))
}

func writeEdge(buf *bytes.Buffer, e Edge, stroke, color string) {
	if e.Loop {
		r := max(e.HeadLength*2, 8)
		fmt.Fprintf(buf, `  <path class="edge" data-from="%s" d="M %.2f %.2f a %.2f %.2f 0 1 1 %.2f %.2f" fill="none" stroke="%s" stroke-width="%s"/>`+"\n",
			EscapeXML(e.FromID), e.X1-r, e.Y1, r, r, r, r, color, stroke)
		return
	}
	fmt.Fprintf(buf, `  <line class="edge" data-from="%s" data-to="%s" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%s"/>`+"\n",
		EscapeXML(e.FromID), EscapeXML(e.ToID), e.X1, e.Y1, e.X2, e.Y2, color, stroke)
	h := ArrowHead(e.X1, e.Y1, e.X2, e.Y2, e.HeadLength, e.HeadWidth)
	fmt.Fprintf(buf, `  <polygon class="arrowhead" points="%.2f,%.2f %.2f,%.2f %.2f,%.2f" fill="%s"/>`+"\n",
		h[0][0], h[0][1], h[1][0], h[1][1], h[2][0], h[2][1], color)
}
