package blocks

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/patentfig/pkg/diagram"
	"github.com/matzehuels/patentfig/pkg/render/blocks/styles"
)

const (
	// DefaultUnit is the number of pixels per scene unit.
	DefaultUnit = 160.0

	marginUnits     = 0.5
	captionFontSize = 20.0
	minHeadPx       = 10.0
)

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style styles.Style
	unit  float64
}

// WithStyle sets the drawing style (default [styles.Simple]).
func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }

// WithUnit sets how many pixels one scene unit spans.
func WithUnit(px float64) SVGOption {
	return func(r *svgRenderer) {
		if px > 0 {
			r.unit = px
		}
	}
}

// RenderSVG draws a block scene. Every call builds its own document, so
// concurrent calls never share drawing state.
func RenderSVG(s diagram.Scene, opts ...SVGOption) ([]byte, error) {
	if s.Kind != diagram.KindBlock {
		return nil, fmt.Errorf("render blocks: scene kind is %q", s.Kind)
	}
	r := newSVGRenderer(opts...)

	width := (s.Width + 2*marginUnits) * r.unit
	height := (s.Height + 2*marginUnits) * r.unit

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)

	r.style.RenderDefs(&buf)

	blocks := r.buildBlocks(s)
	for _, b := range blocks {
		r.style.RenderBlock(&buf, b)
	}
	for _, e := range r.buildEdges(s) {
		r.style.RenderEdge(&buf, e)
	}
	for _, b := range blocks {
		r.style.RenderText(&buf, b)
	}
	r.style.RenderCaption(&buf, styles.Caption{
		Text:     s.Caption.Text,
		X:        r.px(s.Caption.X),
		Y:        r.px(s.Caption.Y),
		FontSize: captionFontSize,
	})

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{style: styles.Simple{}, unit: DefaultUnit}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// px converts a scene coordinate to pixels, including the margin.
func (r svgRenderer) px(v float64) float64 { return (v + marginUnits) * r.unit }

func (r svgRenderer) buildBlocks(s diagram.Scene) []styles.Block {
	out := make([]styles.Block, len(s.Rects))
	for i, rect := range s.Rects {
		c := rect.Center()
		out[i] = styles.Block{
			ID:    fmt.Sprintf("block-%d", rect.Slot),
			Name:  rect.ID,
			Lines: rect.Lines,
			X:     r.px(rect.X),
			Y:     r.px(rect.Y),
			W:     rect.W * r.unit,
			H:     rect.H * r.unit,
			CX:    r.px(c.X),
			CY:    r.px(c.Y),
		}
		if len(out[i].Lines) == 0 {
			out[i].Lines = []string{rect.Label}
		}
	}
	return out
}

func (r svgRenderer) buildEdges(s diagram.Scene) []styles.Edge {
	out := make([]styles.Edge, 0, len(s.Connectors))
	for _, c := range s.Connectors {
		if c.Start == nil || c.End == nil {
			continue
		}
		arrow := diagram.DefaultArrow
		if c.Arrow != nil {
			arrow = *c.Arrow
		}
		e := styles.Edge{
			FromID:     c.From,
			ToID:       c.To,
			X1:         r.px(c.Start.X),
			Y1:         r.px(c.Start.Y),
			X2:         r.px(c.End.X),
			Y2:         r.px(c.End.Y),
			HeadWidth:  max(arrow.HeadWidth*r.unit, minHeadPx),
			HeadLength: max(arrow.HeadLength*r.unit, minHeadPx),
			Color:      arrow.Color,
		}
		if *c.Start == *c.End {
			if rect, ok := s.Rect(c.From); ok {
				e.Loop = true
				e.X1, e.Y1 = r.px(rect.X+rect.W), r.px(rect.Y)
				e.X2, e.Y2 = e.X1, e.Y1
			}
		}
		out = append(out, e)
	}
	return out
}
