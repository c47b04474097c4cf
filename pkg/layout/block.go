package layout

import (
	"fmt"
	"math"

	"github.com/matzehuels/patentfig/pkg/diagram"
	perrors "github.com/matzehuels/patentfig/pkg/errors"
)

// BlockOption configures [BuildBlocks].
type BlockOption func(*blockConfig)

type blockConfig struct {
	slots     int
	wrapWidth int
	caption   string
	arrow     diagram.ArrowStyle
}

// WithSlotCount sets how many blocks the grid holds (default 4).
func WithSlotCount(n int) BlockOption { return func(c *blockConfig) { c.slots = n } }

// WithWrapWidth sets the label wrap width in characters (default [DefaultWrapWidth]).
func WithWrapWidth(n int) BlockOption { return func(c *blockConfig) { c.wrapWidth = n } }

// WithBlockCaption replaces the default "Figure A" caption.
func WithBlockCaption(text string) BlockOption { return func(c *blockConfig) { c.caption = text } }

// WithArrow sets the arrowhead style used for every connector.
func WithArrow(a diagram.ArrowStyle) BlockOption { return func(c *blockConfig) { c.arrow = a } }

func newBlockConfig(opts []BlockOption) blockConfig {
	c := blockConfig{
		slots:     diagram.SlotCount,
		wrapWidth: DefaultWrapWidth,
		caption:   diagram.BlockCaption,
		arrow:     diagram.DefaultArrow,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// BuildBlocks lays out a block diagram.
//
// names are assigned to slots in order. The call fails with a
// [diagram.SlotCountError] unless len(names) equals the slot count, with a
// [diagram.MalformedSpecError] if a name is empty, too long or repeated, and
// with a [diagram.UnknownBlockReferenceError] if conns mentions a name that is
// not in names. No scene is returned on failure.
func BuildBlocks(names []string, conns diagram.Connections, opts ...BlockOption) (diagram.Scene, error) {
	cfg := newBlockConfig(opts)

	if len(names) != cfg.slots {
		return diagram.Scene{}, &diagram.SlotCountError{Got: len(names), Want: cfg.slots}
	}

	index := make(map[string]int, len(names))
	for i, name := range names {
		if err := perrors.ValidateBlockName(name); err != nil {
			return diagram.Scene{}, &diagram.MalformedSpecError{
				Field: fmt.Sprintf("/blocks/%d", i),
				Msg:   perrors.UserMessage(err),
			}
		}
		if _, dup := index[name]; dup {
			return diagram.Scene{}, &diagram.MalformedSpecError{
				Field: fmt.Sprintf("/blocks/%d", i),
				Msg:   fmt.Sprintf("duplicate block name %q", name),
			}
		}
		index[name] = i
	}

	for _, adj := range conns {
		if _, ok := index[adj.Source]; !ok {
			return diagram.Scene{}, &diagram.UnknownBlockReferenceError{Name: adj.Source, Source: true}
		}
		for _, t := range adj.Targets {
			if _, ok := index[t]; !ok {
				return diagram.Scene{}, &diagram.UnknownBlockReferenceError{Name: t}
			}
		}
	}

	origins := GridSlots(len(names))
	rects := make([]diagram.Rect, len(names))
	for i, name := range names {
		rects[i] = diagram.Rect{
			ID:    name,
			Label: name,
			Lines: Wrap(name, cfg.wrapWidth),
			Slot:  diagram.Slot(i),
			X:     origins[i].X,
			Y:     origins[i].Y,
			W:     BlockSize,
			H:     BlockSize,
		}
	}

	pairs := conns.Pairs()
	connectors := make([]diagram.Connector, len(pairs))
	for i, p := range pairs {
		src, dst := rects[index[p.From]], rects[index[p.To]]
		start, end := connect(src, dst)
		arrow := cfg.arrow
		connectors[i] = diagram.Connector{From: p.From, To: p.To, Start: &start, End: &end, Arrow: &arrow}
	}

	w, h := gridExtent(len(names))
	return diagram.Scene{
		Kind:       diagram.KindBlock,
		Width:      w,
		Height:     h + captionGap + BlockSize/2,
		Rects:      rects,
		Connectors: connectors,
		Caption:    diagram.Caption{Text: cfg.caption, X: w / 2, Y: h + captionGap},
	}, nil
}

// connect returns the endpoints of a connector from src to dst, each clipped
// to its rectangle's boundary along the center-to-center line.
func connect(src, dst diagram.Rect) (start, end diagram.Point) {
	cs, cd := src.Center(), dst.Center()
	dx, dy := cd.X-cs.X, cd.Y-cs.Y
	if dx == 0 && dy == 0 {
		return cs, cd
	}

	ts := clipFactor(dx, dy, src.W/2, src.H/2)
	td := clipFactor(dx, dy, dst.W/2, dst.H/2)
	start = diagram.Point{X: cs.X + ts*dx, Y: cs.Y + ts*dy}
	end = diagram.Point{X: cd.X - td*dx, Y: cd.Y - td*dy}
	return start, end
}

// clipFactor returns t such that (t·dx, t·dy) reaches the edge of a box with
// half extents hw, hh centered at the origin.
func clipFactor(dx, dy, hw, hh float64) float64 {
	t := math.Inf(1)
	if dx != 0 {
		t = min(t, hw/math.Abs(dx))
	}
	if dy != 0 {
		t = min(t, hh/math.Abs(dy))
	}
	// Overlapping boxes: keep the connector pointing forward.
	return min(t, 0.5)
}
