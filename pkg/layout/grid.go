package layout

import "github.com/matzehuels/patentfig/pkg/diagram"

const (
	// BlockSize is the width and height of every block, in scene units.
	BlockSize = 1.0

	// SlotSpacing is the distance between neighbouring slot origins.
	SlotSpacing = 2.0

	// GridRows is the number of rows slots are filled into before starting a
	// new column.
	GridRows = 2

	// captionGap is the space between the lowest block and the caption baseline.
	captionGap = 0.5
)

// GridSlots returns the top-left corner of each of n slots, filled column by
// column. For n = 4 the result is (0,0), (0,2), (2,0), (2,2).
func GridSlots(n int) []diagram.Point {
	pts := make([]diagram.Point, n)
	for i := range pts {
		col, row := i/GridRows, i%GridRows
		pts[i] = diagram.Point{X: float64(col) * SlotSpacing, Y: float64(row) * SlotSpacing}
	}
	return pts
}

// gridExtent returns the width and height covered by n slots.
func gridExtent(n int) (w, h float64) {
	if n == 0 {
		return 0, 0
	}
	cols := (n + GridRows - 1) / GridRows
	rows := min(n, GridRows)
	return float64(cols-1)*SlotSpacing + BlockSize, float64(rows-1)*SlotSpacing + BlockSize
}
