package diagram

import "fmt"

// Slot is one of the four fixed cells of a block diagram.
// Slots are declared in the order block names are assigned to them.
type Slot int

const (
	SlotTopLeft Slot = iota
	SlotBottomLeft
	SlotTopRight
	SlotBottomRight
)

// SlotCount is the number of slots in the default block diagram.
const SlotCount = 4

var slotNames = [...]string{"top-left", "bottom-left", "top-right", "bottom-right"}

func (s Slot) String() string {
	if s >= 0 && int(s) < len(slotNames) {
		return slotNames[s]
	}
	return fmt.Sprintf("slot-%d", int(s))
}

// Block is a named box in a block diagram.
type Block struct {
	Name string `json:"name"`
	Slot Slot   `json:"slot"`
}

// Connection is a single directed link between two blocks.
type Connection struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Adjacency lists the destinations of one source block in declared order.
type Adjacency struct {
	Source  string   `json:"source"`
	Targets []string `json:"targets"`
}

// Connections is an ordered source → destinations mapping. Both the source
// order and the target order are exactly as declared in the input.
type Connections []Adjacency

// Pairs flattens the mapping into (from, to) pairs in declaration order.
func (c Connections) Pairs() []Connection {
	var out []Connection
	for _, adj := range c {
		for _, t := range adj.Targets {
			out = append(out, Connection{From: adj.Source, To: t})
		}
	}
	return out
}

// Len returns the total number of (from, to) pairs.
func (c Connections) Len() int {
	n := 0
	for _, adj := range c {
		n += len(adj.Targets)
	}
	return n
}

// FlowStep is one directed edge of a flow chart. Steps are not unique:
// the same start may appear in several steps.
type FlowStep struct {
	Start string `json:"start"`
	End   string `json:"end"`
}
