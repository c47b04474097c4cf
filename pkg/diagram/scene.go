package diagram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Kind distinguishes block diagram scenes from flow chart scenes.
type Kind string

const (
	KindBlock Kind = "block"
	KindFlow  Kind = "flow"
)

// Default captions attached by the layout engines.
const (
	BlockCaption = "Figure A: Block Diagram"
	FlowCaption  = "Figure C: Flow chart"
)

// Point is a position in scene units. Y grows downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is a labelled rectangle placed in a slot.
type Rect struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Lines []string `json:"lines"`
	Slot  Slot     `json:"slot"`
	X     float64  `json:"x"`
	Y     float64  `json:"y"`
	W     float64  `json:"width"`
	H     float64  `json:"height"`
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point { return Point{X: r.X + r.W/2, Y: r.Y + r.H/2} }

// ArrowStyle describes how a connector's arrowhead is drawn.
type ArrowStyle struct {
	HeadWidth  float64 `json:"head_width"`
	HeadLength float64 `json:"head_length"`
	Color      string  `json:"color"`
}

// DefaultArrow is the arrowhead used when no style is configured.
var DefaultArrow = ArrowStyle{HeadWidth: 0.01, HeadLength: 0.01, Color: "lightgrey"}

// Connector is a directed link. Start and End are nil for flow scenes,
// whose geometry is decided by the renderer.
type Connector struct {
	From  string      `json:"from"`
	To    string      `json:"to"`
	Start *Point      `json:"start,omitempty"`
	End   *Point      `json:"end,omitempty"`
	Arrow *ArrowStyle `json:"arrow,omitempty"`
}

// Node is a distinct flow chart label. Position is filled only when a
// positioner has been run over the scene.
type Node struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Position *Point `json:"position,omitempty"`
}

// Caption is the figure title. X and Y are zero for flow scenes, where the
// renderer places the caption as the graph label.
type Caption struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Scene is the render-ready output of a layout engine.
type Scene struct {
	Kind       Kind        `json:"kind"`
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
	Rects      []Rect      `json:"rects,omitempty"`
	Connectors []Connector `json:"connectors"`
	Nodes      []Node      `json:"nodes,omitempty"`
	Caption    Caption     `json:"caption"`
}

// Rect returns the rectangle with the given id.
func (s Scene) Rect(id string) (Rect, bool) {
	for _, r := range s.Rects {
		if r.ID == id {
			return r, true
		}
	}
	return Rect{}, false
}

// Edges returns the connectors as plain (from, to) pairs.
func (s Scene) Edges() []Connection {
	out := make([]Connection, len(s.Connectors))
	for i, c := range s.Connectors {
		out[i] = Connection{From: c.From, To: c.To}
	}
	return out
}

// MarshalScene serializes a scene as indented JSON.
func MarshalScene(s Scene) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// UnmarshalScene parses a scene produced by [MarshalScene].
func UnmarshalScene(data []byte) (Scene, error) {
	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return Scene{}, fmt.Errorf("decode scene: %w", err)
	}
	if s.Kind != KindBlock && s.Kind != KindFlow {
		return Scene{}, fmt.Errorf("decode scene: unknown kind %q", s.Kind)
	}
	return s, nil
}

// ReadScene decodes a scene from r.
func ReadScene(r io.Reader) (Scene, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return Scene{}, err
	}
	return UnmarshalScene(buf.Bytes())
}

// ReadSceneFile decodes a scene from a JSON file.
func ReadSceneFile(path string) (Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return Scene{}, err
	}
	defer f.Close()
	return ReadScene(f)
}
