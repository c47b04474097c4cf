package spec

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/matzehuels/patentfig/pkg/diagram"
)

// BlockDocument is the file form of a block diagram:
//
//	{"blocks": ["A", "B", "C", "D"], "connections": {"A": ["B"]}}
//
// Connections may also be a JSON-encoded string holding the mapping.
type BlockDocument struct {
	Blocks      []string
	Connections diagram.Connections
}

// ParseBlockDocument decodes a [BlockDocument].
func ParseBlockDocument(data []byte, opts ...Option) (BlockDocument, error) {
	var raw struct {
		Blocks      json.RawMessage `json:"blocks"`
		Connections json.RawMessage `json:"connections"`
	}
	if err := decodeObject(data, &raw); err != nil {
		return BlockDocument{}, err
	}
	if raw.Blocks == nil {
		return BlockDocument{}, &diagram.MalformedSpecError{Field: "/blocks", Msg: "is missing"}
	}

	names, err := ParseBlockNames(raw.Blocks)
	if err != nil {
		return BlockDocument{}, prefixField("/blocks", err)
	}

	doc := BlockDocument{Blocks: names, Connections: diagram.Connections{}}
	if raw.Connections == nil || isNull(raw.Connections) {
		return doc, nil
	}

	connData, err := unquote(raw.Connections)
	if err != nil {
		return BlockDocument{}, prefixField("/connections", err)
	}
	conns, err := ParseConnections(connData, opts...)
	if err != nil {
		return BlockDocument{}, prefixField("/connections", err)
	}
	doc.Connections = conns
	return doc, nil
}

// ParseFlowDocument decodes flow steps from either a bare step array or an
// object of the form {"steps": [...]}. Steps may be a JSON-encoded string.
func ParseFlowDocument(data []byte, opts ...Option) ([]diagram.FlowStep, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var raw struct {
			Steps json.RawMessage `json:"steps"`
		}
		if err := decodeObject(trimmed, &raw); err != nil {
			return nil, err
		}
		if raw.Steps == nil {
			return nil, &diagram.MalformedSpecError{Field: "/steps", Msg: "is missing"}
		}
		stepData, err := unquote(raw.Steps)
		if err != nil {
			return nil, prefixField("/steps", err)
		}
		steps, err := ParseFlowSteps(stepData, opts...)
		if err != nil {
			return nil, prefixField("/steps", err)
		}
		return steps, nil
	}

	stepData, err := unquote(trimmed)
	if err != nil {
		return nil, err
	}
	return ParseFlowSteps(stepData, opts...)
}

// ReadBlockFile reads and decodes a block document from disk.
func ReadBlockFile(path string, opts ...Option) (BlockDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return BlockDocument{}, err
	}
	return ParseBlockDocument(data, opts...)
}

// ReadFlowFile reads and decodes flow steps from disk.
func ReadFlowFile(path string, opts ...Option) ([]diagram.FlowStep, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseFlowDocument(data, opts...)
}

func decodeObject(data []byte, v any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return &diagram.MalformedSpecError{Msg: "expected a JSON object"}
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return syntaxError("", err)
	}
	return nil
}

// unquote returns the contents of a JSON string value, or raw unchanged when
// it is not a string.
func unquote(raw []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return trimmed, nil
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return nil, syntaxError("", err)
	}
	return []byte(s), nil
}

// prefixField re-roots a MalformedSpecError field under prefix.
func prefixField(prefix string, err error) error {
	if e, ok := err.(*diagram.MalformedSpecError); ok {
		return &diagram.MalformedSpecError{Field: prefix + e.Field, Msg: e.Msg, Err: e.Err}
	}
	return err
}
