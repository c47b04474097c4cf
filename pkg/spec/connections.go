package spec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/matzehuels/patentfig/pkg/diagram"
)

// Option configures parsing.
type Option func(*config)

type config struct {
	strict bool
}

// WithStrict validates input against the embedded JSON Schema before decoding.
func WithStrict() Option { return func(c *config) { c.strict = true } }

func newConfig(opts []Option) config {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// ParseConnections decodes a source → destinations mapping.
//
// The input must be a JSON object whose values are arrays of strings; a null
// value is read as an empty list. Key order and list order are preserved.
// Duplicate keys are rejected rather than silently merged.
func ParseConnections(data []byte, opts ...Option) (diagram.Connections, error) {
	cfg := newConfig(opts)
	if cfg.strict {
		if err := validateSchema(connectionsSchemaURL, data); err != nil {
			return nil, err
		}
	}

	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, syntaxError("", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, &diagram.MalformedSpecError{Msg: fmt.Sprintf("expected a JSON object, got %s", describe(tok))}
	}

	var (
		conns = diagram.Connections{}
		seen  = make(map[string]bool)
	)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, syntaxError("", err)
		}
		source := tok.(string)
		field := pointer(source)
		if seen[source] {
			return nil, &diagram.MalformedSpecError{Field: field, Msg: "duplicate source key"}
		}
		seen[source] = true

		targets, err := decodeTargets(dec, field)
		if err != nil {
			return nil, err
		}
		conns = append(conns, diagram.Adjacency{Source: source, Targets: targets})
	}

	if _, err := dec.Token(); err != nil {
		return nil, syntaxError("", err)
	}
	if err := expectEOF(dec); err != nil {
		return nil, err
	}
	return conns, nil
}

func decodeTargets(dec *json.Decoder, field string) ([]string, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, syntaxError(field, err)
	}
	if tok == nil {
		return []string{}, nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, &diagram.MalformedSpecError{Field: field, Msg: fmt.Sprintf("expected an array of block names, got %s", describe(tok))}
	}

	targets := []string{}
	for i := 0; dec.More(); i++ {
		tok, err := dec.Token()
		if err != nil {
			return nil, syntaxError(field, err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, &diagram.MalformedSpecError{
				Field: fmt.Sprintf("%s/%d", field, i),
				Msg:   fmt.Sprintf("expected a block name, got %s", describe(tok)),
			}
		}
		targets = append(targets, name)
	}
	if _, err := dec.Token(); err != nil {
		return nil, syntaxError(field, err)
	}
	return targets, nil
}

// ParseBlockNames decodes a JSON array of block names.
func ParseBlockNames(data []byte) ([]string, error) {
	var raw []json.RawMessage
	if err := decodeArray(data, &raw); err != nil {
		return nil, err
	}
	names := make([]string, len(raw))
	for i, r := range raw {
		if err := json.Unmarshal(r, &names[i]); err != nil || isNull(r) {
			return nil, &diagram.MalformedSpecError{Field: fmt.Sprintf("/%d", i), Msg: "expected a block name"}
		}
	}
	return names, nil
}

func expectEOF(dec *json.Decoder) error {
	if _, err := dec.Token(); err != io.EOF {
		return &diagram.MalformedSpecError{Msg: "unexpected data after JSON value"}
	}
	return nil
}

func syntaxError(field string, err error) error {
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return &diagram.MalformedSpecError{Field: field, Msg: "invalid JSON", Err: err}
}

// pointer escapes a key as a JSON pointer segment (RFC 6901).
func pointer(key string) string {
	var buf bytes.Buffer
	buf.WriteByte('/')
	for _, r := range key {
		switch r {
		case '~':
			buf.WriteString("~0")
		case '/':
			buf.WriteString("~1")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}

func describe(tok json.Token) string {
	switch v := tok.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64, json.Number:
		return "number"
	case string:
		return fmt.Sprintf("string %q", v)
	case json.Delim:
		if v == '[' {
			return "array"
		}
		return "object"
	}
	return fmt.Sprintf("%T", tok)
}
