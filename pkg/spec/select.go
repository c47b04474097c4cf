package spec

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/itchyny/gojq"

	"github.com/matzehuels/patentfig/pkg/diagram"
)

// Select extracts a GraphSpec from a larger JSON envelope using a jq query.
//
// The query must yield exactly one value. When the query is a path into the
// envelope (.args.doc, .steps[0]) the selected value is cut from the input
// bytes, so object key order survives for the connection decoder. A string
// result is returned as-is, since agents commonly pass the GraphSpec as a
// JSON-encoded string. Queries that build a new object are rejected because
// jq does not keep key order; arrays and scalars are re-encoded as JSON.
func Select(ctx context.Context, data []byte, query string) ([]byte, error) {
	code, err := compileQuery(query)
	if err != nil {
		return nil, err
	}

	var input any
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, syntaxError("", err)
	}

	// Path queries keep the input bytes. Anything path() rejects (fromjson,
	// object construction, literals) falls through to value evaluation.
	if pathCode, err := compileQuery("path(" + query + ")"); err == nil {
		p, n, err := first(ctx, pathCode, input)
		if err == nil {
			if n != 1 {
				return nil, countError(query, n)
			}
			if steps, ok := p.([]any); ok {
				if raw, ok := extract(data, steps); ok {
					return unquote(raw)
				}
			}
		}
	}

	v, n, err := first(ctx, code, input)
	if err != nil {
		return nil, &diagram.MalformedSpecError{Msg: fmt.Sprintf("select %q", query), Err: err}
	}
	if n != 1 {
		return nil, countError(query, n)
	}

	switch v := v.(type) {
	case string:
		return []byte(v), nil
	case map[string]any:
		return nil, &diagram.MalformedSpecError{
			Msg: fmt.Sprintf("select %q builds a new object, which loses key order; select a path into the input or a JSON string", query),
		}
	}
	out, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode selection: %w", err)
	}
	return out, nil
}

func compileQuery(query string) (*gojq.Code, error) {
	q, err := gojq.Parse(query)
	if err != nil {
		return nil, &diagram.MalformedSpecError{Msg: fmt.Sprintf("invalid select query %q", query), Err: err}
	}
	code, err := gojq.Compile(q, gojq.WithEnvironLoader(func() []string { return nil }))
	if err != nil {
		return nil, &diagram.MalformedSpecError{Msg: fmt.Sprintf("invalid select query %q", query), Err: err}
	}
	return code, nil
}

// first runs code and returns its first result and the number of results
// seen, stopping at the second so endless generators terminate.
func first(ctx context.Context, code *gojq.Code, input any) (v any, n int, err error) {
	iter := code.RunWithContext(ctx, input)
	for n < 2 {
		r, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := r.(error); isErr {
			return nil, n, err
		}
		if n == 0 {
			v = r
		}
		n++
	}
	return v, n, nil
}

func countError(query string, n int) error {
	got := "no values"
	if n > 1 {
		got = "more than one value"
	}
	return &diagram.MalformedSpecError{Msg: fmt.Sprintf("select %q yielded %s, want 1", query, got)}
}

// extract follows a jq path through the raw JSON and returns the bytes of the
// value it ends at. A missing key or index yields null, as jq does. ok is
// false for path elements it cannot follow, such as slices.
func extract(data []byte, path []any) (raw json.RawMessage, ok bool) {
	raw = bytes.TrimSpace(data)
	for _, step := range path {
		if f, isFloat := step.(float64); isFloat && f == float64(int(f)) {
			step = int(f)
		}
		if isNull(raw) {
			return json.RawMessage("null"), true
		}
		switch k := step.(type) {
		case string:
			var obj map[string]json.RawMessage
			if json.Unmarshal(raw, &obj) != nil {
				return nil, false
			}
			v, found := obj[k]
			if !found {
				return json.RawMessage("null"), true
			}
			raw = v
		case int:
			var arr []json.RawMessage
			if json.Unmarshal(raw, &arr) != nil {
				return nil, false
			}
			if k < 0 {
				k += len(arr)
			}
			if k < 0 || k >= len(arr) {
				return json.RawMessage("null"), true
			}
			raw = arr[k]
		default:
			return nil, false
		}
	}
	return raw, true
}
