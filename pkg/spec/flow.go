package spec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/patentfig/pkg/diagram"
	perrors "github.com/matzehuels/patentfig/pkg/errors"
)

// stepFields are the keys every flow step must carry, in check order.
var stepFields = [...]string{"start", "end"}

// ParseFlowSteps decodes an ordered list of flow steps.
//
// The input must be a JSON array of objects. Each object needs non-empty
// string values under "start" and "end"; other keys are ignored unless
// [WithStrict] is set. A single bad record rejects the whole input.
// An empty array is valid and yields no steps.
func ParseFlowSteps(data []byte, opts ...Option) ([]diagram.FlowStep, error) {
	cfg := newConfig(opts)
	if cfg.strict {
		if err := validateSchema(flowSchemaURL, data); err != nil {
			return nil, err
		}
	}

	var records []json.RawMessage
	if err := decodeArray(data, &records); err != nil {
		return nil, err
	}

	steps := make([]diagram.FlowStep, 0, len(records))
	for i, rec := range records {
		step, err := decodeStep(i, rec)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func decodeStep(index int, rec json.RawMessage) (diagram.FlowStep, error) {
	trimmed := bytes.TrimSpace(rec)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return diagram.FlowStep{}, &diagram.MalformedSpecError{
			Field: fmt.Sprintf("/%d", index),
			Msg:   "expected a step object",
		}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return diagram.FlowStep{}, syntaxError(fmt.Sprintf("/%d", index), err)
	}

	var values [len(stepFields)]string
	for j, name := range stepFields {
		raw, ok := fields[name]
		if !ok {
			return diagram.FlowStep{}, &diagram.MalformedStepError{Index: index, Field: name, Msg: "is missing"}
		}
		if isNull(raw) || json.Unmarshal(raw, &values[j]) != nil {
			return diagram.FlowStep{}, &diagram.MalformedStepError{Index: index, Field: name, Msg: "must be a string"}
		}
		if err := perrors.ValidateStepLabel(values[j]); err != nil {
			return diagram.FlowStep{}, &diagram.MalformedStepError{Index: index, Field: name, Msg: "must not be empty"}
		}
	}
	return diagram.FlowStep{Start: values[0], End: values[1]}, nil
}

// decodeArray unmarshals a top-level JSON array, rejecting null and non-array values.
func decodeArray(data []byte, v *[]json.RawMessage) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return &diagram.MalformedSpecError{Msg: "empty input"}
	}
	if trimmed[0] != '[' {
		var tok any
		if err := json.Unmarshal(trimmed, &tok); err != nil {
			return syntaxError("", err)
		}
		return &diagram.MalformedSpecError{Msg: fmt.Sprintf("expected a JSON array, got %s", kindOf(tok))}
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return syntaxError("", err)
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func kindOf(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case nil:
		return "null"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	}
	return fmt.Sprintf("%T", v)
}
