package spec

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/matzehuels/patentfig/pkg/diagram"
)

const (
	connectionsSchemaURL = "https://patentfig.dev/schemas/connections.json"
	flowSchemaURL        = "https://patentfig.dev/schemas/flow.json"
)

const connectionsSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": {
    "type": ["array", "null"],
    "items": {"type": "string", "minLength": 1}
  }
}`

const flowSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["start", "end"],
    "additionalProperties": false,
    "properties": {
      "start": {"type": "string", "minLength": 1},
      "end": {"type": "string", "minLength": 1}
    }
  }
}`

var (
	schemasOnce sync.Once
	schemas     map[string]*jsonschema.Schema
	schemasErr  error
)

func compileSchemas() {
	c := jsonschema.NewCompiler()
	c.AssertFormat()

	sources := map[string]string{
		connectionsSchemaURL: connectionsSchemaJSON,
		flowSchemaURL:        flowSchemaJSON,
	}
	schemas = make(map[string]*jsonschema.Schema, len(sources))
	for url, src := range sources {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(src))
		if err != nil {
			schemasErr = fmt.Errorf("unmarshal schema %s: %w", url, err)
			return
		}
		if err := c.AddResource(url, doc); err != nil {
			schemasErr = fmt.Errorf("add schema resource %s: %w", url, err)
			return
		}
	}
	for url := range sources {
		s, err := c.Compile(url)
		if err != nil {
			schemasErr = fmt.Errorf("compile schema %s: %w", url, err)
			return
		}
		schemas[url] = s
	}
}

// validateSchema checks data against one of the embedded schemas and converts
// the first violation into a MalformedSpecError.
func validateSchema(url string, data []byte) error {
	schemasOnce.Do(compileSchemas)
	if schemasErr != nil {
		return schemasErr
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return syntaxError("", err)
	}

	if err := schemas[url].Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			leaf := firstLeaf(verr)
			var field string
			if len(leaf.InstanceLocation) > 0 {
				field = "/" + strings.Join(leaf.InstanceLocation, "/")
			}
			return &diagram.MalformedSpecError{Field: field, Msg: "schema violation", Err: leaf}
		}
		return &diagram.MalformedSpecError{Msg: "schema violation", Err: err}
	}
	return nil
}

func firstLeaf(verr *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(verr.Causes) > 0 {
		verr = verr.Causes[0]
	}
	return verr
}
