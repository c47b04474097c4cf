package spec

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/patentfig/pkg/diagram"
)

func TestParseConnectionsPreservesOrder(t *testing.T) {
	conns, err := ParseConnections([]byte(`{"D": ["A"], "A": ["C", "B"], "B": null, "C": []}`))
	require.NoError(t, err)
	require.Len(t, conns, 4)

	assert.Equal(t, "D", conns[0].Source)
	assert.Equal(t, []string{"A"}, conns[0].Targets)
	assert.Equal(t, "A", conns[1].Source)
	assert.Equal(t, []string{"C", "B"}, conns[1].Targets)
	assert.Empty(t, conns[2].Targets)
	assert.Empty(t, conns[3].Targets)

	assert.Equal(t, []diagram.Connection{{From: "D", To: "A"}, {From: "A", To: "C"}, {From: "A", To: "B"}}, conns.Pairs())
}

func TestParseConnectionsEmptyObject(t *testing.T) {
	conns, err := ParseConnections([]byte(` {} `))
	require.NoError(t, err)
	assert.Empty(t, conns)
}

func TestParseConnectionsAcceptsUnknownNames(t *testing.T) {
	// Referential checks belong to the layout engine.
	conns, err := ParseConnections([]byte(`{"A": ["Z"]}`))
	require.NoError(t, err)
	assert.Equal(t, "Z", conns[0].Targets[0])
}

func TestParseConnectionsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
	}{
		{"empty input", ``, ""},
		{"array root", `[["A","B"]]`, ""},
		{"string root", `"A"`, ""},
		{"null root", `null`, ""},
		{"string value", `{"A": "B"}`, "/A"},
		{"object value", `{"A": {"B": 1}}`, "/A"},
		{"number target", `{"A": ["B", 3]}`, "/A/1"},
		{"duplicate key", `{"A": ["B"], "A": ["C"]}`, "/A"},
		{"escaped key", `{"a/b": 1}`, "/a~1b"},
		{"truncated", `{"A": ["B"`, "/A"},
		{"trailing data", `{"A": []} {}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConnections([]byte(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, diagram.ErrMalformedSpec), "want ErrMalformedSpec, got %v", err)

			var specErr *diagram.MalformedSpecError
			require.True(t, errors.As(err, &specErr))
			assert.Equal(t, tt.field, specErr.Field)
		})
	}
}

func TestParseFlowSteps(t *testing.T) {
	steps, err := ParseFlowSteps([]byte(`[{"start":"A","end":"B"},{"start":"B","end":"C","note":"x"}]`))
	require.NoError(t, err)
	assert.Equal(t, []diagram.FlowStep{{Start: "A", End: "B"}, {Start: "B", End: "C"}}, steps)
}

func TestParseFlowStepsEmpty(t *testing.T) {
	steps, err := ParseFlowSteps([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, steps)
}

func TestParseFlowStepsMalformedSpec(t *testing.T) {
	for _, input := range []string{``, `null`, `{"start":"A","end":"B"}`, `"steps"`, `[1]`, `[{"start":"A","end":"B"}, "C"]`, `not json`} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseFlowSteps([]byte(input))
			require.Error(t, err)
			assert.ErrorIs(t, err, diagram.ErrMalformedSpec)
		})
	}
}

func TestParseFlowStepsMalformedStep(t *testing.T) {
	tests := []struct {
		name  string
		input string
		index int
		field string
	}{
		{"missing end", `[{"start":"A"}]`, 0, "end"},
		{"missing start", `[{"start":"A","end":"B"},{"end":"C"}]`, 1, "start"},
		{"null start", `[{"start":null,"end":"B"}]`, 0, "start"},
		{"numeric end", `[{"start":"A","end":2}]`, 0, "end"},
		{"empty start", `[{"start":"","end":"B"}]`, 0, "start"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps, err := ParseFlowSteps([]byte(tt.input))
			require.Error(t, err)
			assert.Nil(t, steps)

			var stepErr *diagram.MalformedStepError
			require.True(t, errors.As(err, &stepErr), "want MalformedStepError, got %v", err)
			assert.Equal(t, tt.index, stepErr.Index)
			assert.Equal(t, tt.field, stepErr.Field)
		})
	}
}

func TestStrictMode(t *testing.T) {
	_, err := ParseFlowSteps([]byte(`[{"start":"A","end":"B","note":"x"}]`), WithStrict())
	require.Error(t, err)
	var specErr *diagram.MalformedSpecError
	require.True(t, errors.As(err, &specErr))
	assert.Equal(t, "/0", specErr.Field)

	_, err = ParseConnections([]byte(`{"A": [""]}`), WithStrict())
	assert.ErrorIs(t, err, diagram.ErrMalformedSpec)

	conns, err := ParseConnections([]byte(`{"A": ["B"], "B": null}`), WithStrict())
	require.NoError(t, err)
	assert.Len(t, conns, 2)

	steps, err := ParseFlowSteps([]byte(`[{"start":"A","end":"B"}]`), WithStrict())
	require.NoError(t, err)
	assert.Len(t, steps, 1)
}

func TestParseBlockNames(t *testing.T) {
	names, err := ParseBlockNames([]byte(`["A","B","C","D"]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C", "D"}, names)

	_, err = ParseBlockNames([]byte(`["A", null]`))
	assert.ErrorIs(t, err, diagram.ErrMalformedSpec)

	_, err = ParseBlockNames([]byte(`{"A":1}`))
	assert.ErrorIs(t, err, diagram.ErrMalformedSpec)
}

func TestParseBlockDocument(t *testing.T) {
	doc, err := ParseBlockDocument([]byte(`{"blocks":["A","B","C","D"],"connections":{"A":["B","C"],"D":["A"]}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C", "D"}, doc.Blocks)
	assert.Equal(t, 3, doc.Connections.Len())

	// Connections passed as a serialized string, as agents emit them.
	doc, err = ParseBlockDocument([]byte(`{"blocks":["A","B","C","D"],"connections":"{\"B\":[\"A\"]}"}`))
	require.NoError(t, err)
	assert.Equal(t, []diagram.Connection{{From: "B", To: "A"}}, doc.Connections.Pairs())

	doc, err = ParseBlockDocument([]byte(`{"blocks":["A","B","C","D"]}`))
	require.NoError(t, err)
	assert.Empty(t, doc.Connections)

	_, err = ParseBlockDocument([]byte(`{"connections":{}}`))
	var specErr *diagram.MalformedSpecError
	require.True(t, errors.As(err, &specErr))
	assert.Equal(t, "/blocks", specErr.Field)

	_, err = ParseBlockDocument([]byte(`{"blocks":["A"],"connections":{"A":"B"}}`))
	require.True(t, errors.As(err, &specErr))
	assert.Equal(t, "/connections/A", specErr.Field)
}

func TestParseFlowDocument(t *testing.T) {
	bare, err := ParseFlowDocument([]byte(`[{"start":"A","end":"B"}]`))
	require.NoError(t, err)

	wrapped, err := ParseFlowDocument([]byte(`{"steps":[{"start":"A","end":"B"}]}`))
	require.NoError(t, err)

	encoded, err := ParseFlowDocument([]byte(`"[{\"start\":\"A\",\"end\":\"B\"}]"`))
	require.NoError(t, err)

	assert.Equal(t, bare, wrapped)
	assert.Equal(t, bare, encoded)

	_, err = ParseFlowDocument([]byte(`{"flow":[]}`))
	assert.ErrorIs(t, err, diagram.ErrMalformedSpec)
}

func TestReadFiles(t *testing.T) {
	dir := t.TempDir()
	blockPath := filepath.Join(dir, "block.json")
	flowPath := filepath.Join(dir, "flow.json")
	require.NoError(t, os.WriteFile(blockPath, []byte(`{"blocks":["A","B","C","D"],"connections":{"A":["B"]}}`), 0644))
	require.NoError(t, os.WriteFile(flowPath, []byte(`{"steps":[{"start":"A","end":"B"}]}`), 0644))

	doc, err := ReadBlockFile(blockPath)
	require.NoError(t, err)
	assert.Len(t, doc.Blocks, 4)

	steps, err := ReadFlowFile(flowPath)
	require.NoError(t, err)
	assert.Len(t, steps, 1)

	_, err = ReadFlowFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestSelect(t *testing.T) {
	ctx := context.Background()
	envelope := []byte(`{"tool":"generate_flow_chart","args":{"flow":"[{\"start\":\"A\",\"end\":\"B\"}]"},"other":{"x":[1,2]}}`)

	out, err := Select(ctx, envelope, ".args.flow")
	require.NoError(t, err)
	steps, err := ParseFlowSteps(out)
	require.NoError(t, err)
	assert.Equal(t, []diagram.FlowStep{{Start: "A", End: "B"}}, steps)

	out, err = Select(ctx, envelope, ".other")
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":[1,2]}`, string(out))

	_, err = Select(ctx, envelope, ".other.x[]")
	assert.ErrorIs(t, err, diagram.ErrMalformedSpec)

	_, err = Select(ctx, envelope, ".[")
	assert.ErrorIs(t, err, diagram.ErrMalformedSpec)

	_, err = Select(ctx, []byte(`nope`), ".")
	assert.ErrorIs(t, err, diagram.ErrMalformedSpec)
}

func TestSelectKeepsConnectionOrder(t *testing.T) {
	ctx := context.Background()
	envelope := []byte(`{"doc": {"blocks": ["Z", "A", "B", "C"], "connections": {"Z": ["A"], "A": ["B"]}}}`)

	out, err := Select(ctx, envelope, ".doc")
	require.NoError(t, err)
	doc, err := ParseBlockDocument(out)
	require.NoError(t, err)
	assert.Equal(t, diagram.Connections{
		{Source: "Z", Targets: []string{"A"}},
		{Source: "A", Targets: []string{"B"}},
	}, doc.Connections)

	out, err = Select(ctx, envelope, ".doc.connections")
	require.NoError(t, err)
	conns, err := ParseConnections(out)
	require.NoError(t, err)
	assert.Equal(t, "Z", conns[0].Source)
}

func TestSelectPaths(t *testing.T) {
	ctx := context.Background()
	envelope := []byte(`{"calls": [{"steps": [{"start": "A", "end": "B"}]}, {"steps": []}]}`)

	out, err := Select(ctx, envelope, ".calls[-1].steps")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(out))

	out, err = Select(ctx, envelope, ".missing")
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))

	out, err = Select(ctx, envelope, "[.calls[0].steps[0]]")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"start": "A", "end": "B"}]`, string(out))

	_, err = Select(ctx, envelope, "{connections: .calls[0]}")
	assert.ErrorIs(t, err, diagram.ErrMalformedSpec)
}

func TestSelectStopsEndlessGenerators(t *testing.T) {
	_, err := Select(context.Background(), []byte(`{"a": 1}`), "repeat(.)")
	assert.ErrorIs(t, err, diagram.ErrMalformedSpec)
	assert.Contains(t, err.Error(), "more than one value")
}
