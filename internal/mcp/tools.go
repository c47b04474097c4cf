package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	perrors "github.com/matzehuels/patentfig/pkg/errors"
	"github.com/matzehuels/patentfig/pkg/observability"
	"github.com/matzehuels/patentfig/pkg/pipeline"
)

const (
	toolBlockDiagram = "generate_block_diagram"
	toolFlowChart    = "generate_flow_chart"
)

// blockArgs are the positional block name arguments, in slot order.
var blockArgs = [...]string{"block_one", "block_two", "block_three", "block_four"}

// --- Tool definitions ---

func blockDiagramTool() mcp.Tool {
	return mcp.NewTool(toolBlockDiagram,
		mcp.WithDescription("Draw a patent-style block diagram of four labelled blocks in a 2x2 grid with arrows between them. "+
			"Returns the figure as SVG text unless another format is requested."),
		mcp.WithString("block_one", mcp.Required(), mcp.Description("Top-left block, e.g. \"Sensor (100)\"")),
		mcp.WithString("block_two", mcp.Required(), mcp.Description("Bottom-left block")),
		mcp.WithString("block_three", mcp.Required(), mcp.Description("Top-right block")),
		mcp.WithString("block_four", mcp.Required(), mcp.Description("Bottom-right block")),
		mcp.WithString("connections", mcp.Required(),
			mcp.Description(`JSON object mapping each source block name to a list of target block names, e.g. {"Sensor (100)": ["Controller (200)"]}. Every name must be one of the four blocks.`)),
		mcp.WithString("style",
			mcp.Enum(pipeline.StyleSimple, pipeline.StylePatent),
			mcp.Description("Visual style: simple (grey boxes) or patent (black line art)")),
		mcp.WithString("format",
			mcp.Enum(pipeline.FormatSVG, pipeline.FormatJSON),
			mcp.Description("Output format: svg (default) or json (the laid-out scene)")),
	)
}

func flowChartTool() mcp.Tool {
	return mcp.NewTool(toolFlowChart,
		mcp.WithDescription("Draw a patent-style flow chart. Each step is an arrow from its start box to its end box; "+
			"boxes with the same label are drawn once. Returns the figure as SVG text unless another format is requested."),
		mcp.WithString("flow", mcp.Required(),
			mcp.Description(`JSON array of steps, e.g. [{"start": "Receive request (100)", "end": "Validate (200)"}]`)),
		mcp.WithString("style",
			mcp.Enum(pipeline.StyleSimple, pipeline.StylePatent),
			mcp.Description("Visual style: simple (grey boxes) or patent (black line art)")),
		mcp.WithString("format",
			mcp.Enum(pipeline.FormatSVG, pipeline.FormatJSON, pipeline.FormatDOT, pipeline.FormatMermaid),
			mcp.Description("Output format: svg (default), json, dot or mermaid")),
	)
}

// --- Handlers ---

// handleBlockDiagram draws a four-block diagram.
func (s *Server) handleBlockDiagram(ctx context.Context, req mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
	start := time.Now()
	defer func() { s.record(ctx, toolBlockDiagram, start, result) }()

	names := make([]string, len(blockArgs))
	for i, arg := range blockArgs {
		name, err := req.RequireString(arg)
		if err != nil {
			return mcp.NewToolResultError(arg + " is required"), nil
		}
		names[i] = name
	}
	connections, err := req.RequireString("connections")
	if err != nil {
		return mcp.NewToolResultError("connections is required"), nil
	}

	return s.generate(ctx, pipeline.Options{
		Kind:   pipeline.KindBlock,
		Blocks: names,
		Input:  []byte(connections),
	}, req)
}

// handleFlowChart draws a flow chart.
func (s *Server) handleFlowChart(ctx context.Context, req mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
	start := time.Now()
	defer func() { s.record(ctx, toolFlowChart, start, result) }()

	flow, err := req.RequireString("flow")
	if err != nil {
		return mcp.NewToolResultError("flow is required"), nil
	}

	return s.generate(ctx, pipeline.Options{
		Kind:  pipeline.KindFlow,
		Input: []byte(flow),
	}, req)
}

// generate runs the pipeline for one output format and returns it as text.
func (s *Server) generate(ctx context.Context, opts pipeline.Options, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format := req.GetString("format", pipeline.FormatSVG)
	opts.Formats = []string{format}
	opts.Style = req.GetString("style", s.style)
	opts.Logger = s.logger

	res, err := s.runner.Execute(ctx, opts)
	if err != nil {
		s.logger.Warn("tool call rejected", "kind", opts.Kind, "error", err)
		return mcp.NewToolResultError(explain(err)), nil
	}
	return mcp.NewToolResultText(string(res.Artifacts[format])), nil
}

// explain turns a pipeline error into a message an agent can act on.
func explain(err error) string {
	if code := perrors.GetCode(err); code != "" {
		return fmt.Sprintf("%s: %v", code, err)
	}
	return fmt.Sprintf("diagram generation failed: %v", err)
}

// record reports a finished tool call to the server hooks.
func (s *Server) record(ctx context.Context, tool string, start time.Time, result *mcp.CallToolResult) {
	var err error
	if result != nil && result.IsError {
		err = fmt.Errorf("%s: %s", tool, textOf(result))
	}
	observability.Server().OnToolCall(ctx, tool, time.Since(start), err)
}

func textOf(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	return mcp.GetTextFromContent(result.Content[0])
}
