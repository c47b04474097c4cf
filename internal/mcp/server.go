// Package mcp exposes diagram generation as Model Context Protocol tools so an
// LLM agent drafting a patent application can request figures directly.
//
// Two tools are registered:
//
//   - generate_block_diagram: four block names plus a JSON connection mapping
//   - generate_flow_chart: a JSON array of {"start", "end"} steps
//
// Both return the rendered figure as text (SVG by default). Invalid input is
// reported as a tool error result carrying the explanation, never as a
// partially drawn figure.
package mcp

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/server"

	"github.com/matzehuels/patentfig/pkg/buildinfo"
	"github.com/matzehuels/patentfig/pkg/pipeline"
)

const serverName = "patentfig"

const instructions = "patentfig draws patent figures. Use generate_block_diagram for a four-block " +
	"system diagram (Figure A) and generate_flow_chart for a method flow chart (Figure C). " +
	"Include reference numerals in labels, for example \"Controller (200)\"."

// ServerDeps holds the dependencies for creating a Server.
type ServerDeps struct {
	Runner *pipeline.Runner
	Logger *log.Logger
	// Style is used when a call does not name one.
	Style string
}

// Server wraps an MCP server with the diagram tool handlers.
type Server struct {
	runner    *pipeline.Runner
	logger    *log.Logger
	style     string
	mcpServer *server.MCPServer
}

// NewServer creates a Server with both tools registered.
func NewServer(deps ServerDeps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	runner := deps.Runner
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	style := deps.Style
	if style == "" {
		style = pipeline.DefaultStyle
	}

	s := &Server{
		runner: runner,
		logger: logger,
		style:  style,
	}

	mcpSrv := server.NewMCPServer(
		serverName,
		buildinfo.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)
	mcpSrv.AddTools(s.tools()...)
	s.mcpServer = mcpSrv
	return s
}

// Serve starts the stdio transport and blocks until ctx is cancelled or stdin closes.
func (s *Server) Serve(ctx context.Context) error {
	stdio := server.NewStdioServer(s.mcpServer)
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

// MCPServer returns the underlying MCPServer for testing or custom transports.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) tools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: blockDiagramTool(), Handler: s.handleBlockDiagram},
		{Tool: flowChartTool(), Handler: s.handleFlowChart},
	}
}
