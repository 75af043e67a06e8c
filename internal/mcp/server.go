// Package mcp exposes diagram generation, mindmap repair and complexity
// analysis as Model Context Protocol tools over stdio.
package mcp

import (
	"sync"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/neuromind/internal/mermaid"
	"github.com/ziadkadry99/neuromind/internal/pipeline"
	"github.com/ziadkadry99/neuromind/internal/session"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the mapper as tools.
type Server struct {
	pipeline *pipeline.Pipeline
	repair   mermaid.RepairPolicy
	layout   mermaid.HeightPolicy
	mcp      *server.MCPServer

	// One session serves every tool call so repeated requests for the same
	// URL reuse the cached text and summary.
	mu    sync.Mutex
	state *session.State
}

// NewServer creates a new MCP server. p may be nil, in which case
// generate_diagram reports that generation is unavailable.
func NewServer(p *pipeline.Pipeline, repair mermaid.RepairPolicy) *Server {
	s := &Server{
		pipeline: p,
		repair:   repair,
		layout:   mermaid.DefaultHeightPolicy(),
		state:    session.New(),
	}
	if p != nil {
		s.layout = p.Layout()
	}

	s.mcp = server.NewMCPServer(
		"neuromind",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(generateDiagramTool, s.handleGenerateDiagram)
	s.mcp.AddTool(repairMindmapTool, s.handleRepairMindmap)
	s.mcp.AddTool(analyzeDiagramTool, s.handleAnalyzeDiagram)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
