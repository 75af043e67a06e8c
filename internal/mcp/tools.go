package mcp

import "github.com/mark3labs/mcp-go/mcp"

// generateDiagramTool defines the generate_diagram MCP tool.
var generateDiagramTool = mcp.NewTool("generate_diagram",
	mcp.WithDescription("Fetch a web page, summarize it and return a Mermaid diagram of its content with a complexity report."),
	mcp.WithString("url",
		mcp.Required(),
		mcp.Description("Page to map; https:// is added when no scheme is given"),
	),
	mcp.WithString("type",
		mcp.Description("Diagram type (default mindmap)"),
		mcp.Enum("mindmap", "flowchart", "timeline", "network"),
	),
	mcp.WithBoolean("include_summary",
		mcp.Description("Also return the plain-language summary of the page"),
	),
)

// repairMindmapTool defines the repair_mindmap MCP tool.
var repairMindmapTool = mcp.NewTool("repair_mindmap",
	mcp.WithDescription("Normalize model-written Mermaid mindmap text into a single-root, well-indented mindmap."),
	mcp.WithString("diagram",
		mcp.Required(),
		mcp.Description("Raw mindmap text, optionally wrapped in markdown fences"),
	),
)

// analyzeDiagramTool defines the analyze_diagram MCP tool.
var analyzeDiagramTool = mcp.NewTool("analyze_diagram",
	mcp.WithDescription("Estimate the visual complexity of Mermaid diagram text and recommend a display height."),
	mcp.WithString("diagram",
		mcp.Required(),
		mcp.Description("Mermaid diagram text"),
	),
)
