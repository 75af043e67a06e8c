package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/neuromind/internal/apperr"
	"github.com/ziadkadry99/neuromind/internal/mermaid"
	"github.com/ziadkadry99/neuromind/internal/pipeline"
)

// handleGenerateDiagram runs the full pipeline for a URL.
func (s *Server) handleGenerateDiagram(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: url"), nil
	}
	if s.pipeline == nil {
		return mcp.NewToolResultError("diagram generation is not configured"), nil
	}

	kind := mermaid.KindMindmap
	if t := request.GetString("type", ""); t != "" {
		if kind, err = mermaid.ParseKind(t); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	s.mu.Lock()
	res, err := s.pipeline.Run(ctx, s.state, pipeline.Request{URL: url, Kind: kind}, nil)
	s.mu.Unlock()
	if err != nil {
		return mcp.NewToolResultError(errorText(err)), nil
	}

	return mcp.NewToolResultText(formatGeneration(res, request.GetBool("include_summary", false))), nil
}

// errorText appends any remediation hints to the error message.
func errorText(err error) string {
	var ae *apperr.Error
	if !errors.As(err, &ae) || len(ae.Hints()) == 0 {
		return err.Error()
	}
	var b strings.Builder
	b.WriteString(err.Error())
	for _, h := range ae.Hints() {
		b.WriteString("\n- ")
		b.WriteString(h)
	}
	return b.String()
}

// handleRepairMindmap applies the repair policy to raw mindmap text.
func (s *Server) handleRepairMindmap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	diagram, err := request.RequireString("diagram")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: diagram"), nil
	}

	rep := s.repair.Repair(diagram)
	result := mcp.NewToolResultText(rep.Code)
	if rep.UsedFallback {
		result.Content = append(result.Content, mcp.NewTextContent(
			"Note: the input had too few usable lines; the fallback mindmap was returned.",
		))
	}
	return result, nil
}

// handleAnalyzeDiagram returns the complexity report as JSON.
func (s *Server) handleAnalyzeDiagram(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	diagram, err := request.RequireString("diagram")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: diagram"), nil
	}

	out, err := json.MarshalIndent(s.layout.Analyze(diagram), "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding report: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func formatGeneration(res *pipeline.Result, includeSummary bool) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s for %s\n", res.Kind.Title(), res.URL))
	if res.Title != "" {
		sb.WriteString(fmt.Sprintf("Page title: %s\n", res.Title))
	}

	if includeSummary {
		sb.WriteString("\n## Summary\n\n")
		if res.SummaryError != nil {
			sb.WriteString(res.SummaryError.Error())
		} else {
			sb.WriteString(res.Summary)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n## Diagram\n\n```mermaid\n")
	sb.WriteString(res.Diagram)
	sb.WriteString("\n```\n")

	c := res.Complexity
	sb.WriteString(fmt.Sprintf("\n## Complexity\n\nScore %d/100, %d nodes, %d edges, depth %d. Recommended height %dpx.\n",
		c.Score, c.NodeCount, c.EdgeCount, c.MaxDepth, c.RecommendedHeight))
	if res.Repair != nil && res.Repair.UsedFallback {
		sb.WriteString("The model output could not be repaired; the fallback mindmap is shown.\n")
	}
	return sb.String()
}
