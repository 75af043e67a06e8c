package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/neuromind/internal/apperr"
	"github.com/ziadkadry99/neuromind/internal/fetch"
	"github.com/ziadkadry99/neuromind/internal/llm"
	"github.com/ziadkadry99/neuromind/internal/llm/llmtest"
	"github.com/ziadkadry99/neuromind/internal/mermaid"
	"github.com/ziadkadry99/neuromind/internal/pipeline"
	"github.com/ziadkadry99/neuromind/internal/render"
)

func newPipeline(t *testing.T, mock *llmtest.MockProvider) (*pipeline.Pipeline, *httptest.Server) {
	t.Helper()
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, "<html><head><title>Launch Plan</title></head><body><p>Strategy first.</p></body></html>")
	}))
	t.Cleanup(page.Close)

	renderer, err := render.New("", "")
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	p, err := pipeline.New(pipeline.Options{
		Fetcher:     fetch.NewHTTPFetcher(page.Client(), fetch.Options{}),
		NewProvider: func() (llm.Provider, error) { return mock, nil },
		Renderer:    renderer,
	})
	if err != nil {
		t.Fatalf("pipeline.New: %v", err)
	}
	return p, page
}

func callTool(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// extractText gets the text content from a CallToolResult.
func extractText(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"generate_diagram", generateDiagramTool, "generate_diagram"},
		{"repair_mindmap", repairMindmapTool, "repair_mindmap"},
		{"analyze_diagram", analyzeDiagramTool, "analyze_diagram"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	srv := NewServer(nil, mermaid.DefaultRepairPolicy())
	if srv == nil {
		t.Fatal("NewServer returned nil")
	}
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.layout != mermaid.DefaultHeightPolicy() {
		t.Errorf("layout = %+v", srv.layout)
	}
}

func TestHandleRepairMindmap(t *testing.T) {
	srv := NewServer(nil, mermaid.DefaultRepairPolicy())
	ctx := context.Background()

	t.Run("repairs", func(t *testing.T) {
		raw := "```mermaid\nmindmap\n(Growth)\n(Content Plan)\n(Weekly posts)\n```"
		result, err := srv.handleRepairMindmap(ctx, callTool(map[string]any{"diagram": raw}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := "mindmap\n  root(Growth)\n    (Content Plan)\n      (Weekly posts)"
		if got := extractText(result); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
		if len(result.Content) != 1 {
			t.Errorf("unexpected note on a successful repair")
		}
	})

	t.Run("fallback", func(t *testing.T) {
		result, err := srv.handleRepairMindmap(ctx, callTool(map[string]any{"diagram": "nothing useful"}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if extractText(result) != mermaid.FallbackMindmap {
			t.Errorf("expected fallback, got %q", extractText(result))
		}
		if len(result.Content) != 2 {
			t.Errorf("expected a fallback note, got %d content items", len(result.Content))
		}
	})

	t.Run("missing diagram", func(t *testing.T) {
		result, err := srv.handleRepairMindmap(ctx, callTool(map[string]any{}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing diagram")
		}
	})
}

func TestHandleAnalyzeDiagram(t *testing.T) {
	srv := NewServer(nil, mermaid.DefaultRepairPolicy())
	result, err := srv.handleAnalyzeDiagram(context.Background(), callTool(map[string]any{
		"diagram": mermaid.FallbackMindmap,
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var report mermaid.ComplexityReport
	if err := json.Unmarshal([]byte(extractText(result)), &report); err != nil {
		t.Fatalf("report is not JSON: %v", err)
	}
	if report.Kind != mermaid.KindMindmap || report.Score != 42 || report.RecommendedHeight != 1800 {
		t.Errorf("unexpected report %+v", report)
	}
}

func TestHandleGenerateDiagram(t *testing.T) {
	mock := &llmtest.MockProvider{ProvName: "mock", Handler: func(req llm.CompletionRequest) (string, error) {
		if strings.HasPrefix(req.Messages[0].Content, "Please provide a comprehensive summary") {
			return "A launch needs a strategy.", nil
		}
		return "timeline\n    title Launch\n    Q1 : Strategy\n    Q2 : Release", nil
	}}
	p, page := newPipeline(t, mock)
	srv := NewServer(p, mermaid.DefaultRepairPolicy())
	ctx := context.Background()

	t.Run("timeline with summary", func(t *testing.T) {
		result, err := srv.handleGenerateDiagram(ctx, callTool(map[string]any{
			"url":             page.URL,
			"type":            "timeline",
			"include_summary": true,
		}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", extractText(result))
		}
		text := extractText(result)
		for _, want := range []string{"# Timeline for " + page.URL, "Page title: Launch Plan", "A launch needs a strategy.", "```mermaid\ntimeline", "Score "} {
			if !strings.Contains(text, want) {
				t.Errorf("result missing %q:\n%s", want, text)
			}
		}
	})

	t.Run("second call reuses the page", func(t *testing.T) {
		before := mock.CallCount()
		result, err := srv.handleGenerateDiagram(ctx, callTool(map[string]any{"url": page.URL, "type": "timeline"}))
		if err != nil || result.IsError {
			t.Fatalf("unexpected failure: %v %v", err, extractText(result))
		}
		if got := mock.CallCount() - before; got != 1 {
			t.Errorf("model calls = %d, want 1", got)
		}
		if strings.Contains(extractText(result), "## Summary") {
			t.Error("summary included without include_summary")
		}
	})

	t.Run("bad type", func(t *testing.T) {
		result, _ := srv.handleGenerateDiagram(ctx, callTool(map[string]any{"url": page.URL, "type": "pie"}))
		if !result.IsError {
			t.Error("expected error for unknown type")
		}
	})

	t.Run("missing url", func(t *testing.T) {
		result, _ := srv.handleGenerateDiagram(ctx, callTool(map[string]any{}))
		if !result.IsError {
			t.Error("expected error for missing url")
		}
	})
}

func TestHandleGenerateDiagramUnconfigured(t *testing.T) {
	srv := NewServer(nil, mermaid.DefaultRepairPolicy())
	result, err := srv.handleGenerateDiagram(context.Background(), callTool(map[string]any{"url": "example.com"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError || !strings.Contains(extractText(result), "not configured") {
		t.Errorf("unexpected result %q", extractText(result))
	}
}

func TestHandleGenerateDiagramFailurePrefix(t *testing.T) {
	mock := &llmtest.MockProvider{ProvName: "mock", Handler: func(req llm.CompletionRequest) (string, error) {
		if strings.HasPrefix(req.Messages[0].Content, "Please provide a comprehensive summary") {
			return "ok", nil
		}
		return "", io.ErrUnexpectedEOF
	}}
	p, page := newPipeline(t, mock)
	srv := NewServer(p, mermaid.DefaultRepairPolicy())

	result, _ := srv.handleGenerateDiagram(context.Background(), callTool(map[string]any{"url": page.URL}))
	if !result.IsError {
		t.Fatal("expected tool error")
	}
	if got := extractText(result); !strings.HasPrefix(got, "Error generating mindmap") {
		t.Errorf("error text = %q", got)
	}
}

func TestErrorTextIncludesHints(t *testing.T) {
	got := errorText(apperr.NewFetchStatus("https://example.com", 403))
	if !strings.HasPrefix(got, "Failed to scrape website. Status code: 403") {
		t.Errorf("unexpected message %q", got)
	}
	if !strings.Contains(got, "\n- Check if the URL is correct") {
		t.Errorf("hints missing from %q", got)
	}

	plain := errors.New("boom")
	if errorText(plain) != "boom" {
		t.Errorf("plain error changed: %q", errorText(plain))
	}
}
