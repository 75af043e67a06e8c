// Package generator asks a language model for article summaries and
// Mermaid diagrams.
package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ziadkadry99/neuromind/internal/apperr"
	"github.com/ziadkadry99/neuromind/internal/llm"
	"github.com/ziadkadry99/neuromind/internal/mermaid"
)

const (
	// SummaryInputChars is how much article text the summary prompt sees.
	SummaryInputChars = 4000
	// DiagramInputChars is how much article text a diagram prompt sees.
	DiagramInputChars = 2000

	summaryMaxTokens   = 1000
	summaryTemperature = 0.3
	diagramMaxTokens   = 1500
	diagramTemperature = 0.2
)

var errEmptyResponse = errors.New("model returned an empty response")

// Generator produces summaries and diagram text with an LLM provider.
type Generator struct {
	provider llm.Provider
	model    string
}

// New creates a generator. An empty model lets the provider pick its default.
func New(provider llm.Provider, model string) *Generator {
	return &Generator{provider: provider, model: model}
}

// Summarize returns a plain-language summary of text. Failures are
// apperr LLM errors for the "summary" artifact.
func (g *Generator) Summarize(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(summaryPromptTemplate, truncate(text, SummaryInputChars))
	out, err := g.complete(ctx, prompt, summaryMaxTokens, summaryTemperature)
	if err != nil {
		return "", apperr.NewLLM("summary", err)
	}
	return out, nil
}

// Diagram returns Mermaid text of the requested kind, trimmed but
// otherwise unrepaired.
func (g *Generator) Diagram(ctx context.Context, kind mermaid.Kind, text string) (string, error) {
	tmpl, ok := diagramPrompts[kind]
	if !ok {
		return "", fmt.Errorf("no prompt for diagram type %q", kind)
	}
	prompt := fmt.Sprintf(tmpl, truncate(text, DiagramInputChars))
	out, err := g.complete(ctx, prompt, diagramMaxTokens, diagramTemperature)
	if err != nil {
		return "", apperr.NewLLM(string(kind), err)
	}
	return strings.TrimSpace(out), nil
}

func (g *Generator) complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
		Model:       g.model,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.Content) == "" {
		return "", errEmptyResponse
	}
	return resp.Content, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
