package generator

import (
	"fmt"

	"github.com/ziadkadry99/neuromind/internal/llm"
	"github.com/ziadkadry99/neuromind/internal/mermaid"
)

// Estimate is the upper bound of one uncached run: a summary plus one
// diagram.
type Estimate struct {
	InputTokens     int
	MaxOutputTokens int
	MaxCostUSD      float64
}

// EstimateRun sizes the prompts that would be sent for text without calling
// the model. Output is bounded by the request token limits.
func EstimateRun(model string, kind mermaid.Kind, text string) (Estimate, error) {
	tmpl, ok := diagramPrompts[kind]
	if !ok {
		return Estimate{}, fmt.Errorf("no prompt for diagram type %q", kind)
	}
	summary := fmt.Sprintf(summaryPromptTemplate, truncate(text, SummaryInputChars))
	diagram := fmt.Sprintf(tmpl, truncate(text, DiagramInputChars))

	e := Estimate{
		InputTokens:     llm.EstimateTokens(summary) + llm.EstimateTokens(diagram),
		MaxOutputTokens: summaryMaxTokens + diagramMaxTokens,
	}
	e.MaxCostUSD = llm.EstimateCost(model, e.InputTokens, e.MaxOutputTokens)
	return e, nil
}
