package llm

import (
	"context"
	"sync"
)

// modelPricing holds per-model pricing in USD per 1M tokens.
type modelPricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// priceTable maps model identifiers to their pricing.
var priceTable = map[string]modelPricing{
	// Anthropic models
	"claude-sonnet-4-5-20250929": {InputPerMillion: 3.00, OutputPerMillion: 15.00},
	"claude-haiku-4-5-20251001":  {InputPerMillion: 0.80, OutputPerMillion: 4.00},
	"claude-opus-4-6":            {InputPerMillion: 15.00, OutputPerMillion: 75.00},

	// OpenAI models
	"gpt-4o":      {InputPerMillion: 2.50, OutputPerMillion: 10.00},
	"gpt-4o-mini": {InputPerMillion: 0.15, OutputPerMillion: 0.60},
	"gpt-4":       {InputPerMillion: 30.00, OutputPerMillion: 60.00},
}

// EstimateCost returns the estimated cost in USD for the given model and token counts.
// Returns 0 if the model is not found in the price table (local models are free).
func EstimateCost(model string, inputTokens, outputTokens int) float64 {
	pricing, ok := priceTable[model]
	if !ok {
		return 0
	}

	inputCost := float64(inputTokens) / 1_000_000.0 * pricing.InputPerMillion
	outputCost := float64(outputTokens) / 1_000_000.0 * pricing.OutputPerMillion
	return inputCost + outputCost
}

// EstimateTokens provides a rough token count estimation for the given text.
// Uses the approximation of 1 token per 4 characters.
func EstimateTokens(text string) int {
	n := len(text) / 4
	if n == 0 && len(text) > 0 {
		return 1
	}
	return n
}

// Usage is the running total of a Meter.
type Usage struct {
	Calls        int     `json:"calls"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
}

// Meter wraps a Provider and accumulates token usage and estimated cost.
type Meter struct {
	provider Provider
	mu       sync.Mutex
	usage    Usage
}

// NewMeter wraps provider.
func NewMeter(provider Provider) *Meter {
	return &Meter{provider: provider}
}

func (m *Meter) Name() string {
	return m.provider.Name()
}

func (m *Meter) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	resp, err := m.provider.Complete(ctx, req)
	if err != nil {
		return nil, err
	}
	model := resp.Model
	if model == "" {
		model = req.Model
	}
	m.mu.Lock()
	m.usage.Calls++
	m.usage.InputTokens += resp.InputTokens
	m.usage.OutputTokens += resp.OutputTokens
	m.usage.CostUSD += EstimateCost(model, resp.InputTokens, resp.OutputTokens)
	m.mu.Unlock()
	return resp, nil
}

// Usage returns a snapshot of the totals.
func (m *Meter) Usage() Usage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.usage
}
