// Package llmtest provides a scripted llm.Provider for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/ziadkadry99/neuromind/internal/llm"
)

// MockProvider records calls and answers them with a handler, a fixed
// response or a fixed error, in that order of precedence.
type MockProvider struct {
	mu       sync.Mutex
	Calls    []llm.CompletionRequest
	Handler  func(req llm.CompletionRequest) (string, error)
	Response *llm.CompletionResponse
	Err      error
	ProvName string
}

// New returns a mock that answers every request with content.
func New(content string) *MockProvider {
	return &MockProvider{
		ProvName: "mock",
		Response: &llm.CompletionResponse{
			Content:      content,
			InputTokens:  10,
			OutputTokens: 20,
			Model:        "mock-model",
			FinishReason: "stop",
		},
	}
}

func (m *MockProvider) Name() string {
	return m.ProvName
}

func (m *MockProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	handler, resp, err := m.Handler, m.Response, m.Err
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if handler != nil {
		content, err := handler(req)
		if err != nil {
			return nil, err
		}
		return &llm.CompletionResponse{Content: content, Model: "mock-model", FinishReason: "stop"}, nil
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// CallCount returns the number of Complete calls so far.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastPrompt returns the content of the last user message sent.
func (m *MockProvider) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return ""
	}
	msgs := m.Calls[len(m.Calls)-1].Messages
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == llm.RoleUser {
			return msgs[i].Content
		}
	}
	return ""
}
