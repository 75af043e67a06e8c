package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// DefaultOllamaHost is used when OLLAMA_HOST is unset.
const DefaultOllamaHost = "http://localhost:11434"

// OllamaProvider talks to a local or remote Ollama server's chat endpoint.
// No API key is needed.
type OllamaProvider struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllamaProvider creates a new Ollama provider for the server at baseURL.
// WithBaseURL takes precedence over baseURL.
func NewOllamaProvider(baseURL string, model string, opts ...Option) *OllamaProvider {
	o := applyOptions(opts)
	if o.baseURL != "" {
		baseURL = o.baseURL
	}
	return &OllamaProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  o.httpClient,
	}
}

func (p *OllamaProvider) Name() string {
	return "ollama"
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  struct {
		Temperature float64 `json:"temperature,omitempty"`
		NumPredict  int     `json:"num_predict,omitempty"`
	} `json:"options,omitempty"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatResponse struct {
	Message         ollamaMessage `json:"message"`
	Model           string        `json:"model"`
	DoneReason      string        `json:"done_reason"`
	PromptEvalCount int           `json:"prompt_eval_count"`
	EvalCount       int           `json:"eval_count"`
	Error           string        `json:"error,omitempty"`
}

func (p *OllamaProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	chat := ollamaChatRequest{Model: req.Model}
	if chat.Model == "" {
		chat.Model = p.model
	}
	chat.Options.Temperature = req.Temperature
	chat.Options.NumPredict = req.MaxTokens
	for _, msg := range req.Messages {
		chat.Messages = append(chat.Messages, ollamaMessage{Role: string(msg.Role), Content: msg.Content})
	}

	status, raw, err := postJSON(ctx, p.client, p.baseURL+"/api/chat", nil, chat)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}

	var resp ollamaChatResponse
	decodeErr := json.Unmarshal(raw, &resp)
	if status != http.StatusOK || resp.Error != "" {
		msg := resp.Error
		if msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		return nil, &APIError{Provider: "ollama", Status: status, Message: msg}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode ollama response: %w", decodeErr)
	}

	return &CompletionResponse{
		Content:      resp.Message.Content,
		InputTokens:  resp.PromptEvalCount,
		OutputTokens: resp.EvalCount,
		Model:        resp.Model,
		FinishReason: resp.DoneReason,
	}, nil
}
