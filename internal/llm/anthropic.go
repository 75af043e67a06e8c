package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const (
	anthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion = "2023-06-01"

	defaultMaxTokens = 1024
)

// AnthropicProvider calls the Anthropic Messages API over plain HTTP.
type AnthropicProvider struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewAnthropicProvider creates a new Anthropic provider.
func NewAnthropicProvider(apiKey string, model string, opts ...Option) *AnthropicProvider {
	o := applyOptions(opts)
	base := o.baseURL
	if base == "" {
		base = anthropicBaseURL
	}
	return &AnthropicProvider{
		apiKey:   apiKey,
		model:    model,
		endpoint: strings.TrimRight(base, "/") + "/v1/messages",
		client:   o.httpClient,
	}
}

func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// anthropicPayload moves system messages into the top-level system field,
// which is where the Messages API expects them.
func (p *AnthropicProvider) anthropicPayload(req CompletionRequest) anthropicRequest {
	out := anthropicRequest{
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if out.Model == "" {
		out.Model = p.model
	}
	if out.MaxTokens == 0 {
		out.MaxTokens = defaultMaxTokens
	}

	var system []string
	for _, msg := range req.Messages {
		if msg.Role == RoleSystem {
			system = append(system, msg.Content)
			continue
		}
		out.Messages = append(out.Messages, anthropicMessage{Role: string(msg.Role), Content: msg.Content})
	}
	out.System = strings.Join(system, "\n\n")
	return out
}

func (p *AnthropicProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	header := http.Header{}
	header.Set("x-api-key", p.apiKey)
	header.Set("anthropic-version", anthropicVersion)

	status, raw, err := postJSON(ctx, p.client, p.endpoint, header, p.anthropicPayload(req))
	if err != nil {
		return nil, fmt.Errorf("anthropic request failed: %w", err)
	}

	var resp anthropicResponse
	decodeErr := json.Unmarshal(raw, &resp)
	if status != http.StatusOK || resp.Error != nil {
		apiErr := &APIError{Provider: "anthropic", Status: status}
		if resp.Error != nil {
			apiErr.Type, apiErr.Message = resp.Error.Type, resp.Error.Message
		} else {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return nil, apiErr
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode anthropic response: %w", decodeErr)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, fmt.Errorf("anthropic returned no text content (stop reason %q)", resp.StopReason)
	}

	return &CompletionResponse{
		Content:      text.String(),
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
		Model:        resp.Model,
		FinishReason: resp.StopReason,
	}, nil
}
