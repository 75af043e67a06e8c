// Package llm talks to the hosted and local language models that write
// summaries and diagrams.
package llm

import (
	"context"
	"net/http"
)

// Provider defines the interface for LLM providers.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}

// Option customizes a provider at construction time.
type Option func(*options)

type options struct {
	baseURL    string
	httpClient *http.Client
}

// WithBaseURL points the provider at a different API endpoint, such as an
// OpenAI-compatible gateway or a remote Ollama host.
func WithBaseURL(url string) Option {
	return func(o *options) { o.baseURL = url }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

func applyOptions(opts []Option) options {
	o := options{httpClient: &http.Client{}}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
