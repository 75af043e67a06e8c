package llm

import (
	"fmt"
	"os"
)

// MissingKeyError reports that a provider's API key is not in the
// environment.
type MissingKeyError struct {
	EnvVar string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%s environment variable is not set", e.EnvVar)
}

// NewProvider creates a new LLM provider based on the given provider type and model.
// Supported provider types: "anthropic", "openai", "ollama". Keys are read
// from the environment on every call so that a key added to .env after
// startup is picked up.
func NewProvider(providerType string, model string, opts ...Option) (Provider, error) {
	switch providerType {
	case "anthropic":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, &MissingKeyError{EnvVar: "ANTHROPIC_API_KEY"}
		}
		return NewAnthropicProvider(apiKey, model, opts...), nil

	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, &MissingKeyError{EnvVar: "OPENAI_API_KEY"}
		}
		return NewOpenAIProvider(apiKey, model, opts...), nil

	case "ollama":
		host := os.Getenv("OLLAMA_HOST")
		if host == "" {
			host = DefaultOllamaHost
		}
		return NewOllamaProvider(host, model, opts...), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}
