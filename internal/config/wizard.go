package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// DefaultPath is the config file used when --config is not given.
const DefaultPath = ".neuromind.yml"

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to NeuroMind Mapper! Let's configure your setup.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"anthropic", "openai", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.Provider = ProviderType(providerStr)

	// 2. Quality tier.
	qualityPrompt := promptui.Select{
		Label: "Select quality tier",
		Items: []string{
			"lite   - fast & cheap (haiku / gpt-4o-mini)",
			"normal - balanced (sonnet / gpt-4o)",
			"max    - highest quality (opus / gpt-4)",
		},
	}
	qualityIdx, _, err := qualityPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("quality selection: %w", err)
	}
	tiers := []QualityTier{QualityLite, QualityNormal, QualityMax}
	cfg.Quality = tiers[qualityIdx]
	cfg.Model = GetPreset(cfg.Provider, cfg.Quality).Model

	// 3. Extraction mode.
	modePrompt := promptui.Select{
		Label: "How should page content be sent to the model?",
		Items: []string{
			"text     - visible text only",
			"markdown - keep headings and lists",
		},
	}
	modeIdx, _, err := modePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("extract mode: %w", err)
	}
	cfg.Extract.Mode = []ExtractMode{ExtractText, ExtractMarkdown}[modeIdx]

	// 4. Headless browser.
	browserPrompt := promptui.Prompt{
		Label:     "Render pages in headless Chrome (for JavaScript-heavy sites)",
		IsConfirm: true,
	}
	if _, err := browserPrompt.Run(); err == nil {
		cfg.Fetch.Browser = true
	}

	// 5. Extra deny patterns.
	denyPrompt := promptui.Prompt{
		Label:   "Extra blocked hosts (comma-separated globs, blank for defaults)",
		Default: "",
	}
	denyStr, err := denyPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("deny patterns: %w", err)
	}
	if denyStr != "" {
		cfg.Fetch.Deny = append(cfg.Fetch.Deny, splitAndTrim(denyStr)...)
	}

	// 6. Server port.
	portPrompt := promptui.Prompt{
		Label:   "Web UI port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("invalid port")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	// Check for API key.
	envVar := APIKeyEnvVar(cfg.Provider)
	if envVar != "" {
		if os.Getenv(envVar) == "" {
			fmt.Printf("\nNote: Set %s in your environment or .env file before running neuromind generate.\n", envVar)
		}
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
