package config

import "github.com/ziadkadry99/neuromind/internal/mermaid"

// QualityPreset describes the model to use for a given quality tier.
type QualityPreset struct {
	Model string
}

// qualityPresets maps each provider+quality combination to its model choice.
var qualityPresets = map[ProviderType]map[QualityTier]QualityPreset{
	ProviderAnthropic: {
		QualityLite:   {Model: "claude-haiku-4-5-20251001"},
		QualityNormal: {Model: "claude-sonnet-4-5-20250929"},
		QualityMax:    {Model: "claude-opus-4-6"},
	},
	ProviderOpenAI: {
		QualityLite:   {Model: "gpt-4o-mini"},
		QualityNormal: {Model: "gpt-4o"},
		QualityMax:    {Model: "gpt-4"},
	},
	ProviderOllama: {
		QualityLite:   {Model: "llama3"},
		QualityNormal: {Model: "llama3"},
		QualityMax:    {Model: "llama3:70b"},
	},
}

// DefaultUserAgent is sent with every page request.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// DefaultDeny blocks loopback and link-local targets from being fetched.
var DefaultDeny = []string{
	"localhost/**",
	"127.0.0.1/**",
	"169.254.169.254/**",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	repair := mermaid.DefaultRepairPolicy()
	layout := mermaid.DefaultHeightPolicy()
	return &Config{
		Provider:          ProviderAnthropic,
		Model:             "claude-sonnet-4-5-20250929",
		Quality:           QualityNormal,
		RequestsPerMinute: 0,
		LogLevel:          "info",
		LogFormat:         "text",
		Fetch: FetchConfig{
			TimeoutSeconds: 10,
			UserAgent:      DefaultUserAgent,
			MaxBytes:       5 << 20,
			Deny:           DefaultDeny,
		},
		Extract: ExtractConfig{
			Mode:     ExtractText,
			MaxChars: 0,
		},
		Repair: RepairConfig{
			BranchKeywords: repair.BranchKeywords,
			MaxBranches:    repair.MaxBranches,
			MinLines:       repair.MinLines,
		},
		Layout: LayoutConfig{
			BaseHeight:    layout.BaseHeight,
			BandStep:      layout.BandStep,
			PerNodeHeight: layout.PerNodeHeight,
			MaxHeight:     layout.MaxHeight,
		},
		Server: ServerConfig{
			Port:                  8501,
			RequestTimeoutSeconds: 120,
		},
		Render: RenderConfig{
			MermaidURL:     "https://cdn.jsdelivr.net/npm/mermaid@10.6.1/dist/mermaid.min.js",
			FontAwesomeURL: "https://cdnjs.cloudflare.com/ajax/libs/font-awesome/6.0.0/css/all.min.css",
		},
	}
}

// GetPreset returns the quality preset for the given provider and tier.
// Returns the Normal Anthropic preset if the combination is not found.
func GetPreset(provider ProviderType, tier QualityTier) QualityPreset {
	if tiers, ok := qualityPresets[provider]; ok {
		if preset, ok := tiers[tier]; ok {
			return preset
		}
	}
	return qualityPresets[ProviderAnthropic][QualityNormal]
}

// RepairPolicy builds the mindmap repair policy described by the config.
func (c *Config) RepairPolicy() mermaid.RepairPolicy {
	p := mermaid.DefaultRepairPolicy()
	if len(c.Repair.BranchKeywords) > 0 {
		p.BranchKeywords = c.Repair.BranchKeywords
	}
	if c.Repair.MaxBranches > 0 {
		p.MaxBranches = c.Repair.MaxBranches
	}
	if c.Repair.MinLines > 0 {
		p.MinLines = c.Repair.MinLines
	}
	return p
}

// HeightPolicy builds the viewer height policy described by the config.
func (c *Config) HeightPolicy() mermaid.HeightPolicy {
	p := mermaid.DefaultHeightPolicy()
	if c.Layout.BaseHeight > 0 {
		p.BaseHeight = c.Layout.BaseHeight
	}
	if c.Layout.BandStep > 0 {
		p.BandStep = c.Layout.BandStep
	}
	if c.Layout.PerNodeHeight > 0 {
		p.PerNodeHeight = c.Layout.PerNodeHeight
	}
	if c.Layout.MaxHeight > 0 {
		p.MaxHeight = c.Layout.MaxHeight
	}
	return p
}
