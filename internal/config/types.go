package config

// QualityTier controls the model selection and trade-off between speed/cost and quality.
type QualityTier string

const (
	QualityLite   QualityTier = "lite"
	QualityNormal QualityTier = "normal"
	QualityMax    QualityTier = "max"
)

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderAnthropic ProviderType = "anthropic"
	ProviderOpenAI    ProviderType = "openai"
	ProviderOllama    ProviderType = "ollama"
)

// ExtractMode selects how page HTML is turned into prompt text.
type ExtractMode string

const (
	ExtractText     ExtractMode = "text"
	ExtractMarkdown ExtractMode = "markdown"
)

// Config is the top-level neuromind configuration, corresponding to .neuromind.yml.
type Config struct {
	Provider          ProviderType  `yaml:"provider" koanf:"provider"`
	Model             string        `yaml:"model" koanf:"model"`
	Quality           QualityTier   `yaml:"quality" koanf:"quality"`
	BaseURL           string        `yaml:"base_url,omitempty" koanf:"base_url"`
	RequestsPerMinute int           `yaml:"requests_per_minute" koanf:"requests_per_minute"`
	LogLevel          string        `yaml:"log_level" koanf:"log_level"`
	LogFormat         string        `yaml:"log_format" koanf:"log_format"`
	Fetch             FetchConfig   `yaml:"fetch" koanf:"fetch"`
	Extract           ExtractConfig `yaml:"extract" koanf:"extract"`
	Repair            RepairConfig  `yaml:"repair" koanf:"repair"`
	Layout            LayoutConfig  `yaml:"layout" koanf:"layout"`
	Server            ServerConfig  `yaml:"server" koanf:"server"`
	Render            RenderConfig  `yaml:"render" koanf:"render"`
}

// FetchConfig controls how pages are downloaded.
type FetchConfig struct {
	TimeoutSeconds int      `yaml:"timeout_seconds" koanf:"timeout_seconds"`
	UserAgent      string   `yaml:"user_agent" koanf:"user_agent"`
	MaxBytes       int64    `yaml:"max_bytes" koanf:"max_bytes"`
	Browser        bool     `yaml:"browser" koanf:"browser"`
	ChromePath     string   `yaml:"chrome_path,omitempty" koanf:"chrome_path"`
	Deny           []string `yaml:"deny" koanf:"deny"`
}

// ExtractConfig controls text extraction from fetched pages.
type ExtractConfig struct {
	Mode     ExtractMode `yaml:"mode" koanf:"mode"`
	MaxChars int         `yaml:"max_chars" koanf:"max_chars"`
}

// RepairConfig tunes the mindmap repair policy.
type RepairConfig struct {
	BranchKeywords []string `yaml:"branch_keywords" koanf:"branch_keywords"`
	MaxBranches    int      `yaml:"max_branches" koanf:"max_branches"`
	MinLines       int      `yaml:"min_lines" koanf:"min_lines"`
}

// LayoutConfig holds the viewer height bands used by the complexity estimator.
type LayoutConfig struct {
	BaseHeight    int `yaml:"base_height" koanf:"base_height"`
	BandStep      int `yaml:"band_step" koanf:"band_step"`
	PerNodeHeight int `yaml:"per_node_height" koanf:"per_node_height"`
	MaxHeight     int `yaml:"max_height" koanf:"max_height"`
}

// ServerConfig holds settings for the web UI server.
type ServerConfig struct {
	Port                  int    `yaml:"port" koanf:"port"`
	AllowAllOrigins       bool   `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds" koanf:"request_timeout_seconds"`
	SessionDB             string `yaml:"session_db,omitempty" koanf:"session_db"`
}

// RenderConfig holds viewer asset locations.
type RenderConfig struct {
	MermaidURL     string `yaml:"mermaid_url" koanf:"mermaid_url"`
	FontAwesomeURL string `yaml:"font_awesome_url" koanf:"font_awesome_url"`
}
