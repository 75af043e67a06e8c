package cmd

import (
	"fmt"
	"time"

	"github.com/ziadkadry99/neuromind/internal/config"
	"github.com/ziadkadry99/neuromind/internal/fetch"
	"github.com/ziadkadry99/neuromind/internal/llm"
	"github.com/ziadkadry99/neuromind/internal/logging"
	"github.com/ziadkadry99/neuromind/internal/metrics"
	"github.com/ziadkadry99/neuromind/internal/pipeline"
	"github.com/ziadkadry99/neuromind/internal/render"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `neuromind init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger builds the logger described by cfg; --verbose forces debug.
func newLogger(cfg *config.Config) logging.Logger {
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	return logging.New(level, cfg.LogFormat)
}

// newFetcher returns the browser fetcher when fetch.browser is set and the
// plain HTTP fetcher otherwise.
func newFetcher(cfg *config.Config) fetch.Fetcher {
	opts := fetch.Options{
		Timeout:   time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second,
		UserAgent: cfg.Fetch.UserAgent,
		MaxBytes:  cfg.Fetch.MaxBytes,
		Policy:    fetch.Policy{Deny: cfg.Fetch.Deny},
	}
	if cfg.Fetch.Browser {
		return fetch.NewBrowserFetcher(opts, cfg.Fetch.ChromePath)
	}
	return fetch.NewHTTPFetcher(nil, opts)
}

func newExtractor(cfg *config.Config) fetch.Extractor {
	return fetch.Extractor{
		Markdown: cfg.Extract.Mode == config.ExtractMarkdown,
		MaxChars: cfg.Extract.MaxChars,
	}
}

// providerFactory reads the API key on every call so the server can start
// before a key is configured.
func providerFactory(cfg *config.Config) pipeline.ProviderFactory {
	return func() (llm.Provider, error) {
		var opts []llm.Option
		if cfg.BaseURL != "" {
			opts = append(opts, llm.WithBaseURL(cfg.BaseURL))
		}
		return llm.NewProvider(string(cfg.Provider), cfg.Model, opts...)
	}
}

// newPipeline wires the pipeline described by cfg. m may be nil.
func newPipeline(cfg *config.Config, logger logging.Logger, m *metrics.Collector) (*pipeline.Pipeline, *render.Renderer, error) {
	renderer, err := render.New(cfg.Render.MermaidURL, cfg.Render.FontAwesomeURL)
	if err != nil {
		return nil, nil, err
	}
	opts := pipeline.Options{
		Fetcher:     newFetcher(cfg),
		Extractor:   newExtractor(cfg),
		NewProvider: providerFactory(cfg),
		Model:       cfg.Model,
		Repair:      cfg.RepairPolicy(),
		Layout:      cfg.HeightPolicy(),
		Renderer:    renderer,
		Logger:      logger,
		Metrics:     m,
	}
	if cfg.RequestsPerMinute > 0 {
		opts.Limiter = llm.NewLimiter(cfg.RequestsPerMinute)
	}
	p, err := pipeline.New(opts)
	if err != nil {
		return nil, nil, err
	}
	return p, renderer, nil
}
