// Package pipeline runs one mapping request end to end: fetch the page,
// extract and summarize its text, generate a diagram, repair and measure
// it, then render the viewer.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ziadkadry99/neuromind/internal/apperr"
	"github.com/ziadkadry99/neuromind/internal/fetch"
	"github.com/ziadkadry99/neuromind/internal/generator"
	"github.com/ziadkadry99/neuromind/internal/llm"
	"github.com/ziadkadry99/neuromind/internal/logging"
	"github.com/ziadkadry99/neuromind/internal/mermaid"
	"github.com/ziadkadry99/neuromind/internal/metrics"
	"github.com/ziadkadry99/neuromind/internal/render"
	"github.com/ziadkadry99/neuromind/internal/session"
)

// Stage names one step of a run.
type Stage string

const (
	StageFetch     Stage = "fetch"
	StageExtract   Stage = "extract"
	StageSummarize Stage = "summarize"
	StageGenerate  Stage = "generate"
	StageRepair    Stage = "repair"
	StageAnalyze   Stage = "analyze"
	StageRender    Stage = "render"
)

// Stages lists every stage in execution order.
var Stages = []Stage{
	StageFetch, StageExtract, StageSummarize, StageGenerate,
	StageRepair, StageAnalyze, StageRender,
}

var (
	ErrEmptyURL = errors.New("please enter a URL")
	ErrBadURL   = errors.New("URL must start with http:// or https://")
)

// Event reports that a stage started (Done false) or finished (Done true).
// Cached is set on finished fetch, extract and summarize events served
// from the session cache; Skipped marks a repair that does not apply to
// the diagram kind.
type Event struct {
	Stage    Stage
	Done     bool
	Cached   bool
	Skipped  bool
	Duration time.Duration
	Err      error
}

// Observer receives stage events. It is called synchronously on the
// goroutine running the pipeline.
type Observer func(Event)

// ProviderFactory builds the LLM provider for one run.
type ProviderFactory func() (llm.Provider, error)

// Options configures a Pipeline. Fetcher, NewProvider and Renderer are
// required.
type Options struct {
	Fetcher     fetch.Fetcher
	Extractor   fetch.Extractor
	NewProvider ProviderFactory
	Model       string
	// Limiter, when set, is shared by the providers of every run.
	Limiter  *llm.Limiter
	Repair   mermaid.RepairPolicy
	Layout   mermaid.HeightPolicy
	Renderer *render.Renderer
	Logger   logging.Logger
	// Metrics may be nil.
	Metrics *metrics.Collector
}

// Request is one user action.
type Request struct {
	URL  string
	Kind mermaid.Kind
	// Force refetches and resummarizes even when the session has the page
	// cached.
	Force bool
}

// Result is everything a run produced.
type Result struct {
	URL     string
	Title   string
	Text    string
	Summary string
	// SummaryError is set when summarizing failed; the diagram is still
	// produced from the text.
	SummaryError error

	Kind       mermaid.Kind
	RawDiagram string
	Diagram    string
	// Repair is set for mindmaps only.
	Repair     *mermaid.RepairResult
	Complexity mermaid.ComplexityReport
	HTML       string

	Cached bool
	Usage  llm.Usage
}

// Pipeline runs requests against shared collaborators. It is safe for
// concurrent use as long as each run gets its own session state.
type Pipeline struct {
	opts Options
}

// New creates a pipeline, filling unset policies with their defaults.
func New(opts Options) (*Pipeline, error) {
	if opts.Fetcher == nil {
		return nil, errors.New("pipeline: fetcher is required")
	}
	if opts.NewProvider == nil {
		return nil, errors.New("pipeline: provider factory is required")
	}
	if opts.Renderer == nil {
		return nil, errors.New("pipeline: renderer is required")
	}
	if opts.Repair.MaxBranches == 0 && len(opts.Repair.BranchKeywords) == 0 {
		opts.Repair = mermaid.DefaultRepairPolicy()
	}
	if opts.Layout.MaxHeight == 0 {
		opts.Layout = mermaid.DefaultHeightPolicy()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Pipeline{opts: opts}, nil
}

// Layout returns the height policy used to size viewers.
func (p *Pipeline) Layout() mermaid.HeightPolicy {
	return p.opts.Layout
}

// Run executes req for the session st and updates st in place: the page
// cache, the selected and last diagram, and LastError on failure. observe
// may be nil.
func (p *Pipeline) Run(ctx context.Context, st *session.State, req Request, observe Observer) (res *Result, err error) {
	if observe == nil {
		observe = func(Event) {}
	}
	kind := req.Kind
	if kind == "" {
		kind = st.SelectedDiagram
	}
	if kind == "" {
		kind = mermaid.KindMindmap
	}
	parsed, kindErr := mermaid.ParseKind(string(kind))
	if kindErr == nil {
		kind = parsed
	}

	log := p.opts.Logger.WithFields(logrus.Fields{
		"session": st.ID,
		"kind":    kind,
	})

	defer func() {
		outcome := "success"
		if err != nil {
			st.LastError = err.Error()
			outcome = string(apperr.KindOf(err))
			if outcome == "" {
				outcome = "error"
			}
			log.WithError(err).Warn("generation failed")
		}
		if p.opts.Metrics != nil {
			label := string(kind)
			if kindErr != nil {
				label = "invalid"
			}
			p.opts.Metrics.ObserveGeneration(label, outcome)
		}
	}()

	url := fetch.NormalizeURL(req.URL)
	if url == "" {
		return nil, ErrEmptyURL
	}
	if !fetch.IsHTTPURL(url) {
		return nil, ErrBadURL
	}
	if kindErr != nil {
		return nil, kindErr
	}
	log = log.WithField("url", url)

	provider, err := p.provider()
	if err != nil {
		return nil, err
	}
	meter := llm.NewMeter(provider)
	gen := generator.New(meter, p.opts.Model)

	res = &Result{URL: url, Kind: kind}
	st.SelectedDiagram = kind

	if !req.Force && st.CachedFor(url) {
		res.Title, res.Text, res.Summary = st.CachedTitle, st.CachedText, st.CachedSummary
		res.Cached = true
		for _, s := range []Stage{StageFetch, StageExtract, StageSummarize} {
			observe(Event{Stage: s, Done: true, Cached: true})
		}
		if p.opts.Metrics != nil {
			p.opts.Metrics.ObserveCacheHit()
		}
		log.Debug("using cached page and summary")
	} else {
		if err := p.load(ctx, gen, url, res, observe, log); err != nil {
			return nil, err
		}
		st.Remember(url, res.Title, res.Text, res.Summary)
	}

	if err := p.stage(StageGenerate, observe, log, func() error {
		raw, err := gen.Diagram(ctx, kind, res.Text)
		res.RawDiagram = raw
		return err
	}); err != nil {
		return nil, err
	}

	res.Diagram = res.RawDiagram
	if kind == mermaid.KindMindmap {
		_ = p.stage(StageRepair, observe, log, func() error {
			rep := p.opts.Repair.Repair(res.RawDiagram)
			res.Repair = &rep
			res.Diagram = rep.Code
			if rep.UsedFallback {
				if p.opts.Metrics != nil {
					p.opts.Metrics.ObserveRepairFallback()
				}
				log.WithField("dropped", rep.Dropped).Warn("mindmap unusable, substituted fallback")
			}
			return nil
		})
	} else {
		observe(Event{Stage: StageRepair, Done: true, Skipped: true})
	}

	_ = p.stage(StageAnalyze, observe, log, func() error {
		res.Complexity = p.opts.Layout.Analyze(res.Diagram)
		if p.opts.Metrics != nil {
			p.opts.Metrics.ObserveComplexity(string(res.Complexity.Kind), res.Complexity.Score)
		}
		return nil
	})

	if err := p.stage(StageRender, observe, log, func() error {
		html, err := p.opts.Renderer.Viewer(res.Diagram, res.Complexity)
		res.HTML = html
		return err
	}); err != nil {
		return nil, err
	}

	st.SetDiagram(kind, res.Diagram)
	res.Usage = meter.Usage()
	log.WithFields(logrus.Fields{
		"score":  res.Complexity.Score,
		"height": res.Complexity.RecommendedHeight,
		"cached": res.Cached,
		"calls":  res.Usage.Calls,
	}).Info("diagram generated")
	return res, nil
}

func (p *Pipeline) provider() (llm.Provider, error) {
	provider, err := p.opts.NewProvider()
	if err != nil {
		var missing *llm.MissingKeyError
		if errors.As(err, &missing) {
			return nil, apperr.NewConfig("%s is not set", missing.EnvVar)
		}
		return nil, apperr.NewConfig("%v", err)
	}
	if p.opts.Limiter != nil {
		provider = llm.WithLimiter(provider, p.opts.Limiter)
	}
	return provider, nil
}

// load fetches, extracts and summarizes url into res. A summary failure is
// recorded on res and does not stop the run.
func (p *Pipeline) load(ctx context.Context, gen *generator.Generator, url string, res *Result, observe Observer, log *logrus.Entry) error {
	var page *fetch.Page
	if err := p.stage(StageFetch, observe, log, func() error {
		var err error
		page, err = p.opts.Fetcher.Fetch(ctx, url)
		return err
	}); err != nil {
		return err
	}

	if err := p.stage(StageExtract, observe, log, func() error {
		content, err := p.opts.Extractor.Extract(page)
		if err != nil {
			return apperr.NewFetch(url, err)
		}
		if content.Text == "" {
			return apperr.NewFetch(url, errors.New("page has no readable text"))
		}
		res.Title, res.Text = content.Title, content.Text
		return nil
	}); err != nil {
		return err
	}

	if err := p.stage(StageSummarize, observe, log, func() error {
		summary, err := gen.Summarize(ctx, res.Text)
		res.Summary = summary
		return err
	}); err != nil {
		if ctx.Err() != nil {
			return err
		}
		res.SummaryError = err
	}
	return nil
}

// stage brackets fn with start and finish events, a debug log line and the
// stage duration metric.
func (p *Pipeline) stage(s Stage, observe Observer, log *logrus.Entry, fn func() error) error {
	observe(Event{Stage: s})
	start := time.Now()
	err := fn()
	d := time.Since(start)
	observe(Event{Stage: s, Done: true, Duration: d, Err: err})
	if p.opts.Metrics != nil {
		p.opts.Metrics.ObserveStage(string(s), d)
	}
	log.WithFields(logrus.Fields{"stage": s, "duration": d}).Debug("stage finished")
	return err
}
