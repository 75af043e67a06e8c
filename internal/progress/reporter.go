// Package progress shows pipeline stage progress on a terminal or in CI
// logs.
package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/ziadkadry99/neuromind/internal/pipeline"
)

var stageLabels = map[pipeline.Stage]string{
	pipeline.StageFetch:     "Fetching content",
	pipeline.StageExtract:   "Extracting text",
	pipeline.StageSummarize: "Generating summary",
	pipeline.StageGenerate:  "Creating diagram",
	pipeline.StageRepair:    "Repairing notation",
	pipeline.StageAnalyze:   "Analyzing complexity",
	pipeline.StageRender:    "Rendering viewer",
}

// Label returns the human-readable description of a stage.
func Label(s pipeline.Stage) string {
	if l, ok := stageLabels[s]; ok {
		return l
	}
	return string(s)
}

// Reporter consumes pipeline events. Observe can be passed directly as a
// pipeline.Observer.
type Reporter interface {
	Observe(e pipeline.Event)
	Finish()
}

// NewReporter returns a CIReporter if the CI environment variable is set,
// or a TerminalReporter otherwise. Both write to w.
func NewReporter(w io.Writer) Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{w: w}
	}
	return NewTerminalReporter(w)
}

// TerminalReporter displays a progress bar with one step per stage.
type TerminalReporter struct {
	bar *progressbar.ProgressBar
}

func NewTerminalReporter(w io.Writer) *TerminalReporter {
	bar := progressbar.NewOptions(len(pipeline.Stages),
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Starting"),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	return &TerminalReporter{bar: bar}
}

func (r *TerminalReporter) Observe(e pipeline.Event) {
	if !e.Done {
		r.bar.Describe(Label(e.Stage) + "...")
		return
	}
	_ = r.bar.Add(1)
}

func (r *TerminalReporter) Finish() {
	_ = r.bar.Finish()
}

// CIReporter prints one line per finished stage, suitable for CI logs.
type CIReporter struct {
	w    io.Writer
	done int
}

func NewCIReporter(w io.Writer) *CIReporter {
	return &CIReporter{w: w}
}

func (r *CIReporter) Observe(e pipeline.Event) {
	if !e.Done {
		return
	}
	r.done++
	status := e.Duration.Round(time.Millisecond).String()
	switch {
	case e.Err != nil:
		status = "failed: " + e.Err.Error()
	case e.Cached:
		status = "cached"
	case e.Skipped:
		status = "skipped"
	}
	fmt.Fprintf(r.w, "[%d/%d] %s (%s)\n", r.done, len(pipeline.Stages), Label(e.Stage), status)
}

func (r *CIReporter) Finish() {
	fmt.Fprintln(r.w, "Diagram generation complete")
}
