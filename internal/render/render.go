// Package render turns diagram text and markdown summaries into HTML.
package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"

	"github.com/ziadkadry99/neuromind/internal/mermaid"
)

//go:embed viewer.html
var viewerTemplate string

const (
	// CompactHeight is the fixed height of the compact size mode.
	CompactHeight = 800
	// MinAutoHeight is the smallest height of the auto size mode.
	MinAutoHeight = 1000
	// MaxHeight caps the large size mode.
	MaxHeight = 2500
	// largeFactor scales the recommended height for the large size mode.
	largeFactor = 1.8

	DefaultMermaidURL     = "https://cdn.jsdelivr.net/npm/mermaid@10.6.1/dist/mermaid.min.js"
	DefaultFontAwesomeURL = "https://cdnjs.cloudflare.com/ajax/libs/font-awesome/6.0.0/css/all.min.css"
)

// Sizes are the viewer heights offered by the size buttons.
type Sizes struct {
	Compact int
	Auto    int
	Large   int
}

// SizesFor derives the three size modes from a recommended height.
func SizesFor(recommended int) Sizes {
	return Sizes{
		Compact: CompactHeight,
		Auto:    max(recommended, MinAutoHeight),
		Large:   min(int(float64(recommended)*largeFactor), MaxHeight),
	}
}

// Renderer produces the diagram viewer page and summary HTML.
type Renderer struct {
	mermaidURL     string
	fontAwesomeURL string
	viewer         *template.Template
	md             goldmark.Markdown
}

// New creates a renderer. Empty asset URLs fall back to the public CDNs.
func New(mermaidURL, fontAwesomeURL string) (*Renderer, error) {
	if mermaidURL == "" {
		mermaidURL = DefaultMermaidURL
	}
	if fontAwesomeURL == "" {
		fontAwesomeURL = DefaultFontAwesomeURL
	}
	tmpl, err := template.New("viewer").Parse(viewerTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing viewer template: %w", err)
	}
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
	)
	return &Renderer{
		mermaidURL:     mermaidURL,
		fontAwesomeURL: fontAwesomeURL,
		viewer:         tmpl,
		md:             md,
	}, nil
}

type viewerData struct {
	Title          string
	Code           string
	Report         mermaid.ComplexityReport
	MermaidURL     string
	FontAwesomeURL string
	Sizes
}

// Viewer returns a standalone HTML document that renders code with the
// Mermaid library, sized from report. The diagram text appears escaped in
// the markup and as a string literal for the copy button.
func (r *Renderer) Viewer(code string, report mermaid.ComplexityReport) (string, error) {
	data := viewerData{
		Title:          report.Kind.Title(),
		Code:           code,
		Report:         report,
		MermaidURL:     r.mermaidURL,
		FontAwesomeURL: r.fontAwesomeURL,
		Sizes:          SizesFor(report.RecommendedHeight),
	}
	var buf bytes.Buffer
	if err := r.viewer.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering viewer: %w", err)
	}
	return buf.String(), nil
}

// SummaryHTML renders a markdown summary. Raw HTML in the input is
// dropped.
func (r *Renderer) SummaryHTML(markdown string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("rendering summary: %w", err)
	}
	return template.HTML(buf.String()), nil
}
