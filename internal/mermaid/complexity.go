package mermaid

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	mindmapNode   = regexp.MustCompile(`\(([^)]+)\)`)
	flowchartBox  = regexp.MustCompile(`([A-Z]\d*)\[([^\]]+)\]`)
	flowchartDiam = regexp.MustCompile(`([A-Z]\d*)\{([^}]+)\}`)
	timelineEntry = regexp.MustCompile(`([^:]+):\s*(.+)`)
	networkNode   = regexp.MustCompile(`([A-Z])\[([^\]]+)\]`)
	networkEdge   = regexp.MustCompile(`(---|-->)`)
)

// kindBonus is the score added for the layout cost of each diagram family.
var kindBonus = map[Kind]float64{
	KindMindmap:   5,
	KindFlowchart: 8,
	KindTimeline:  4,
	KindNetwork:   10,
}

const defaultKindBonus = 5

// ComplexityReport describes how dense a diagram is and how tall the viewer
// should be to show it.
type ComplexityReport struct {
	Kind              Kind    `json:"type"`
	NodeCount         int     `json:"node_count"`
	EdgeCount         int     `json:"edge_count"`
	TextDensity       float64 `json:"text_density"`
	MaxDepth          int     `json:"max_depth"`
	BranchingFactor   float64 `json:"branching_factor"`
	Score             int     `json:"complexity_score"`
	RecommendedHeight int     `json:"recommended_height"`
	RecommendedWidth  string  `json:"recommended_width"`
}

// HeightPolicy maps a complexity score and node count to a viewer height in
// pixels.
type HeightPolicy struct {
	// BaseHeight is used for scores up to the first band boundary.
	BaseHeight int
	// BandStep is added for every 20-point score band above the first.
	BandStep int
	// PerNodeHeight sets a floor of nodes*PerNodeHeight.
	PerNodeHeight int
	// MaxHeight caps the result.
	MaxHeight int
}

const (
	scoreBandWidth = 20
	maxScoreBand   = 4
)

// DefaultHeightPolicy returns bands of 1000, 1400, 1800, 2200 and 2600px,
// a 100px per-node floor and a 2500px ceiling.
func DefaultHeightPolicy() HeightPolicy {
	return HeightPolicy{
		BaseHeight:    1000,
		BandStep:      400,
		PerNodeHeight: 100,
		MaxHeight:     2500,
	}
}

// Analyze measures code with the default height policy.
func Analyze(code string) ComplexityReport {
	return DefaultHeightPolicy().Analyze(code)
}

// Analyze detects the diagram kind, counts nodes and edges, scores the
// result on a 0..100 scale and recommends a viewer height. It never fails;
// unrecognized text yields an unknown-kind report with zero counts.
func (hp HeightPolicy) Analyze(code string) ComplexityReport {
	kind := DetectKind(code)

	nodes := make(map[string]struct{})
	edges := 0
	textLen := 0
	maxDepth := 0

	for _, rawLine := range strings.Split(code, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, "%%") {
			continue
		}
		if d := indentDepth(rawLine); d > maxDepth {
			maxDepth = d
		}

		switch kind {
		case KindMindmap:
			for _, m := range mindmapNode.FindAllStringSubmatch(line, -1) {
				nodes[m[1]] = struct{}{}
				textLen += utf8.RuneCountInString(m[1])
			}
		case KindFlowchart:
			for _, re := range []*regexp.Regexp{flowchartBox, flowchartDiam} {
				for _, m := range re.FindAllStringSubmatch(line, -1) {
					nodes[m[1]] = struct{}{}
					textLen += utf8.RuneCountInString(m[2])
				}
			}
			edges += strings.Count(line, "-->")
		case KindTimeline:
			for _, m := range timelineEntry.FindAllStringSubmatch(line, -1) {
				nodes[m[1]] = struct{}{}
				textLen += utf8.RuneCountInString(m[2])
			}
		case KindNetwork:
			for _, m := range networkNode.FindAllStringSubmatch(line, -1) {
				nodes[m[1]] = struct{}{}
				textLen += utf8.RuneCountInString(m[2])
			}
			edges += len(networkEdge.FindAllStringIndex(line, -1))
		}
	}

	n := len(nodes)
	report := ComplexityReport{
		Kind:             kind,
		NodeCount:        n,
		EdgeCount:        edges,
		MaxDepth:         maxDepth,
		TextDensity:      float64(textLen) / float64(max(n, 1)),
		RecommendedWidth: "100%",
	}
	if n > 0 {
		report.BranchingFactor = float64(edges) / float64(n)
	}
	report.Score = score(report)
	report.RecommendedHeight = hp.height(report.Score, n)
	return report
}

// indentDepth converts leading whitespace into nesting levels of two
// columns each. Tabs count as one level.
func indentDepth(line string) int {
	width := 0
	for _, r := range line {
		switch r {
		case ' ':
			width++
		case '\t':
			width += 2
		default:
			return width / 2
		}
	}
	return width / 2
}

func score(r ComplexityReport) int {
	var s float64

	switch n := float64(r.NodeCount); {
	case r.NodeCount <= 5:
		s += n * 3
	case r.NodeCount <= 15:
		s += 15 + (n-5)*1.5
	default:
		s += 30
	}

	s += math.Min(float64(r.MaxDepth)*5, 25)

	switch {
	case r.TextDensity > 50:
		s += 20
	case r.TextDensity > 25:
		s += 15
	case r.TextDensity > 15:
		s += 10
	default:
		s += r.TextDensity / 3
	}

	s += math.Min(r.BranchingFactor*10, 15)

	if bonus, ok := kindBonus[r.Kind]; ok {
		s += bonus
	} else {
		s += defaultKindBonus
	}

	return min(max(int(s), 0), 100)
}

func (hp HeightPolicy) height(score, nodes int) int {
	band := 0
	if score > scoreBandWidth {
		band = min((score-1)/scoreBandWidth, maxScoreBand)
	}
	h := hp.BaseHeight + band*hp.BandStep
	h = max(h, nodes*hp.PerNodeHeight)
	if hp.MaxHeight > 0 {
		h = min(h, hp.MaxHeight)
	}
	return h
}
