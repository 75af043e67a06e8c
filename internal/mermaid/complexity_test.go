package mermaid

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"testing"
)

func TestDetectKind(t *testing.T) {
	tests := []struct {
		code string
		want Kind
	}{
		{"mindmap\n  root(A)", KindMindmap},
		{"flowchart TD\n A --> B", KindFlowchart},
		{"timeline\n title T", KindTimeline},
		{"graph TD\n A --- B", KindNetwork},
		{"graph LR mentions mindmap later", KindMindmap},
		{"sequenceDiagram", KindUnknown},
		{"", KindUnknown},
	}
	for _, tt := range tests {
		if got := DetectKind(tt.code); got != tt.want {
			t.Errorf("DetectKind(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"mindmap", KindMindmap, false},
		{"Mind Map", KindMindmap, false},
		{"FLOWCHART", KindFlowchart, false},
		{"timeline", KindTimeline, false},
		{"Network Diagram", KindNetwork, false},
		{"graph", KindNetwork, false},
		{"pie", "", true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		kind      Kind
		nodes     int
		edges     int
		depth     int
		density   float64
		branching float64
		score     int
		height    int
	}{
		{
			name:   "empty",
			code:   "",
			kind:   KindUnknown,
			score:  5,
			height: 1000,
		},
		{
			name:    "fallback mindmap",
			code:    FallbackMindmap,
			kind:    KindMindmap,
			nodes:   7,
			depth:   3,
			density: 85.0 / 7,
			score:   42,
			height:  1800,
		},
		{
			name:      "flowchart",
			code:      "flowchart TD\n    A[Start] --> B{Decision}\n    B -->|Yes| C[Do thing]\n    B -->|No| D[Stop]",
			kind:      KindFlowchart,
			nodes:     4,
			edges:     3,
			depth:     2,
			density:   6.25,
			branching: 0.75,
			score:     39,
			height:    1400,
		},
		{
			name:      "network",
			code:      "graph TD\n    A[Concept A] --- B[Concept B]\n    A --> C[Concept C]\n    B --- D[Concept D]",
			kind:      KindNetwork,
			nodes:     4,
			edges:     3,
			depth:     2,
			density:   9,
			branching: 0.75,
			score:     42,
			height:    1800,
		},
		{
			name:    "timeline",
			code:    "timeline\n    title History\n    2020 : Start\n    2021 : Growth",
			kind:    KindTimeline,
			nodes:   2,
			depth:   2,
			density: 5.5,
			score:   21,
			height:  1400,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Analyze(tt.code)
			if r.Kind != tt.kind {
				t.Errorf("kind = %q, want %q", r.Kind, tt.kind)
			}
			if r.NodeCount != tt.nodes {
				t.Errorf("nodes = %d, want %d", r.NodeCount, tt.nodes)
			}
			if r.EdgeCount != tt.edges {
				t.Errorf("edges = %d, want %d", r.EdgeCount, tt.edges)
			}
			if r.MaxDepth != tt.depth {
				t.Errorf("depth = %d, want %d", r.MaxDepth, tt.depth)
			}
			if math.Abs(r.TextDensity-tt.density) > 1e-9 {
				t.Errorf("density = %f, want %f", r.TextDensity, tt.density)
			}
			if math.Abs(r.BranchingFactor-tt.branching) > 1e-9 {
				t.Errorf("branching = %f, want %f", r.BranchingFactor, tt.branching)
			}
			if r.Score != tt.score {
				t.Errorf("score = %d, want %d", r.Score, tt.score)
			}
			if r.RecommendedHeight != tt.height {
				t.Errorf("height = %d, want %d", r.RecommendedHeight, tt.height)
			}
			if r.RecommendedWidth != "100%" {
				t.Errorf("width = %q, want 100%%", r.RecommendedWidth)
			}
		})
	}
}

func flatMindmap(n int) string {
	var b strings.Builder
	b.WriteString("mindmap\n")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "(N%d)\n", i)
	}
	return b.String()
}

func TestAnalyzeHeightFloorAndCap(t *testing.T) {
	r := Analyze(flatMindmap(20))
	if r.Score != 35 {
		t.Errorf("score = %d, want 35", r.Score)
	}
	if r.RecommendedHeight != 2000 {
		t.Errorf("height = %d, want per-node floor 2000", r.RecommendedHeight)
	}

	r = Analyze(flatMindmap(30))
	if r.RecommendedHeight != 2500 {
		t.Errorf("height = %d, want cap 2500", r.RecommendedHeight)
	}
}

func TestAnalyzeBounds(t *testing.T) {
	var b strings.Builder
	b.WriteString("graph TD\n")
	for i := 0; i < 26; i++ {
		id := string(rune('A' + i))
		fmt.Fprintf(&b, "%s%s[%s] --- A[x] --> B[y] --- C[z]\n", strings.Repeat(" ", 20), id, strings.Repeat("long label ", 10))
	}
	codes := []string{"", "%% only a comment", b.String(), FallbackMindmap, flatMindmap(100)}
	for _, code := range codes {
		r := Analyze(code)
		if r.Score < 0 || r.Score > 100 {
			t.Errorf("score %d out of range", r.Score)
		}
		if r.RecommendedHeight < 1000 || r.RecommendedHeight > 2500 {
			t.Errorf("height %d out of range", r.RecommendedHeight)
		}
	}
	if r := Analyze(b.String()); r.Score != 100 {
		t.Errorf("dense network score = %d, want 100", r.Score)
	}
}

func TestAnalyzeSkipsComments(t *testing.T) {
	r := Analyze("mindmap\n%% (Ignored)\n  root(A)")
	if r.NodeCount != 1 {
		t.Errorf("nodes = %d, want 1", r.NodeCount)
	}
}

func TestHeightPolicyCustom(t *testing.T) {
	hp := HeightPolicy{BaseHeight: 600, BandStep: 100, PerNodeHeight: 10, MaxHeight: 900}
	r := hp.Analyze(FallbackMindmap)
	if r.RecommendedHeight != 800 {
		t.Errorf("height = %d, want 800", r.RecommendedHeight)
	}
}

func TestComplexityReportJSON(t *testing.T) {
	data, err := json.Marshal(Analyze(FallbackMindmap))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{`"type":"mindmap"`, `"node_count":7`, `"complexity_score":42`, `"recommended_height":1800`, `"recommended_width":"100%"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("JSON %s missing %s", data, key)
		}
	}
}
