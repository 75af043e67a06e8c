// Package mermaid repairs and measures Mermaid diagram text produced by the
// language model.
package mermaid

import (
	"fmt"
	"strings"
)

// Kind identifies a diagram family.
type Kind string

const (
	KindMindmap   Kind = "mindmap"
	KindFlowchart Kind = "flowchart"
	KindTimeline  Kind = "timeline"
	KindNetwork   Kind = "network"
	KindUnknown   Kind = "unknown"
)

// Kinds lists the diagram kinds that can be generated, in display order.
var Kinds = []Kind{KindMindmap, KindFlowchart, KindTimeline, KindNetwork}

// declarations maps each kind to the keyword that opens its notation, in
// detection order.
var declarations = []struct {
	keyword string
	kind    Kind
}{
	{"mindmap", KindMindmap},
	{"flowchart", KindFlowchart},
	{"timeline", KindTimeline},
	{"graph", KindNetwork},
}

// ParseKind converts a user-supplied name into a Kind. Display titles such
// as "Mind Map" and "Network Diagram" are accepted as well.
func ParseKind(s string) (Kind, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(norm)
	switch norm {
	case "mindmap":
		return KindMindmap, nil
	case "flowchart", "flow", "process", "processflow":
		return KindFlowchart, nil
	case "timeline":
		return KindTimeline, nil
	case "network", "networkdiagram", "graph":
		return KindNetwork, nil
	}
	return "", fmt.Errorf("unknown diagram type %q: must be one of mindmap, flowchart, timeline, network", s)
}

// DetectKind reports the kind of the diagram text. The first declaration
// keyword found anywhere in the text wins, checked in the fixed order
// mindmap, flowchart, timeline, graph.
func DetectKind(code string) Kind {
	for _, d := range declarations {
		if strings.Contains(code, d.keyword) {
			return d.kind
		}
	}
	return KindUnknown
}

// Keyword returns the declaration keyword that opens diagrams of kind k.
func (k Kind) Keyword() string {
	for _, d := range declarations {
		if d.kind == k {
			return d.keyword
		}
	}
	return ""
}

// Title is the human-readable name of the kind.
func (k Kind) Title() string {
	switch k {
	case KindMindmap:
		return "Mind Map"
	case KindFlowchart:
		return "Flowchart"
	case KindTimeline:
		return "Timeline"
	case KindNetwork:
		return "Network Diagram"
	}
	return "Diagram"
}

// Icon is the emoji shown next to the kind in the UI.
func (k Kind) Icon() string {
	switch k {
	case KindMindmap:
		return "🧠"
	case KindFlowchart:
		return "🔄"
	case KindTimeline:
		return "⏰"
	case KindNetwork:
		return "🕸️"
	}
	return "📊"
}

// Description summarizes what the kind is for.
func (k Kind) Description() string {
	switch k {
	case KindMindmap:
		return "Hierarchical visualization of main topics and subtopics"
	case KindFlowchart:
		return "Step-by-step process or workflow visualization"
	case KindTimeline:
		return "Chronological sequence of events or developments"
	case KindNetwork:
		return "Relationships and connections between concepts"
	}
	return ""
}

// BestFor names the kind of content the diagram suits.
func (k Kind) BestFor() string {
	switch k {
	case KindMindmap:
		return "Articles, educational content, concept exploration"
	case KindFlowchart:
		return "Tutorials, guides, procedures, how-to articles"
	case KindTimeline:
		return "Historical content, news, project updates"
	case KindNetwork:
		return "Complex topics, interconnected ideas, research papers"
	}
	return ""
}

// Uses lists the situations the kind is good at.
func (k Kind) Uses() []string {
	switch k {
	case KindMindmap:
		return []string{
			"Breaking down complex topics into digestible parts",
			"Showing relationships between main ideas and details",
			"Creating study guides and learning materials",
			"Brainstorming and idea organization",
		}
	case KindFlowchart:
		return []string{
			"Explaining processes and procedures",
			"Decision-making workflows",
			"Tutorial step-by-step guides",
			"Problem-solving approaches",
		}
	case KindTimeline:
		return []string{
			"Historical events and developments",
			"Project milestones and phases",
			"News story progression",
			"Evolution of concepts or technologies",
		}
	case KindNetwork:
		return []string{
			"Showing interconnected concepts",
			"Mapping relationships between ideas",
			"Research paper concept mapping",
			"Complex system visualization",
		}
	}
	return nil
}
