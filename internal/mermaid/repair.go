package mermaid

import (
	"strings"
)

// FallbackMindmap is returned when the model output is too thin to repair.
const FallbackMindmap = "mindmap\n" +
	"  root(Article Content)\n" +
	"    (Main Topics)\n" +
	"      (Key Point 1)\n" +
	"      (Key Point 2)\n" +
	"    (Details)\n" +
	"      (Important Info)\n" +
	"      (Supporting Facts)"

const (
	rootIndent   = "  "
	branchIndent = "    "
	leafIndent   = "      "
	iconPrefix   = "::icon("
)

// DefaultBranchKeywords mark a parenthesized line as a top-level branch.
var DefaultBranchKeywords = []string{
	"marketing", "strategy", "content", "advertising", "automation",
	"analytics", "creation", "search", "social",
}

// RepairPolicy decides how raw mindmap lines are classified. The zero value
// is not useful; start from DefaultRepairPolicy.
type RepairPolicy struct {
	// BranchKeywords promote a line to a top-level branch when its
	// lowercased label contains any of them.
	BranchKeywords []string
	// MaxBranches caps the number of top-level branches.
	MaxBranches int
	// MinLines is the smallest acceptable output, declaration included.
	MinLines int
	// Fallback replaces output shorter than MinLines.
	Fallback string
}

// DefaultRepairPolicy returns the stock classification rules.
func DefaultRepairPolicy() RepairPolicy {
	return RepairPolicy{
		BranchKeywords: append([]string(nil), DefaultBranchKeywords...),
		MaxBranches:    4,
		MinLines:       3,
		Fallback:       FallbackMindmap,
	}
}

// RepairResult is the outcome of a repair pass.
type RepairResult struct {
	Code         string
	Root         string
	Branches     int
	NestedItems  int
	Dropped      int
	UsedFallback bool
}

// Repair normalizes mindmap text with the default policy.
func Repair(raw string) string {
	return DefaultRepairPolicy().Repair(raw).Code
}

// Repair rewrites raw model output into a mindmap with a single root,
// a bounded number of branches and nested items beneath them. Output that
// is too short is replaced by the policy's fallback skeleton.
func (p RepairPolicy) Repair(raw string) RepairResult {
	cleaned := strings.ReplaceAll(raw, "```mermaid", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var res RepairResult
	out := []string{"mindmap"}
	rootFound := false
	currentBranch := ""

	for _, rawLine := range strings.Split(cleaned, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || line == "mindmap" || strings.Contains(line, "```") {
			continue
		}

		if !rootFound {
			if topic, ok := rootTopic(line); ok {
				out = append(out, rootIndent+"root("+topic+")")
				res.Root = topic
				rootFound = true
				continue
			}
		}

		switch {
		case strings.HasPrefix(line, iconPrefix):
			if currentBranch == "" {
				res.Dropped++
				continue
			}
			out = append(out, leafIndent+line)
		case isParenthesized(line):
			label := strings.Trim(line, "()")
			if label == "" {
				res.Dropped++
				continue
			}
			if p.isBranch(label) && res.Branches < p.MaxBranches {
				out = append(out, branchIndent+"("+label+")")
				currentBranch = label
				res.Branches++
			} else {
				out = append(out, leafIndent+"("+label+")")
				res.NestedItems++
			}
		default:
			res.Dropped++
		}
	}

	if len(out) < p.MinLines {
		res.Code = p.fallback()
		res.UsedFallback = true
		return res
	}
	res.Code = strings.Join(out, "\n")
	return res
}

func (p RepairPolicy) isBranch(label string) bool {
	lower := strings.ToLower(label)
	for _, kw := range p.BranchKeywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func (p RepairPolicy) fallback() string {
	if p.Fallback == "" {
		return FallbackMindmap
	}
	return p.Fallback
}

func isParenthesized(line string) bool {
	return strings.HasPrefix(line, "(") && strings.HasSuffix(line, ")")
}

// rootTopic accepts "(Topic)", "root(Topic)" and "root((Topic))".
func rootTopic(line string) (string, bool) {
	switch {
	case isParenthesized(line):
	case strings.HasPrefix(line, "root(") && strings.HasSuffix(line, ")"):
		line = strings.TrimPrefix(line, "root")
	default:
		return "", false
	}
	topic := strings.Trim(line, "()")
	if topic == "" {
		return "", false
	}
	return topic, true
}
