package generator

import "github.com/ziadkadry99/neuromind/internal/mermaid"

const summaryPromptTemplate = `Please provide a comprehensive summary of the following text.
Focus on the main ideas, key concepts, and important details that would help someone
understand the content quickly. Make it suitable for neurodiverse learners by using
clear, structured language:

%s`

const mindmapPromptTemplate = `Create a Mermaid.js mindmap with PERFECT syntax for neurodiverse learners.

CRITICAL RULES:
1. NO markdown code blocks - do NOT include ` + "```" + `
2. Start with exactly: mindmap
3. Second line must be: root(Topic Name)
4. Use exactly 2 spaces for main branches, 6 spaces for sub-items
5. All labels in parentheses: (Label Name)
6. Icons use ::icon(fa fa-name) and go UNDER branch names
7. Maximum 4 main branches with 2-4 sub-items each

EXACT FORMAT:
mindmap
  root(Main Topic)
    (Branch 1)
      ::icon(fa fa-lightbulb)
      (Sub Item A)
      (Sub Item B)
    (Branch 2)
      ::icon(fa fa-cogs)
      (Sub Item C)
      (Sub Item D)

FORBIDDEN:
- No ` + "```" + ` or markdown
- No extra indentation
- No special characters in labels
- No more than 4 main branches

Text to convert: %s

Return ONLY the mindmap code without any markdown formatting.`

const flowchartPromptTemplate = `Create a Mermaid.js flowchart for neurodiverse learners.

CRITICAL RULES:
1. Start with: flowchart TD
2. Use simple node IDs: A, B, C, etc.
3. Node labels in brackets: A[Start Here]
4. Arrows: A --> B
5. Decisions: C{Question?}
6. Decision paths: C -->|Yes| D
7. Maximum 8-10 nodes total
8. Clear, simple language

EXACT FORMAT:
flowchart TD
    A[Starting Point] --> B[Next Step]
    B --> C{Decision Point?}
    C -->|Yes| D[Path A]
    C -->|No| E[Path B]
    D --> F[Final Result]
    E --> F

Text to convert: %s

Return ONLY the flowchart code without markdown formatting.`

const timelinePromptTemplate = `Create a Mermaid.js timeline for neurodiverse learners.

CRITICAL RULES:
1. Start with: timeline
2. Add title: title Timeline Name
3. Use sections if multiple periods
4. Format: Period : Event description
5. Keep events brief and clear
6. Maximum 6-8 events total
7. Chronological order

EXACT FORMAT:
timeline
    title Article Timeline
    section Early Period
        Event 1 : Brief description
        Event 2 : Another event
    section Later Period
        Event 3 : More recent event
        Event 4 : Latest development

Text to convert: %s

Return ONLY the timeline code without markdown formatting.`

const networkPromptTemplate = `Create a Mermaid.js concept network for neurodiverse learners.

CRITICAL RULES:
1. Start with: graph TD
2. Use simple node IDs: A, B, C, etc.
3. Node labels in brackets: A[Concept Name]
4. Connections: A --- B or A --> B
5. Show relationships between concepts
6. Maximum 8 nodes total
7. Add styling for key nodes

EXACT FORMAT:
graph TD
    A[Main Concept] --- B[Related Idea]
    A --- C[Another Concept]
    B --- D[Supporting Point]
    C --- E[Detail]
    style A fill:#e1f5fe
    style B fill:#f3e5f5

Text to convert: %s

Return ONLY the graph code without markdown formatting.`

// diagramPrompts holds one template per diagram kind. Each takes the
// truncated article text as its only argument.
var diagramPrompts = map[mermaid.Kind]string{
	mermaid.KindMindmap:   mindmapPromptTemplate,
	mermaid.KindFlowchart: flowchartPromptTemplate,
	mermaid.KindTimeline:  timelinePromptTemplate,
	mermaid.KindNetwork:   networkPromptTemplate,
}
