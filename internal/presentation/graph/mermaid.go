package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/agentdeck/pkg/domain"
)

// GraphOverlay contains run state to highlight on the graph.
type GraphOverlay struct {
	VisitedNodes []string
	CurrentNode  string
}

// GenerateMermaid produces a Mermaid flowchart of a workflow definition.
// Node shapes follow the kind:
// - llm: [Rectangle]
// - tool: [[Subroutine]]
// - hitl: [/Parallelogram/]
// - router: {Rhombus}
// - python_repl: [(Cylinder)]
// Nodes without incoming edges are entry points and get a stadium shape.
func GenerateMermaid(def *domain.WorkflowDefinition, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	if def == nil {
		return sb.String()
	}

	incoming := make(map[string]bool, len(def.Edges))
	for _, e := range def.Edges {
		if e.Source != e.Target {
			incoming[e.Target] = true
		}
	}

	for _, node := range def.Nodes {
		safeID := sanitizeMermaidID(node.ID)
		opener, closer := shape(node.Type)
		if !incoming[node.ID] && opener == "[" {
			opener, closer = "([", "])"
		}

		label := node.Config.Label()
		if label == "" {
			label = node.ID
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, escapeLabel(label), closer)
	}

	for _, e := range def.Edges {
		fmt.Fprintf(&sb, "    %s --> %s\n", sanitizeMermaidID(e.Source), sanitizeMermaidID(e.Target))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text for contrast on light fills regardless of theme.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeMermaidID(id)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}

		if overlay.CurrentNode != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode))
		}
	}

	return sb.String()
}

func shape(kind string) (string, string) {
	switch domain.NodeKind(kind) {
	case domain.KindTool:
		return "[[", "]]"
	case domain.KindHITL:
		return "[/", "/]"
	case domain.KindRouter:
		return "{", "}"
	case domain.KindPythonREPL:
		return "[(", ")]"
	default:
		return "[", "]"
	}
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
