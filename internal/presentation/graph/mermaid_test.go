package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/agentdeck/internal/presentation/graph"
	"github.com/aretw0/agentdeck/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func node(id, typ, label string) domain.WorkflowNode {
	cfg := domain.Config{}
	if label != "" {
		cfg["label"] = label
	}
	return domain.WorkflowNode{ID: id, Type: typ, Config: cfg}
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		def      *domain.WorkflowDefinition
		contains []string
		excludes []string
	}{
		{
			name: "Kind Shapes",
			def: &domain.WorkflowDefinition{
				Nodes: []domain.WorkflowNode{
					node("root", "llm", "Root"),
					node("n1", "llm", "Write"),
					node("n2", "tool", "Search"),
					node("n3", "hitl", "Approve"),
					node("n4", "router", "Route"),
					node("n5", "python_repl", "Code"),
				},
				Edges: []domain.WorkflowEdge{
					{Source: "root", Target: "n1"},
					{Source: "root", Target: "n2"},
					{Source: "root", Target: "n3"},
					{Source: "root", Target: "n4"},
					{Source: "root", Target: "n5"},
				},
			},
			contains: []string{
				`root(["Root"])`,
				`n1["Write"]`,
				`n2[["Search"]]`,
				`n3[/"Approve"/]`,
				`n4{"Route"}`,
				`n5[("Code")]`,
				"root --> n1",
			},
		},
		{
			name: "Label Fallback And Sanitization",
			def: &domain.WorkflowDefinition{
				Nodes: []domain.WorkflowNode{node("dnd-node.1", "tool", ""), node("b", "llm", `say "hi"`)},
				Edges: []domain.WorkflowEdge{{Source: "b", Target: "dnd-node.1"}},
			},
			contains: []string{
				`dnd_node_1[["dnd-node.1"]]`,
				`b(["say 'hi'"])`,
				"b --> dnd_node_1",
			},
		},
		{
			name: "Self Loop Keeps Entry Shape",
			def: &domain.WorkflowDefinition{
				Nodes: []domain.WorkflowNode{node("a", "llm", "A")},
				Edges: []domain.WorkflowEdge{{Source: "a", Target: "a"}},
			},
			contains: []string{`a(["A"])`, "a --> a"},
		},
		{
			name:     "Nil Definition",
			def:      nil,
			contains: []string{"graph TD"},
			excludes: []string{"-->"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.def, nil)
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, bad := range tt.excludes {
				assert.NotContains(t, got, bad)
			}
			assert.NotContains(t, got, "classDef")
		})
	}
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	def := &domain.WorkflowDefinition{
		Nodes: []domain.WorkflowNode{node("n1", "llm", ""), node("n2", "hitl", "")},
		Edges: []domain.WorkflowEdge{{Source: "n1", Target: "n2"}},
	}

	got := graph.GenerateMermaid(def, &graph.GraphOverlay{
		VisitedNodes: []string{"n1", "n1", "n2"},
		CurrentNode:  "n2",
	})

	assert.Contains(t, got, "classDef visited")
	assert.Equal(t, 1, strings.Count(got, "class n1 visited;"))
	assert.Contains(t, got, "class n2 current;")
}
