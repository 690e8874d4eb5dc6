// Package compiler projects an editing graph onto the backend's workflow definition.
package compiler

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/agentdeck/pkg/domain"
	"github.com/aretw0/agentdeck/pkg/registry"
)

// Source is what Compile reads. *graph.Graph satisfies it.
type Source interface {
	Nodes() []domain.Node
	Edges() []domain.Edge
}

// Compile converts the graph into a WorkflowDefinition. It is pure and total:
// nodes and edges are emitted in insertion order, a missing kind becomes llm
// and a missing config becomes {label: <derived label>}. No structural
// validation is done; the backend owns execution semantics.
func Compile(src Source) domain.WorkflowDefinition {
	nodes := src.Nodes()
	edges := src.Edges()

	def := domain.WorkflowDefinition{
		Nodes: make([]domain.WorkflowNode, 0, len(nodes)),
		Edges: make([]domain.WorkflowEdge, 0, len(edges)),
	}
	for _, n := range nodes {
		kind := n.Kind
		if kind == "" {
			kind = domain.KindLLM
		}
		cfg := n.Config.Clone()
		if len(cfg) == 0 {
			cfg = domain.Config{domain.KeyLabel: registry.Label(kind)}
		}
		def.Nodes = append(def.Nodes, domain.WorkflowNode{
			ID:     n.ID,
			Type:   string(kind),
			Config: cfg,
		})
	}
	for _, e := range edges {
		def.Edges = append(def.Edges, domain.WorkflowEdge{Source: e.Source, Target: e.Target})
	}
	return def
}

// Marshal compiles src and encodes it as indented JSON.
func Marshal(src Source) ([]byte, error) {
	def := Compile(src)
	return json.MarshalIndent(def, "", "  ")
}

// Decode parses a compiled workflow definition. Only the shape is checked:
// every node needs an id. Dangling edges are left for the backend to judge.
func Decode(data []byte) (*domain.WorkflowDefinition, error) {
	var def domain.WorkflowDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse workflow: %w", err)
	}
	for i, n := range def.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("workflow node %d missing id", i)
		}
	}
	if def.Nodes == nil {
		def.Nodes = []domain.WorkflowNode{}
	}
	if def.Edges == nil {
		def.Edges = []domain.WorkflowEdge{}
	}
	return &def, nil
}
