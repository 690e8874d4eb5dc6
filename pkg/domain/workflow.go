package domain

// WorkflowDefinition is the backend-executable projection of a graph.
// Its JSON shape is the compiler's output contract and must stay stable:
//
//	{ "nodes": [{"id","type","config"}], "edges": [{"source","target"}] }
type WorkflowDefinition struct {
	Nodes []WorkflowNode `json:"nodes" yaml:"nodes" validate:"dive"`
	Edges []WorkflowEdge `json:"edges" yaml:"edges" validate:"dive"`
}

// WorkflowNode is one compiled node.
type WorkflowNode struct {
	ID     string `json:"id" yaml:"id" validate:"required"`
	Type   string `json:"type" yaml:"type" validate:"required"`
	Config Config `json:"config" yaml:"config"`
}

// WorkflowEdge is one compiled edge.
type WorkflowEdge struct {
	Source string `json:"source" yaml:"source" validate:"required"`
	Target string `json:"target" yaml:"target" validate:"required"`
}

// Node returns the compiled node with the given id.
func (w *WorkflowDefinition) Node(id string) (WorkflowNode, bool) {
	for _, n := range w.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return WorkflowNode{}, false
}

// Clone returns a deep copy of the definition.
func (w *WorkflowDefinition) Clone() *WorkflowDefinition {
	if w == nil {
		return nil
	}
	out := &WorkflowDefinition{
		Nodes: make([]WorkflowNode, len(w.Nodes)),
		Edges: make([]WorkflowEdge, len(w.Edges)),
	}
	for i, n := range w.Nodes {
		n.Config = n.Config.Clone()
		out.Nodes[i] = n
	}
	copy(out.Edges, w.Edges)
	return out
}
