package graph

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/aretw0/agentdeck/pkg/domain"
	"github.com/aretw0/agentdeck/pkg/registry"
)

// Graph is the in-memory set of nodes and edges being edited.
type Graph struct {
	registry *registry.Registry
	prefix   string
	seq      int

	order []string
	nodes map[string]*domain.Node
	edges []domain.Edge
}

// Option configures a Graph.
type Option func(*Graph)

// WithRegistry sets the registry used to seed new nodes.
func WithRegistry(r *registry.Registry) Option {
	return func(g *Graph) {
		g.registry = r
	}
}

// WithIDPrefix sets the prefix of generated node ids (default "n").
func WithIDPrefix(prefix string) Option {
	return func(g *Graph) {
		g.prefix = prefix
	}
}

// New creates an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		registry: registry.Default,
		prefix:   "n",
		nodes:    make(map[string]*domain.Node),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// nextID allocates a fresh id. The counter only moves forward, so ids of
// removed nodes are never handed out again.
func (g *Graph) nextID() string {
	for {
		g.seq++
		id := g.prefix + strconv.Itoa(g.seq)
		if _, taken := g.nodes[id]; !taken {
			return id
		}
	}
}

// AddNode places a new node of the given kind. Unknown kinds degrade to a
// labeled llm node. It never fails.
func (g *Graph) AddNode(kind domain.NodeKind, pos domain.Position) domain.Node {
	spec := g.registry.Resolve(string(kind))
	node := &domain.Node{
		ID:       g.nextID(),
		Kind:     spec.Kind,
		Position: pos,
		Config:   g.registry.DefaultConfig(string(kind)),
	}
	g.nodes[node.ID] = node
	g.order = append(g.order, node.ID)
	return copyNode(node)
}

// Connect appends an edge from source to target. Both nodes must exist.
// Duplicates and self-loops are permitted.
func (g *Graph) Connect(source, target string) (domain.Edge, error) {
	if _, ok := g.nodes[source]; !ok {
		return domain.Edge{}, &domain.ReferenceError{Source: source, Target: target, Missing: source}
	}
	if _, ok := g.nodes[target]; !ok {
		return domain.Edge{}, &domain.ReferenceError{Source: source, Target: target, Missing: target}
	}
	e := domain.Edge{Source: source, Target: target}
	g.edges = append(g.edges, e)
	return e, nil
}

// Disconnect removes every edge from source to target and returns how many
// were removed.
func (g *Graph) Disconnect(source, target string) int {
	kept := g.edges[:0]
	removed := 0
	for _, e := range g.edges {
		if e.Source == source && e.Target == target {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	g.edges = kept
	return removed
}

// RemoveNode deletes a node together with every edge touching it.
// It is a no-op when the id is absent.
func (g *Graph) RemoveNode(id string) {
	if _, ok := g.nodes[id]; !ok {
		return
	}
	delete(g.nodes, id)

	for i, nid := range g.order {
		if nid == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}

	kept := g.edges[:0]
	for _, e := range g.edges {
		if e.Source == id || e.Target == id {
			continue
		}
		kept = append(kept, e)
	}
	g.edges = kept
}

// UpdateNodeConfig shallow-merges patch into the node's config.
// A patch with a value that does not encode as JSON is rejected whole and the
// config is left unchanged, so the graph always compiles to a savable definition.
func (g *Graph) UpdateNodeConfig(id string, patch domain.Config) error {
	node, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id)
	}
	for k, v := range patch {
		if _, err := json.Marshal(v); err != nil {
			return fmt.Errorf("%w: key %q: %v", domain.ErrInvalidConfig, k, err)
		}
	}
	if node.Config == nil {
		node.Config = make(domain.Config, len(patch))
	}
	for k, v := range patch.Clone() {
		node.Config[k] = v
	}
	return nil
}

// MoveNode updates the position of a node. Coordinates are not validated.
func (g *Graph) MoveNode(id string, pos domain.Position) error {
	node, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id)
	}
	node.Position = pos
	return nil
}

// Node returns a copy of the node with the given id.
func (g *Graph) Node(id string) (domain.Node, bool) {
	node, ok := g.nodes[id]
	if !ok {
		return domain.Node{}, false
	}
	return copyNode(node), true
}

// Has reports whether a node with the given id exists.
func (g *Graph) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns copies of all nodes in insertion order.
func (g *Graph) Nodes() []domain.Node {
	out := make([]domain.Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, copyNode(g.nodes[id]))
	}
	return out
}

// Edges returns a copy of the edge sequence in insertion order.
func (g *Graph) Edges() []domain.Edge {
	out := make([]domain.Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.order)
}

func copyNode(n *domain.Node) domain.Node {
	c := *n
	c.Config = n.Config.Clone()
	return c
}
