package dsl

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/agentdeck/internal/logging"
	"github.com/aretw0/agentdeck/pkg/domain"
	"github.com/aretw0/agentdeck/pkg/graph"
	"github.com/aretw0/agentdeck/pkg/interaction"
	"github.com/aretw0/agentdeck/pkg/registry"
)

// ErrUnknownRef is returned when an edge points at a reference that was never added.
var ErrUnknownRef = errors.New("unknown node reference")

// Column layout of unpinned nodes.
const (
	layoutX    = 250
	layoutY    = 5
	layoutStep = 100
)

// Builder manages the graph construction.
type Builder struct {
	order []string
	nodes map[string]*NodeBuilder
}

// New creates a new graph builder.
func New() *Builder {
	return &Builder{
		nodes: make(map[string]*NodeBuilder),
	}
}

// Add declares a node. If the reference already exists, it returns the
// existing builder and the kind is left unchanged.
func (b *Builder) Add(ref string, kind domain.NodeKind) *NodeBuilder {
	if nb, ok := b.nodes[ref]; ok {
		return nb
	}
	nb := &NodeBuilder{
		ref:     ref,
		kind:    kind,
		config:  domain.Config{},
		builder: b,
	}
	b.nodes[ref] = nb
	b.order = append(b.order, ref)
	return nb
}

// Len returns the number of declared nodes.
func (b *Builder) Len() int {
	return len(b.order)
}

// Result is a built graph and the ids assigned to each reference.
type Result struct {
	Graph *graph.Graph
	IDs   map[string]string
	// Skipped lists references whose kind the registry does not know.
	Skipped []string
}

// BuildOption configures Build.
type BuildOption func(*buildConfig)

type buildConfig struct {
	registry *registry.Registry
	prefix   string
	logger   *slog.Logger
}

// WithRegistry sets the palette nodes are dropped from.
func WithRegistry(r *registry.Registry) BuildOption {
	return func(c *buildConfig) {
		c.registry = r
	}
}

// WithIDPrefix sets the id prefix of the built graph.
func WithIDPrefix(prefix string) BuildOption {
	return func(c *buildConfig) {
		c.prefix = prefix
	}
}

// WithLogger sets the logger handed to the controller.
func WithLogger(l *slog.Logger) BuildOption {
	return func(c *buildConfig) {
		c.logger = l
	}
}

// Build replays the declarations through an interaction controller.
// Nodes of unknown kinds are skipped along with their edges. An edge to a
// reference that was never declared fails the build.
func (b *Builder) Build(opts ...BuildOption) (*Result, error) {
	cfg := buildConfig{registry: registry.Default, prefix: "n", logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	g := graph.New(graph.WithRegistry(cfg.registry), graph.WithIDPrefix(cfg.prefix))
	ctrl := interaction.NewController(g, interaction.WithRegistry(cfg.registry), interaction.WithLogger(cfg.logger))
	res := &Result{Graph: g, IDs: make(map[string]string, len(b.order))}
	view := interaction.Viewport{Zoom: 1}

	for i, ref := range b.order {
		nb := b.nodes[ref]
		pos := domain.Position{X: layoutX, Y: float64(layoutY + i*layoutStep)}
		if nb.pos != nil {
			pos = *nb.pos
		}
		n, ok := ctrl.Drop(interaction.DragPayload{Kind: string(nb.kind)}, view, pos.X, pos.Y)
		if !ok {
			res.Skipped = append(res.Skipped, ref)
			continue
		}
		if len(nb.config) > 0 {
			if err := g.UpdateNodeConfig(n.ID, nb.config); err != nil {
				return nil, fmt.Errorf("failed to configure %q: %w", ref, err)
			}
		}
		res.IDs[ref] = n.ID
	}

	for _, ref := range b.order {
		for _, next := range b.nodes[ref].next {
			if _, ok := b.nodes[next]; !ok {
				return nil, fmt.Errorf("%w: %s -> %s", ErrUnknownRef, ref, next)
			}
			if _, _, err := ctrl.ConnectRelease(res.IDs[ref], res.IDs[next]); err != nil {
				return nil, fmt.Errorf("failed to connect %q to %q: %w", ref, next, err)
			}
		}
	}
	return res, nil
}
