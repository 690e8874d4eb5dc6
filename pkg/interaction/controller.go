// Package interaction turns canvas gestures into graph mutations.
//
// The controller holds no state of its own: a drag payload lives for one gesture and is
// passed straight into Drop.
package interaction

import (
	"log/slog"
	"math"
	"strings"

	"github.com/aretw0/agentdeck/internal/logging"
	"github.com/aretw0/agentdeck/pkg/domain"
	"github.com/aretw0/agentdeck/pkg/graph"
	"github.com/aretw0/agentdeck/pkg/registry"
)

// PayloadMIME is the data-transfer type under which the palette publishes the node kind.
const PayloadMIME = "application/reactflow"

// DragPayload is the value carried by a drag from the palette.
type DragPayload struct {
	Kind string `json:"kind"`
}

// Viewport is the canvas transform: pan offset and zoom.
type Viewport struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

// ScreenToFlow projects a canvas-relative screen point into flow coordinates.
func (v Viewport) ScreenToFlow(x, y float64) domain.Position {
	zoom := v.Zoom
	if zoom == 0 {
		zoom = 1
	}
	return domain.Position{X: (x - v.X) / zoom, Y: (y - v.Y) / zoom}
}

// Controller maps drop and connect gestures onto a Graph.
type Controller struct {
	graph    *graph.Graph
	registry *registry.Registry
	logger   *slog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for ignored gestures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// WithRegistry sets the registry used to recognize dropped kinds.
// It should be the same registry the graph seeds nodes from.
func WithRegistry(r *registry.Registry) Option {
	return func(c *Controller) {
		c.registry = r
	}
}

// NewController binds a controller to g.
func NewController(g *graph.Graph, opts ...Option) *Controller {
	c := &Controller{
		graph:    g,
		registry: registry.Default,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Graph returns the graph the controller mutates.
func (c *Controller) Graph() *graph.Graph {
	return c.graph
}

// Palette lists the drag sources.
func (c *Controller) Palette() []registry.Spec {
	return c.registry.Palette()
}

// Drop places a node of the payload's kind at the projected position.
// An empty or unrecognized kind, or a position that is not a finite
// canvas coordinate, is ignored without error.
func (c *Controller) Drop(p DragPayload, v Viewport, screenX, screenY float64) (domain.Node, bool) {
	kind := strings.TrimSpace(p.Kind)
	if kind == "" {
		c.logger.Debug("drop ignored: empty payload")
		return domain.Node{}, false
	}
	if _, ok := c.registry.Lookup(kind); !ok {
		c.logger.Debug("drop ignored: unknown kind", "kind", kind)
		return domain.Node{}, false
	}
	pos := v.ScreenToFlow(screenX, screenY)
	if !finite(screenX, screenY, v.X, v.Y, v.Zoom, pos.X, pos.Y) {
		c.logger.Debug("drop ignored: position not finite", "x", screenX, "y", screenY)
		return domain.Node{}, false
	}
	n := c.graph.AddNode(domain.NodeKind(kind), pos)
	c.logger.Debug("node placed", "id", n.ID, "kind", n.Kind)
	return n, true
}

// ConnectRelease finishes a connect drag. An empty target means the drag was
// released over empty canvas and nothing happens. A target that is not in the
// graph yields the graph's ReferenceError.
func (c *Controller) ConnectRelease(source, target string) (domain.Edge, bool, error) {
	if target == "" || source == "" {
		return domain.Edge{}, false, nil
	}
	e, err := c.graph.Connect(source, target)
	if err != nil {
		c.logger.Debug("connect rejected", "source", source, "target", target, "err", err)
		return domain.Edge{}, false, err
	}
	return e, true, nil
}

func finite(fs ...float64) bool {
	for _, f := range fs {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
