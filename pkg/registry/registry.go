package registry

import (
	"fmt"
	"sync"

	"github.com/aretw0/agentdeck/pkg/domain"
)

// Spec describes a node kind: how it is offered in the palette and how new
// nodes of that kind are seeded.
type Spec struct {
	Kind        domain.NodeKind
	DisplayName string
	// Seed returns a fresh default config. Each call must return a new map.
	Seed func(label string) domain.Config
}

// Label derives the default display label of a kind.
func Label(kind domain.NodeKind) string {
	if kind == "" {
		kind = domain.KindLLM
	}
	return fmt.Sprintf("%s node", kind)
}

func labelOnly(label string) domain.Config {
	return domain.Config{domain.KeyLabel: label}
}

// Registry manages the known node kinds.
type Registry struct {
	mu    sync.RWMutex
	order []domain.NodeKind
	specs map[domain.NodeKind]Spec
}

// NewRegistry creates a registry with the built-in kinds.
func NewRegistry() *Registry {
	r := &Registry{specs: make(map[domain.NodeKind]Spec)}
	for _, s := range builtins() {
		r.Register(s)
	}
	return r
}

func builtins() []Spec {
	return []Spec{
		{Kind: domain.KindLLM, DisplayName: "LLM Node", Seed: labelOnly},
		{Kind: domain.KindTool, DisplayName: "Tool Node", Seed: labelOnly},
		{Kind: domain.KindHITL, DisplayName: "HITL Node", Seed: labelOnly},
		{Kind: domain.KindRouter, DisplayName: "Router Node", Seed: labelOnly},
		{Kind: domain.KindPythonREPL, DisplayName: "Python REPL", Seed: labelOnly},
	}
}

// Register adds a kind. An existing kind is overwritten in place.
func (r *Registry) Register(s Spec) {
	if s.Seed == nil {
		s.Seed = labelOnly
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.specs[s.Kind]; !exists {
		r.order = append(r.order, s.Kind)
	}
	r.specs[s.Kind] = s
}

// Lookup returns the spec of a registered kind.
func (r *Registry) Lookup(kind string) (Spec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.specs[domain.NodeKind(kind)]
	return s, ok
}

// Resolve never fails: an empty kind resolves to llm, and an unregistered kind
// degrades to a plain labeled llm node so the editor keeps working.
func (r *Registry) Resolve(kind string) Spec {
	if kind == "" {
		kind = string(domain.KindLLM)
	}
	if s, ok := r.Lookup(kind); ok {
		return s
	}
	label := fmt.Sprintf("%s node", kind)
	return Spec{
		Kind:        domain.KindLLM,
		DisplayName: label,
		Seed: func(string) domain.Config {
			return labelOnly(label)
		},
	}
}

// DefaultConfig returns the seed config of a kind.
func (r *Registry) DefaultConfig(kind string) domain.Config {
	s := r.Resolve(kind)
	return s.Seed(Label(domain.NodeKind(kind)))
}

// Palette returns the registered kinds in display order.
func (r *Registry) Palette() []Spec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Spec, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.specs[k])
	}
	return out
}

// Default is the registry shared by callers that do not need custom kinds.
var Default = NewRegistry()
