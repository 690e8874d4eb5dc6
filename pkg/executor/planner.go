// Package executor contains the reference backend's executor.
//
// No model provider is bundled, so the Planner performs a dry run: workflow agents are
// walked step by step without calling any LLM, tool or interpreter, and plain agents
// report that their model is not configured.
package executor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/aretw0/agentdeck/internal/logging"
	"github.com/aretw0/agentdeck/pkg/domain"
	"github.com/aretw0/agentdeck/pkg/registry"
)

// Run status values.
const (
	StatusCompleted = "completed"
	StatusAwaiting  = "waiting_for_approval"
)

// Step is one visited node of a dry run.
type Step struct {
	Node    string `json:"node"`
	Type    string `json:"type"`
	Label   string `json:"label"`
	Content string `json:"content"`
}

// Trace is the outcome of a dry run.
type Trace struct {
	Status      string `json:"status"`
	CurrentNode string `json:"current_node,omitempty"`
	Steps       []Step `json:"steps"`
}

// String renders the trace as chat text, one line per step.
func (t Trace) String() string {
	var b strings.Builder
	for i, s := range t.Steps {
		fmt.Fprintf(&b, "%d. %s (%s): %s\n", i+1, s.Label, s.Type, s.Content)
	}
	switch t.Status {
	case StatusAwaiting:
		b.WriteString("Awaiting approval. Send a message to continue.")
	default:
		if len(t.Steps) == 0 {
			b.WriteString("Workflow has no nodes.")
		} else {
			b.WriteString("Workflow completed.")
		}
	}
	return b.String()
}

// run is the walk state kept between a pause and its resume.
type run struct {
	def     *domain.WorkflowDefinition
	task    string
	queue   []string
	visited map[string]bool
	steps   []Step
	cursor  string
}

// Planner implements ports.Executor with a breadth-first dry run.
// A run that stops at a hitl node is kept per agent and resumed by the next
// execution of that agent. Safe for concurrent use.
type Planner struct {
	logger *slog.Logger

	mu     sync.Mutex
	paused map[string]*run
}

// Option configures the Planner.
type Option func(*Planner)

// WithLogger sets the planner logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Planner) {
		p.logger = l
	}
}

// NewPlanner creates a Planner.
func NewPlanner(opts ...Option) *Planner {
	p := &Planner{
		logger: logging.NewNop(),
		paused: make(map[string]*run),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Execute runs task on agent.
func (p *Planner) Execute(ctx context.Context, agent *domain.Agent, task string) (*domain.ExecuteResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !agent.IsWorkflow() {
		msg := "model provider not configured: " + agent.Model
		return &domain.ExecuteResponse{Success: false, Output: domain.OutputOf(msg), Error: msg}, nil
	}

	p.mu.Lock()
	r, resuming := p.paused[agent.ID]
	delete(p.paused, agent.ID)
	p.mu.Unlock()

	if resuming {
		p.logger.Info("resuming workflow", "agent_id", agent.ID, "node", r.cursor)
		r.steps = append(r.steps, Step{Node: r.cursor, Type: "input", Label: "Reviewer", Content: task})
	} else {
		r = newRun(agent.Workflow, task)
	}

	trace := r.walk()
	if trace.Status == StatusAwaiting {
		p.mu.Lock()
		p.paused[agent.ID] = r
		p.mu.Unlock()
	}

	p.logger.Debug("workflow dry run", "agent_id", agent.ID, "status", trace.Status, "steps", len(trace.Steps))
	cost := 0.0
	return &domain.ExecuteResponse{Success: true, Output: domain.OutputOf(trace.String()), Cost: &cost}, nil
}

// Plan performs a fresh dry run of def without keeping any state.
func Plan(def *domain.WorkflowDefinition, task string) Trace {
	return newRun(def, task).walk()
}

func newRun(def *domain.WorkflowDefinition, task string) *run {
	if def == nil {
		def = &domain.WorkflowDefinition{}
	}
	return &run{
		def:     def,
		task:    task,
		queue:   entryNodes(def),
		visited: make(map[string]bool),
	}
}

// entryNodes returns the nodes without incoming edges, in node order. A
// self-loop does not count as incoming. If every node has a predecessor the
// first node is the entry.
func entryNodes(def *domain.WorkflowDefinition) []string {
	if len(def.Nodes) == 0 {
		return nil
	}
	incoming := make(map[string]bool)
	for _, e := range def.Edges {
		if e.Source != e.Target {
			incoming[e.Target] = true
		}
	}
	var entries []string
	for _, n := range def.Nodes {
		if !incoming[n.ID] {
			entries = append(entries, n.ID)
		}
	}
	if len(entries) == 0 {
		entries = []string{def.Nodes[0].ID}
	}
	return entries
}

func (r *run) successors(id string) []string {
	var out []string
	for _, e := range r.def.Edges {
		if e.Source == id {
			out = append(out, e.Target)
		}
	}
	return out
}

// walk consumes the queue until it empties or a hitl node is reached.
func (r *run) walk() Trace {
	for len(r.queue) > 0 {
		id := r.queue[0]
		r.queue = r.queue[1:]
		if r.visited[id] {
			continue
		}
		node, ok := r.def.Node(id)
		if !ok {
			// Dangling edge target.
			continue
		}
		r.visited[id] = true
		r.cursor = id
		r.steps = append(r.steps, r.step(node))
		r.queue = append(r.queue, r.successors(id)...)

		if node.Type == string(domain.KindHITL) {
			return Trace{Status: StatusAwaiting, CurrentNode: id, Steps: r.copySteps()}
		}
	}
	return Trace{Status: StatusCompleted, CurrentNode: r.cursor, Steps: r.copySteps()}
}

func (r *run) copySteps() []Step {
	out := make([]Step, len(r.steps))
	copy(out, r.steps)
	return out
}

func (r *run) step(n domain.WorkflowNode) Step {
	label := n.Config.Label()
	if label == "" {
		label = registry.Label(domain.NodeKind(n.Type))
	}
	s := Step{Node: n.ID, Type: n.Type, Label: label}

	switch domain.NodeKind(n.Type) {
	case domain.KindLLM:
		var cfg domain.LLMConfig
		_ = domain.DecodeConfig(n.Config, &cfg)
		prompt := strings.ReplaceAll(cfg.Prompt, "{input}", r.task)
		if len(r.steps) == 0 {
			prompt = strings.TrimSpace(prompt + "\nInput: " + r.task)
		}
		s.Content = prompt
	case domain.KindTool:
		var cfg domain.ToolConfig
		_ = domain.DecodeConfig(n.Config, &cfg)
		s.Content = fmt.Sprintf("Tool Output: Mock result for %s with input %s", cfg.Tool, r.task)
	case domain.KindHITL:
		var cfg domain.HITLConfig
		_ = domain.DecodeConfig(n.Config, &cfg)
		s.Content = cfg.Message
		if s.Content == "" {
			s.Content = "Approval Required"
		}
	case domain.KindRouter:
		next := r.successors(n.ID)
		if len(next) == 0 {
			s.Content = "no branches"
		} else {
			s.Content = "branching to " + strings.Join(next, ", ")
		}
	case domain.KindPythonREPL:
		s.Content = "code not executed in dry run"
	default:
		s.Content = "unsupported node type, skipped"
	}
	return s
}
