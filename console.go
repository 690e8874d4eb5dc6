package agentdeck

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/agentdeck/internal/logging"
	"github.com/aretw0/agentdeck/pkg/client"
	"github.com/aretw0/agentdeck/pkg/compiler"
	"github.com/aretw0/agentdeck/pkg/domain"
	"github.com/aretw0/agentdeck/pkg/graph"
	"github.com/aretw0/agentdeck/pkg/interaction"
	"github.com/aretw0/agentdeck/pkg/registry"
	"github.com/aretw0/agentdeck/pkg/session"
)

// Backend is the agent-management API the console drives. *client.Client satisfies it.
type Backend interface {
	ListAgents(ctx context.Context) ([]domain.Agent, error)
	CreateAgent(ctx context.Context, req domain.AgentCreate) (*domain.Agent, error)
	Execute(ctx context.Context, agentID, task string) (*domain.ExecuteResponse, error)
	Components(ctx context.Context) (*domain.Components, error)
}

// Console is the high-level entry point of the library.
type Console struct {
	backend    Backend
	registry   *registry.Registry
	logger     *slog.Logger
	idPrefix   string
	clientOpts []client.Option
}

// Option defines a functional option for configuring the Console.
type Option func(*Console)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Console) {
		c.logger = logger
	}
}

// WithRegistry sets the node registry used by new workflows.
func WithRegistry(r *registry.Registry) Option {
	return func(c *Console) {
		c.registry = r
	}
}

// WithIDPrefix sets the node id prefix of new workflows.
func WithIDPrefix(prefix string) Option {
	return func(c *Console) {
		c.idPrefix = prefix
	}
}

// WithClientOptions forwards options to the backend client built by New.
func WithClientOptions(opts ...client.Option) Option {
	return func(c *Console) {
		c.clientOpts = append(c.clientOpts, opts...)
	}
}

// New creates a Console talking to the backend at baseURL.
func New(baseURL string, opts ...Option) (*Console, error) {
	c := newConsole(nil, opts...)
	cl, err := client.New(baseURL, c.clientOpts...)
	if err != nil {
		return nil, err
	}
	c.backend = cl
	return c, nil
}

// NewWithBackend creates a Console over an existing Backend.
func NewWithBackend(b Backend, opts ...Option) *Console {
	return newConsole(b, opts...)
}

func newConsole(b Backend, opts ...Option) *Console {
	c := &Console{
		backend:  b,
		registry: registry.Default,
		logger:   logging.NewNop(),
		idPrefix: "n",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Backend returns the backend the console talks to.
func (c *Console) Backend() Backend {
	return c.backend
}

// Agents lists the backend's agents. Failures are logged and yield an empty
// list; a later call simply re-fetches.
func (c *Console) Agents(ctx context.Context) []domain.Agent {
	agents, err := c.backend.ListAgents(ctx)
	if err != nil {
		c.logger.Warn("failed to fetch agents", "err", err)
		return []domain.Agent{}
	}
	return agents
}

// Components fetches the manual builder catalog, falling back to empty lists.
func (c *Console) Components(ctx context.Context) domain.Components {
	cat, err := c.backend.Components(ctx)
	if err != nil || cat == nil {
		c.logger.Warn("failed to fetch components", "err", err)
		return domain.EmptyComponents()
	}
	return *cat
}

// Editor is one workflow editing context: a graph and the controller bound to it.
type Editor struct {
	Graph      *graph.Graph
	Controller *interaction.Controller
}

// Compile returns the current workflow definition.
func (e *Editor) Compile() domain.WorkflowDefinition {
	return compiler.Compile(e.Graph)
}

// NewWorkflow starts an empty editing context.
func (c *Console) NewWorkflow() *Editor {
	g := graph.New(graph.WithRegistry(c.registry), graph.WithIDPrefix(c.idPrefix))
	return &Editor{
		Graph:      g,
		Controller: interaction.NewController(g, interaction.WithRegistry(c.registry), interaction.WithLogger(c.logger)),
	}
}

// WorkflowPayload builds the agent-creation payload of a compiled graph.
// A blank name becomes domain.DefaultWorkflowName.
func WorkflowPayload(name string, src compiler.Source) domain.AgentCreate {
	if strings.TrimSpace(name) == "" {
		name = domain.DefaultWorkflowName
	}
	def := compiler.Compile(src)
	return domain.AgentCreate{
		Name:         name,
		Instructions: domain.WorkflowInstructions,
		Model:        domain.WorkflowModel,
		Tools:        []string{},
		Workflow:     &def,
	}
}

// SaveWorkflow compiles src and creates an agent from it.
func (c *Console) SaveWorkflow(ctx context.Context, name string, src compiler.Source) (*domain.Agent, error) {
	agent, err := c.backend.CreateAgent(ctx, WorkflowPayload(name, src))
	if err != nil {
		c.logger.Warn("failed to save workflow", "err", err)
		return nil, fmt.Errorf("failed to save workflow: %w", err)
	}
	c.logger.Info("workflow saved", "agent_id", agent.ID, "name", agent.Name)
	return agent, nil
}

// CreateAgent validates the draft and creates the agent.
func (c *Console) CreateAgent(ctx context.Context, d *AgentDraft) (*domain.Agent, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	agent, err := c.backend.CreateAgent(ctx, d.Payload())
	if err != nil {
		c.logger.Warn("failed to create agent", "err", err)
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}
	c.logger.Info("agent created", "agent_id", agent.ID, "name", agent.Name)
	return agent, nil
}

// OpenChat finds the agent and opens a session greeted by it.
// The backend has no single-agent endpoint, so the agent list is fetched.
func (c *Console) OpenChat(ctx context.Context, agentID string, opts ...session.Option) (*session.Session, error) {
	a, err := c.FindAgent(ctx, agentID)
	if err != nil {
		return nil, err
	}
	all := append([]session.Option{
		session.WithLogger(c.logger),
		session.WithGreeting(session.Greeting(a.Name)),
	}, opts...)
	return session.New(a.ID, c.backend, all...), nil
}

// FindAgent looks an agent up in the backend listing. An unknown id wraps
// domain.ErrAgentNotFound.
func (c *Console) FindAgent(ctx context.Context, agentID string) (*domain.Agent, error) {
	agents, err := c.backend.ListAgents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch agent: %w", err)
	}
	for i := range agents {
		if agents[i].ID == agentID {
			return &agents[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrAgentNotFound, agentID)
}
