package ports

import (
	"context"

	"github.com/aretw0/agentdeck/pkg/domain"
)

// AgentStore persists agents created through the backend.
// Agents are immutable once created, so Save on an existing id replaces the record.
type AgentStore interface {
	// Save persists the agent under agent.ID.
	Save(ctx context.Context, agent *domain.Agent) error

	// Load retrieves an agent.
	// Returns domain.ErrAgentNotFound if the agent does not exist.
	Load(ctx context.Context, id string) (*domain.Agent, error)

	// Delete removes an agent. Deleting an absent agent is not an error.
	Delete(ctx context.Context, id string) error

	// List returns every stored agent. Order is adapter-specific but stable.
	List(ctx context.Context) ([]domain.Agent, error)
}

// Executor runs a task against an agent and reports the outcome.
// Execution failures are reported in the response, not as errors; an error
// means the execution could not be attempted at all.
type Executor interface {
	Execute(ctx context.Context, agent *domain.Agent, task string) (*domain.ExecuteResponse, error)
}
