package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/agentdeck/pkg/adapters/memory"
	"github.com/aretw0/agentdeck/pkg/domain"
	"github.com/aretw0/agentdeck/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunAgentStoreContract(t, memory.NewStore())
}

func TestMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	agent := &domain.Agent{
		ID:    "agent_1",
		Tools: []string{"search"},
		Workflow: &domain.WorkflowDefinition{
			Nodes: []domain.WorkflowNode{{ID: "n1", Type: "llm", Config: domain.Config{"label": "Start"}}},
		},
	}
	require.NoError(t, store.Save(ctx, agent))

	agent.Tools[0] = "changed"
	agent.Workflow.Nodes[0].Config["label"] = "changed"

	loaded, err := store.Load(ctx, "agent_1")
	require.NoError(t, err)
	assert.Equal(t, "search", loaded.Tools[0])
	assert.Equal(t, "Start", loaded.Workflow.Nodes[0].Config.Label())
}

func TestMemoryStore_ListOrder(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	for _, id := range []string{"agent_c", "agent_a", "agent_b"} {
		require.NoError(t, store.Save(ctx, &domain.Agent{ID: id}))
	}
	require.NoError(t, store.Save(ctx, &domain.Agent{ID: "agent_c", Name: "again"}))

	agents, err := store.List(ctx)
	require.NoError(t, err)
	ids := []string{}
	for _, a := range agents {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"agent_c", "agent_a", "agent_b"}, ids)
}
