package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/agentdeck/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunAgentStoreContract runs a suite of tests to verify that an AgentStore
// implementation adheres to the defined interface contract.
func RunAgentStoreContract(t *testing.T, store AgentStore) {
	ctx := context.Background()
	prefix := "agent_contract_" + time.Now().Format("150405.000000") + "_"

	newAgent := func(suffix string) *domain.Agent {
		return &domain.Agent{
			ID:           prefix + suffix,
			Name:         "Contract " + suffix,
			Instructions: "Be helpful",
			Model:        "gpt-4o-mini",
			Tools:        []string{"search", "code"},
			Memory:       true,
			Safety:       true,
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		agent := newAgent("plain")
		require.NoError(t, store.Save(ctx, agent), "Save should not return error")
		defer func() { _ = store.Delete(ctx, agent.ID) }()

		loaded, err := store.Load(ctx, agent.ID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, agent, loaded)
	})

	t.Run("Save and Load Workflow", func(t *testing.T) {
		agent := newAgent("flow")
		agent.Model = domain.WorkflowModel
		agent.Tools = []string{}
		agent.Workflow = &domain.WorkflowDefinition{
			Nodes: []domain.WorkflowNode{
				{ID: "n1", Type: "llm", Config: domain.Config{"label": "Start", "prompt": "Plan"}},
				{ID: "n2", Type: "hitl", Config: domain.Config{"label": "Approve"}},
			},
			Edges: []domain.WorkflowEdge{{Source: "n1", Target: "n2"}, {Source: "n2", Target: "n2"}},
		}
		require.NoError(t, store.Save(ctx, agent))
		defer func() { _ = store.Delete(ctx, agent.ID) }()

		loaded, err := store.Load(ctx, agent.ID)
		require.NoError(t, err)
		require.NotNil(t, loaded.Workflow)
		assert.Equal(t, agent.Workflow.Edges, loaded.Workflow.Edges)
		assert.Equal(t, "Plan", loaded.Workflow.Nodes[0].Config["prompt"])
		assert.True(t, loaded.IsWorkflow())
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, prefix+"missing")
		assert.ErrorIs(t, err, domain.ErrAgentNotFound)
	})

	t.Run("Save Replaces", func(t *testing.T) {
		agent := newAgent("replace")
		require.NoError(t, store.Save(ctx, agent))
		defer func() { _ = store.Delete(ctx, agent.ID) }()

		agent.Name = "Renamed"
		require.NoError(t, store.Save(ctx, agent))

		loaded, err := store.Load(ctx, agent.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", loaded.Name)

		all, err := store.List(ctx)
		require.NoError(t, err)
		count := 0
		for _, a := range all {
			if a.ID == agent.ID {
				count++
			}
		}
		assert.Equal(t, 1, count, "a replaced agent must be listed once")
	})

	t.Run("Delete", func(t *testing.T) {
		agent := newAgent("delete")
		require.NoError(t, store.Save(ctx, agent))

		require.NoError(t, store.Delete(ctx, agent.ID), "Delete should not return error")

		_, err := store.Load(ctx, agent.ID)
		assert.ErrorIs(t, err, domain.ErrAgentNotFound, "Load after Delete should return ErrAgentNotFound")
		assert.NoError(t, store.Delete(ctx, agent.ID), "deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		a1 := newAgent("list1")
		a2 := newAgent("list2")
		require.NoError(t, store.Save(ctx, a1))
		require.NoError(t, store.Save(ctx, a2))
		defer func() {
			_ = store.Delete(ctx, a1.ID)
			_ = store.Delete(ctx, a2.ID)
		}()

		agents, err := store.List(ctx)
		require.NoError(t, err)
		ids := make([]string, 0, len(agents))
		for _, a := range agents {
			ids = append(ids, a.ID)
		}
		assert.Contains(t, ids, a1.ID)
		assert.Contains(t, ids, a2.ID)
	})
}
