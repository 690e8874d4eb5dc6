package dsl

import (
	"testing"

	"github.com/aretw0/agentdeck/pkg/compiler"
	"github.com/aretw0/agentdeck/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_SimpleFlow(t *testing.T) {
	b := New()

	b.Add("research", domain.KindLLM).
		Label("Research").
		Prompt("Find facts about {input}").
		Go("search")

	b.Add("search", domain.KindTool).
		Tool("web_search").
		Go("review")

	b.Add("review", domain.KindHITL).
		Message("Publish?").
		At(10, 20)

	res, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"research": "n1", "search": "n2", "review": "n3"}, res.IDs)
	assert.Empty(t, res.Skipped)

	def := compiler.Compile(res.Graph)
	require.Len(t, def.Nodes, 3)
	assert.Equal(t, "llm", def.Nodes[0].Type)
	assert.Equal(t, "Research", def.Nodes[0].Config["label"])
	assert.Equal(t, "Find facts about {input}", def.Nodes[0].Config["prompt"])
	assert.Equal(t, "tool node", def.Nodes[1].Config["label"], "seed label survives the merge")
	assert.Equal(t, "web_search", def.Nodes[1].Config["tool"])
	assert.Equal(t, domain.Position{X: 10, Y: 20}, def.Nodes[2].Position)
	assert.Equal(t, domain.Position{X: 250, Y: 5}, def.Nodes[0].Position)
	assert.Equal(t, domain.Position{X: 250, Y: 105}, def.Nodes[1].Position)
	assert.Equal(t, []domain.WorkflowEdge{
		{Source: "n1", Target: "n2"},
		{Source: "n2", Target: "n3"},
	}, def.Edges)
}

func TestBuilder_AddIsIdempotent(t *testing.T) {
	b := New()
	first := b.Add("a", domain.KindLLM)
	again := b.Add("a", domain.KindTool)

	assert.Same(t, first, again)
	assert.Equal(t, 1, b.Len())
}

func TestBuilder_SkipsUnknownKinds(t *testing.T) {
	b := New()
	b.Add("a", domain.KindLLM).Go("ghost")
	b.Add("ghost", "teleporter").Go("b")
	b.Add("b", domain.KindRouter).Route("yes", "no")

	res, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"ghost"}, res.Skipped)
	assert.Equal(t, map[string]string{"a": "n1", "b": "n2"}, res.IDs)
	assert.Empty(t, res.Graph.Edges(), "edges touching a skipped node are dropped")

	n, ok := res.Graph.Node("n2")
	require.True(t, ok)
	assert.Equal(t, []string{"yes", "no"}, n.Config["routes"])
}

func TestBuilder_UnknownRef(t *testing.T) {
	b := New()
	b.Add("a", domain.KindLLM).Go("missing")

	_, err := b.Build()
	assert.ErrorIs(t, err, ErrUnknownRef)
}

func TestBuilder_Options(t *testing.T) {
	b := New()
	b.Add("a", domain.KindPythonREPL).Code("print(1)")

	res, err := b.Build(WithIDPrefix("dndnode_"))
	require.NoError(t, err)
	assert.Equal(t, "dndnode_1", res.IDs["a"])
}

func TestBuilder_Cycle(t *testing.T) {
	b := New()
	b.Add("a", domain.KindLLM).Go("b")
	b.Add("b", domain.KindLLM).Go("a", "b")

	res, err := b.Build()
	require.NoError(t, err)
	assert.Len(t, res.Graph.Edges(), 3)
}
