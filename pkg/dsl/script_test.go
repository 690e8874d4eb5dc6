package dsl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/agentdeck/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlScript = `
name: Research Agent
nodes:
  - ref: research
    kind: llm
    config: {label: Research, prompt: "Find facts about {input}"}
    next: [search]
  - ref: search
    kind: tool
    position: {x: 400, y: 80}
    config: {tool: web_search}
    next: [review]
  - ref: review
    kind: hitl
    config: {message: Publish?}
`

func TestParseScript_YAML(t *testing.T) {
	s, err := ParseScript([]byte(yamlScript))
	require.NoError(t, err)
	assert.Equal(t, "Research Agent", s.Name)
	require.Len(t, s.Nodes, 3)

	res, err := s.Build()
	require.NoError(t, err)
	n, ok := res.Graph.Node(res.IDs["search"])
	require.True(t, ok)
	assert.Equal(t, domain.Position{X: 400, Y: 80}, n.Position)
	assert.Equal(t, "web_search", n.Config["tool"])
	assert.Len(t, res.Graph.Edges(), 2)
}

func TestParseScript_JSON(t *testing.T) {
	data := `{"name":"J","nodes":[{"ref":"a","kind":"llm","next":["b"]},{"ref":"b","kind":"tool","config":{"tool":"calc"}}]}`

	s, err := ParseScript([]byte(data))
	require.NoError(t, err)
	res, err := s.Build()
	require.NoError(t, err)
	assert.Equal(t, []domain.Edge{{Source: "n1", Target: "n2"}}, res.Graph.Edges())
}

func TestParseScript_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed", "nodes: [ {"},
		{"missing ref", "nodes:\n  - kind: llm\n"},
		{"missing kind", "nodes:\n  - ref: a\n"},
		{"duplicate ref", "nodes:\n  - {ref: a, kind: llm}\n  - {ref: a, kind: tool}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScript([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlScript), 0o644))

	s, err := LoadScript(path)
	require.NoError(t, err)
	assert.Len(t, s.Nodes, 3)

	_, err = LoadScript(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
