package registry

import (
	"testing"

	"github.com/aretw0/agentdeck/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Palette(t *testing.T) {
	r := NewRegistry()
	palette := r.Palette()
	require.Len(t, palette, 5)

	names := make([]string, 0, len(palette))
	for _, s := range palette {
		names = append(names, s.DisplayName)
	}
	assert.Equal(t, []string{"LLM Node", "Tool Node", "HITL Node", "Router Node", "Python REPL"}, names)
	assert.Equal(t, domain.KindPythonREPL, palette[4].Kind)
}

func TestRegistry_DefaultConfig(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, domain.Config{"label": "tool node"}, r.DefaultConfig("tool"))
	assert.Equal(t, domain.Config{"label": "llm node"}, r.DefaultConfig(""))

	// Each call returns a fresh map.
	a := r.DefaultConfig("hitl")
	a["label"] = "changed"
	assert.Equal(t, "hitl node", r.DefaultConfig("hitl").Label())
}

func TestRegistry_ResolveUnknownDegradesToLLM(t *testing.T) {
	r := NewRegistry()

	s := r.Resolve("webhook")
	assert.Equal(t, domain.KindLLM, s.Kind)
	assert.Equal(t, domain.Config{"label": "webhook node"}, r.DefaultConfig("webhook"))

	_, ok := r.Lookup("webhook")
	assert.False(t, ok)
}

func TestRegistry_RegisterOverwrites(t *testing.T) {
	r := NewRegistry()
	r.Register(Spec{
		Kind:        domain.KindTool,
		DisplayName: "Search Tool",
		Seed: func(label string) domain.Config {
			return domain.Config{"label": label, "tool": "search"}
		},
	})

	assert.Len(t, r.Palette(), 5, "overwriting must not duplicate palette entries")
	s, ok := r.Lookup("tool")
	require.True(t, ok)
	assert.Equal(t, "Search Tool", s.DisplayName)
	assert.Equal(t, "search", r.DefaultConfig("tool")["tool"])
}
