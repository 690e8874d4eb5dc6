package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/agentdeck/internal/config"
	deckhttp "github.com/aretw0/agentdeck/pkg/adapters/http"
	"github.com/aretw0/agentdeck/pkg/adapters/memory"
	"github.com/aretw0/agentdeck/pkg/executor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const script = `
name: Gatekeeper
nodes:
  - ref: draft
    kind: llm
    config: {label: Draft, prompt: "Write about {input}"}
    next: [review]
  - ref: review
    kind: hitl
    config: {message: Ship it?}
  - ref: mystery
    kind: teleporter
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeWithInput(t, "", args...)
}

func executeWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeScript(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o644))
	return path
}

func newBackend(t *testing.T) (*httptest.Server, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	srv := httptest.NewServer(deckhttp.NewServer(store, executor.NewPlanner()).Handler())
	t.Cleanup(srv.Close)
	return srv, store
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "agentdeck version")
}

func TestWorkflowCompileAndGraph(t *testing.T) {
	path := writeScript(t)

	out, err := execute(t, "workflow", "compile", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"type": "llm"`)
	assert.Contains(t, out, `"prompt": "Write about {input}"`)
	assert.Contains(t, out, `"source": "n1"`)
	assert.NotContains(t, out, "teleporter")

	out, err = execute(t, "workflow", "graph", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, `n1(["Draft"])`)
	assert.Contains(t, out, `n2[/"hitl node"/]`)
	assert.Contains(t, out, "n1 --> n2")
}

func TestWorkflowValidate(t *testing.T) {
	out, err := execute(t, "workflow", "validate", "-f", writeScript(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Workflow is valid (2 nodes, 1 edges)")

	path := filepath.Join(t.TempDir(), "def.json")
	def := `{"nodes":[{"id":"n1","type":"llm","config":{}}],"edges":[{"source":"n1","target":"n7"}]}`
	require.NoError(t, os.WriteFile(path, []byte(def), 0o644))

	_, err = execute(t, "workflow", "validate", "--definition", "-f", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Missing node 'n7'")
}

func TestWorkflowMissingScript(t *testing.T) {
	_, err := execute(t, "workflow", "compile", "-f", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestAgentsAgainstBackend(t *testing.T) {
	srv, store := newBackend(t)

	out, err := execute(t, "--api", srv.URL, "agents", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "No agents found")

	out, err = execute(t, "--api", srv.URL, "agents", "create",
		"--name", "Helper", "--instructions", "Be kind", "--tool", "web_search,calculator")
	require.NoError(t, err)
	assert.Contains(t, out, "Created agent agent_")

	out, err = execute(t, "--api", srv.URL, "workflow", "save", "-f", writeScript(t))
	require.NoError(t, err)
	assert.Contains(t, out, "(Gatekeeper)")

	agents, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, agents, 2)
	assert.Equal(t, []string{"web_search", "calculator"}, agents[0].Tools)
	assert.True(t, agents[0].Safety)

	out, err = execute(t, "--api", srv.URL, "agents", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "Helper")
	assert.Contains(t, out, "workflow (2 nodes)")

	out, err = execute(t, "--api", srv.URL, "components")
	require.NoError(t, err)
	assert.Contains(t, out, "gpt-4o-mini")
}

func TestChatUnknownAgent(t *testing.T) {
	srv, _ := newBackend(t)

	_, err := execute(t, "--api", srv.URL, "chat", "agent_missing")
	assert.ErrorContains(t, err, "agent not found")
}

func TestChatJSON(t *testing.T) {
	srv, store := newBackend(t)
	_, err := execute(t, "--api", srv.URL, "workflow", "save", "-f", writeScript(t))
	require.NoError(t, err)
	agents, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, agents, 1)

	out, err := executeWithInput(t, "\"release notes\"\n", "--api", srv.URL, "chat", "--json", agents[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, `"content":"Hello! I am Gatekeeper. How can I help you?"`)
	assert.Contains(t, out, `"content":"release notes"`)
	assert.Contains(t, out, "Awaiting approval")
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	store, release, err := openStore(ctx, config.Config{Store: config.StoreMemory})
	require.NoError(t, err)
	assert.NotNil(t, store)
	release()

	store, release, err = openStore(ctx, config.Config{Store: config.StoreFile, DataDir: t.TempDir()})
	require.NoError(t, err)
	assert.NotNil(t, store)
	release()

	_, _, err = openStore(ctx, config.Config{Store: "s3"})
	assert.ErrorIs(t, err, config.ErrInvalid)
}
