package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	deckhttp "github.com/aretw0/agentdeck/pkg/adapters/http"
	"github.com/aretw0/agentdeck/pkg/adapters/memory"
	"github.com/aretw0/agentdeck/pkg/domain"
	"github.com/aretw0/agentdeck/pkg/executor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingExecutor struct{}

func (failingExecutor) Execute(context.Context, *domain.Agent, string) (*domain.ExecuteResponse, error) {
	return nil, errors.New("executor crashed")
}

func newTestServer(t *testing.T, opts ...deckhttp.Option) (*httptest.Server, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	seq := 0
	opts = append([]deckhttp.Option{deckhttp.WithIDGenerator(func() string {
		seq++
		return "agent_" + strings.Repeat("0", 7) + string(rune('0'+seq))
	})}, opts...)
	srv := httptest.NewServer(deckhttp.NewServer(store, executor.NewPlanner(), opts...).Handler())
	t.Cleanup(srv.Close)
	return srv, store
}

func do(t *testing.T, method, url, body string) (int, map[string]any, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var obj map[string]any
	_ = json.Unmarshal(raw, &obj)
	return resp.StatusCode, obj, string(raw)
}

func TestNewAgentID(t *testing.T) {
	id := deckhttp.NewAgentID()
	assert.Regexp(t, `^agent_[0-9a-f]{8}$`, id)
	assert.NotEqual(t, id, deckhttp.NewAgentID())
}

func TestHealthAndComponents(t *testing.T) {
	srv, _ := newTestServer(t)

	status, body, _ := do(t, "GET", srv.URL+"/health", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	status, _, raw := do(t, "GET", srv.URL+"/components", "")
	require.Equal(t, http.StatusOK, status)
	var cat domain.Components
	require.NoError(t, json.Unmarshal([]byte(raw), &cat))
	assert.Equal(t, []string{"gpt-4o-mini", "gpt-4o"}, cat.Models)
	assert.Equal(t, []string{"Multi-Layered Memory"}, cat.Memory)
	assert.Equal(t, []string{"Docker Sandbox", "Guardrails"}, cat.Safety)
	require.Len(t, cat.Tools, 3)
	assert.Equal(t, domain.ToolDescriptor{ID: "code", Name: "Code Executor", Description: "Run Python code (Secure)"}, cat.Tools[2])
}

func TestCreateAndListAgents(t *testing.T) {
	srv, store := newTestServer(t)

	status, _, raw := do(t, "GET", srv.URL+"/agents", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, raw)

	status, body, _ := do(t, "POST", srv.URL+"/agents", `{"name":"Researcher","instructions":"Find facts","model":"gpt-4o"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "agent_00000001", body["id"])
	assert.Equal(t, true, body["safety"], "safety defaults to true")
	assert.Equal(t, []any{}, body["tools"])
	assert.NotContains(t, body, "workflow")

	stored, err := store.Load(context.Background(), "agent_00000001")
	require.NoError(t, err)
	assert.Equal(t, "Researcher", stored.Name)

	status, _, raw = do(t, "GET", srv.URL+"/agents", "")
	require.Equal(t, http.StatusOK, status)
	var agents []domain.Agent
	require.NoError(t, json.Unmarshal([]byte(raw), &agents))
	require.Len(t, agents, 1)
	assert.Equal(t, "gpt-4o", agents[0].Model)
}

func TestCreateAgent_Rejections(t *testing.T) {
	srv, _ := newTestServer(t)

	status, body, _ := do(t, "POST", srv.URL+"/agents", `{not json`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid request body", body["detail"])

	status, body, _ = do(t, "POST", srv.URL+"/agents", `{"name":"x","instructions":"y"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, body["detail"], "model")

	status, body, _ = do(t, "POST", srv.URL+"/agents",
		`{"name":"x","instructions":"y","model":"dynamic-workflow","workflow":{"nodes":[{"type":"llm"}],"edges":[]}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, body["detail"], "id")
}

func TestExecute(t *testing.T) {
	srv, _ := newTestServer(t)

	wf := `{"nodes":[{"id":"n1","type":"llm","config":{"label":"Start","prompt":"Say hi"}}],"edges":[{"source":"n1","target":"n1"}]}`
	status, body, _ := do(t, "POST", srv.URL+"/agents",
		`{"name":"Flow","instructions":"Dynamic Workflow Agent","model":"dynamic-workflow","workflow":`+wf+`}`)
	require.Equal(t, http.StatusOK, status)
	id := body["id"].(string)

	status, body, _ = do(t, "POST", srv.URL+"/agents/"+id+"/execute", `{"task":"Hello\u001b"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Contains(t, body["output"], "1. Start (llm): Say hi\nInput: Hello")
	assert.Equal(t, 0.0, body["cost"])

	status, body, _ = do(t, "POST", srv.URL+"/agents/agent_missing/execute", `{"task":"Hello"}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Agent not found", body["detail"])
}

func TestExecute_PlainAgentReportsFailure(t *testing.T) {
	srv, _ := newTestServer(t)
	_, body, _ := do(t, "POST", srv.URL+"/agents", `{"name":"Plain","instructions":"x","model":"gpt-4o-mini"}`)

	status, body, _ := do(t, "POST", srv.URL+"/agents/"+body["id"].(string)+"/execute", `{"task":"Hello"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "model provider not configured: gpt-4o-mini", body["error"])
}

func TestExecute_InputRejected(t *testing.T) {
	t.Setenv("AGENTDECK_MAX_INPUT_SIZE", "4")
	srv, _ := newTestServer(t)
	_, body, _ := do(t, "POST", srv.URL+"/agents", `{"name":"P","instructions":"x","model":"m"}`)

	status, body, _ := do(t, "POST", srv.URL+"/agents/"+body["id"].(string)+"/execute", `{"task":"too long"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["detail"], "Invalid input")
}

func TestExecute_ExecutorError(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Save(context.Background(), &domain.Agent{ID: "agent_1", Model: "m"}))
	srv := httptest.NewServer(deckhttp.NewServer(store, failingExecutor{}).Handler())
	defer srv.Close()

	status, body, _ := do(t, "POST", srv.URL+"/agents/agent_1/execute", `{"task":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "executor crashed", body["detail"])
}

func TestCORSAndMetrics(t *testing.T) {
	srv, _ := newTestServer(t)

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/agents", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	do(t, "POST", srv.URL+"/agents", `{"name":"M","instructions":"x","model":"m"}`)

	status, _, raw := do(t, "GET", srv.URL+"/metrics", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, raw, "agentdeck_agents_created_total 1")
	assert.Regexp(t, `agentdeck_http_requests_total\{method="POST",route="/agents/?",status="200"\} 1`, raw)
}

func TestUnknownRoute(t *testing.T) {
	srv, _ := newTestServer(t)
	status, body, _ := do(t, "GET", srv.URL+"/nope", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Not Found", body["detail"])
}
