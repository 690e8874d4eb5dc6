// Package client talks to the agent-management backend over its JSON HTTP API.
//
// Failures are classified for the caller: a non-2xx reply becomes *domain.BackendError
// and anything that prevents a reply from being read becomes *domain.TransportError.
// Requests are never retried.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/agentdeck/pkg/domain"
)

// Client is an HTTP client for the agent backend. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout bounds every request. Zero, the default, means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// New creates a Client for the backend at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("client: base URL is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("client: invalid base URL %q", baseURL)
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the backend root URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListAgents returns every agent known to the backend.
func (c *Client) ListAgents(ctx context.Context) ([]domain.Agent, error) {
	var resp []domain.Agent
	if err := c.get(ctx, "/agents", &resp); err != nil {
		return nil, err
	}
	if resp == nil {
		resp = []domain.Agent{}
	}
	return resp, nil
}

// GetAgent finds one agent by id. The backend has no single-agent endpoint,
// so the full list is fetched.
func (c *Client) GetAgent(ctx context.Context, id string) (*domain.Agent, error) {
	agents, err := c.ListAgents(ctx)
	if err != nil {
		return nil, err
	}
	for i := range agents {
		if agents[i].ID == id {
			return &agents[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrAgentNotFound, id)
}

// CreateAgent posts a new agent and returns it with its generated id.
func (c *Client) CreateAgent(ctx context.Context, req domain.AgentCreate) (*domain.Agent, error) {
	var resp domain.Agent
	if err := c.post(ctx, "/agents", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Execute runs task on the agent. A reply with success=false is not an error
// at this layer; the caller decides how to surface it.
func (c *Client) Execute(ctx context.Context, agentID, task string) (*domain.ExecuteResponse, error) {
	var resp domain.ExecuteResponse
	path := "/agents/" + url.PathEscape(agentID) + "/execute"
	if err := c.post(ctx, path, domain.ExecuteRequest{Task: task}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Components returns the catalog used by the manual builder.
func (c *Client) Components(ctx context.Context) (*domain.Components, error) {
	var resp domain.Components
	if err := c.get(ctx, "/components", &resp); err != nil {
		return nil, err
	}
	fillComponents(&resp)
	return &resp, nil
}

// Health pings the backend.
func (c *Client) Health(ctx context.Context) error {
	return c.get(ctx, "/health", nil)
}

func fillComponents(cat *domain.Components) {
	if cat.Tools == nil {
		cat.Tools = []domain.ToolDescriptor{}
	}
	if cat.Models == nil {
		cat.Models = []string{}
	}
	if cat.Memory == nil {
		cat.Memory = []string{}
	}
	if cat.Safety == nil {
		cat.Safety = []string{}
	}
}

func (c *Client) post(ctx context.Context, path string, body any, dest any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("client: marshal request body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(encoded), dest)
}

func (c *Client) get(ctx context.Context, path string, dest any) error {
	return c.do(ctx, http.MethodGet, path, nil, dest)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, dest any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("client: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	op := method + " " + path
	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	return handleResponse(op, resp, dest)
}

func handleResponse(op string, resp *http.Response, dest any) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.TransportError{Op: op, Err: fmt.Errorf("read response body: %w", err)}
	}

	if resp.StatusCode >= 400 {
		return parseErrorResponse(resp.StatusCode, data)
	}
	if resp.StatusCode == http.StatusNoContent || dest == nil {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return &domain.TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// parseErrorResponse reads the backend's {"detail": ...} body, falling back to
// {"error": ...}, then to the raw body or the status text.
func parseErrorResponse(status int, data []byte) error {
	var body struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	msg := ""
	if err := json.Unmarshal(data, &body); err == nil {
		switch {
		case len(body.Detail) > 0:
			msg = domain.RawOutput(body.Detail).Text()
		case body.Error != "":
			msg = body.Error
		}
	}
	if msg == "" {
		msg = strings.TrimSpace(string(data))
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &domain.BackendError{StatusCode: status, Message: msg}
}
