package domain

// Agent is the backend's record of a configured conversational entity.
// Workflow is only present for graph-authored agents.
type Agent struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Instructions string              `json:"instructions"`
	Model        string              `json:"model"`
	Tools        []string            `json:"tools"`
	Memory       bool                `json:"memory"`
	Safety       bool                `json:"safety"`
	Workflow     *WorkflowDefinition `json:"workflow,omitempty"`
}

// IsWorkflow reports whether the agent is driven by a compiled workflow.
func (a *Agent) IsWorkflow() bool {
	return a.Workflow != nil || a.Model == WorkflowModel
}

// AgentCreate is the payload of POST /agents.
type AgentCreate struct {
	Name         string              `json:"name" validate:"required"`
	Instructions string              `json:"instructions" validate:"required"`
	Model        string              `json:"model" validate:"required"`
	Tools        []string            `json:"tools"`
	Memory       bool                `json:"memory"`
	Safety       bool                `json:"safety"`
	Workflow     *WorkflowDefinition `json:"workflow,omitempty"`
}

// ToAgent materializes the payload as an Agent with the given id.
func (c AgentCreate) ToAgent(id string) Agent {
	tools := c.Tools
	if tools == nil {
		tools = []string{}
	}
	return Agent{
		ID:           id,
		Name:         c.Name,
		Instructions: c.Instructions,
		Model:        c.Model,
		Tools:        tools,
		Memory:       c.Memory,
		Safety:       c.Safety,
		Workflow:     c.Workflow,
	}
}

// ExecuteRequest is the payload of POST /agents/{id}/execute.
type ExecuteRequest struct {
	Task     string `json:"task"`
	ThreadID string `json:"thread_id,omitempty"`
}

// ExecuteResponse is the result of an execution.
// Output is kept raw: the backend may return any JSON value.
type ExecuteResponse struct {
	Success bool      `json:"success"`
	Output  RawOutput `json:"output,omitempty"`
	Error   string    `json:"error,omitempty"`
	Cost    *float64  `json:"cost,omitempty"`
}

// ToolDescriptor describes a tool offered by the backend catalog.
type ToolDescriptor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Components is the catalog used to populate the manual builder.
type Components struct {
	Tools  []ToolDescriptor `json:"tools"`
	Models []string         `json:"models"`
	Memory []string         `json:"memory"`
	Safety []string         `json:"safety"`
}

// EmptyComponents is the fallback catalog when the backend is unreachable.
func EmptyComponents() Components {
	return Components{
		Tools:  []ToolDescriptor{},
		Models: []string{},
		Memory: []string{},
		Safety: []string{},
	}
}

// Clone returns a deep copy of the agent.
func (a *Agent) Clone() *Agent {
	c := *a
	if a.Tools != nil {
		c.Tools = append([]string{}, a.Tools...)
	}
	c.Workflow = a.Workflow.Clone()
	return &c
}
