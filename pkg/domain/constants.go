package domain

// Config keys understood by the per-kind views (see config.go).
const (
	KeyLabel   = "label"
	KeyPrompt  = "prompt"
	KeyTool    = "tool"
	KeyMessage = "message"
	KeyRoutes  = "routes"
	KeyCode    = "code"
)

// Values used when a graph is saved as an agent.
const (
	// WorkflowModel marks an agent whose behaviour is defined by its workflow.
	WorkflowModel = "dynamic-workflow"
	// WorkflowInstructions is the instructions text sent for graph-authored agents.
	WorkflowInstructions = "Dynamic Workflow Agent"
	// DefaultWorkflowName is the agent name proposed by the workflow builder.
	DefaultWorkflowName = "My Workflow Agent"
	// DefaultModel is the model preselected by the manual builder.
	DefaultModel = "gpt-4o-mini"
)
