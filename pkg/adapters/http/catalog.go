package http

import "github.com/aretw0/agentdeck/pkg/domain"

// DefaultModels are offered when no model list is configured.
var DefaultModels = []string{"gpt-4o-mini", "gpt-4o"}

// DefaultCatalog returns the static component catalog served by GET /components.
// A nil models slice selects DefaultModels.
func DefaultCatalog(models []string) domain.Components {
	if models == nil {
		models = DefaultModels
	}
	return domain.Components{
		Tools: []domain.ToolDescriptor{
			{ID: "search", Name: "Web Search", Description: "Search the web"},
			{ID: "finance", Name: "Financial Analysis", Description: "Analyze stocks"},
			{ID: "code", Name: "Code Executor", Description: "Run Python code (Secure)"},
		},
		Models: append([]string{}, models...),
		Memory: []string{"Multi-Layered Memory"},
		Safety: []string{"Docker Sandbox", "Guardrails"},
	}
}
