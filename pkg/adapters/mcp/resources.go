package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/agentdeck/internal/presentation/graph"
	mcplib "github.com/mark3labs/mcp-go/mcp"
)

// Resource URIs.
const (
	WorkflowURI        = "agentdeck://workflow"
	WorkflowMermaidURI = "agentdeck://workflow/mermaid"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(
		mcplib.NewResource(WorkflowURI, "Current Workflow",
			mcplib.WithResourceDescription("The compiled definition of the workflow being edited"),
			mcplib.WithMIMEType("application/json"),
		),
		s.handleWorkflowResource,
	)

	s.mcpServer.AddResource(
		mcplib.NewResource(WorkflowMermaidURI, "Current Workflow Diagram",
			mcplib.WithResourceDescription("Mermaid flowchart of the workflow being edited"),
			mcplib.WithMIMEType("text/plain"),
		),
		s.handleMermaidResource,
	)
}

func (s *Server) handleWorkflowResource(ctx context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	s.mu.Lock()
	def := s.editor.Compile()
	s.mu.Unlock()

	data, err := json.MarshalIndent(def, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("mcp: workflow resource: %w", err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      WorkflowURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleMermaidResource(ctx context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	s.mu.Lock()
	def := s.editor.Compile()
	s.mu.Unlock()

	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      WorkflowMermaidURI,
			MIMEType: "text/plain",
			Text:     graph.GenerateMermaid(&def, nil),
		},
	}, nil
}
