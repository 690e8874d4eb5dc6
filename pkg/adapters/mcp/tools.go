package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/agentdeck"
	"github.com/aretw0/agentdeck/pkg/domain"
	"github.com/aretw0/agentdeck/pkg/interaction"
	"github.com/aretw0/agentdeck/pkg/runner"
	"github.com/aretw0/agentdeck/pkg/session"
	mcplib "github.com/mark3labs/mcp-go/mcp"
)

// paletteEntry is one item of list_node_kinds.
type paletteEntry struct {
	Kind        string `json:"kind"`
	DisplayName string `json:"display_name"`
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcplib.NewTool("list_node_kinds",
			mcplib.WithDescription("List the node kinds that can be added to the workflow."),
			mcplib.WithReadOnlyHintAnnotation(true),
		),
		s.handleListNodeKinds,
	)

	s.mcpServer.AddTool(
		mcplib.NewTool("add_node",
			mcplib.WithDescription("Add a node of the given kind to the workflow. Returns the new node with its id."),
			mcplib.WithString("kind", mcplib.Required(), mcplib.Description("Node kind, see list_node_kinds")),
			mcplib.WithNumber("x", mcplib.Description("Canvas x position"), mcplib.DefaultNumber(0)),
			mcplib.WithNumber("y", mcplib.Description("Canvas y position"), mcplib.DefaultNumber(0)),
		),
		s.handleAddNode,
	)

	s.mcpServer.AddTool(
		mcplib.NewTool("connect_nodes",
			mcplib.WithDescription("Add a directed edge between two existing nodes. Duplicates and self-loops are allowed."),
			mcplib.WithString("source", mcplib.Required(), mcplib.Description("Source node id")),
			mcplib.WithString("target", mcplib.Required(), mcplib.Description("Target node id")),
		),
		s.handleConnectNodes,
	)

	s.mcpServer.AddTool(
		mcplib.NewTool("disconnect_nodes",
			mcplib.WithDescription("Remove every edge from source to target."),
			mcplib.WithString("source", mcplib.Required(), mcplib.Description("Source node id")),
			mcplib.WithString("target", mcplib.Required(), mcplib.Description("Target node id")),
		),
		s.handleDisconnectNodes,
	)

	s.mcpServer.AddTool(
		mcplib.NewTool("remove_node",
			mcplib.WithDescription("Remove a node and every edge touching it. Removing an absent node does nothing."),
			mcplib.WithString("id", mcplib.Required(), mcplib.Description("Node id")),
		),
		s.handleRemoveNode,
	)

	s.mcpServer.AddTool(
		mcplib.NewTool("update_node_config",
			mcplib.WithDescription("Merge keys into a node's config, e.g. {\"prompt\": \"...\"} or {\"tool\": \"web_search\"}."),
			mcplib.WithString("id", mcplib.Required(), mcplib.Description("Node id")),
			mcplib.WithObject("config", mcplib.Required(), mcplib.Description("Config keys to set")),
		),
		s.handleUpdateNodeConfig,
	)

	s.mcpServer.AddTool(
		mcplib.NewTool("move_node",
			mcplib.WithDescription("Move a node on the canvas."),
			mcplib.WithString("id", mcplib.Required(), mcplib.Description("Node id")),
			mcplib.WithNumber("x", mcplib.Required(), mcplib.Description("Canvas x position")),
			mcplib.WithNumber("y", mcplib.Required(), mcplib.Description("Canvas y position")),
		),
		s.handleMoveNode,
	)

	s.mcpServer.AddTool(
		mcplib.NewTool("compile_workflow",
			mcplib.WithDescription("Return the workflow definition the backend would execute."),
			mcplib.WithReadOnlyHintAnnotation(true),
		),
		s.handleCompileWorkflow,
	)

	s.mcpServer.AddTool(
		mcplib.NewTool("save_workflow",
			mcplib.WithDescription("Compile the workflow and create an agent from it."),
			mcplib.WithString("name", mcplib.Description("Agent name"), mcplib.DefaultString(domain.DefaultWorkflowName)),
			mcplib.WithBoolean("reset", mcplib.Description("Start an empty workflow after saving")),
		),
		s.handleSaveWorkflow,
	)

	s.mcpServer.AddTool(
		mcplib.NewTool("list_agents",
			mcplib.WithDescription("List the agents known to the backend."),
			mcplib.WithReadOnlyHintAnnotation(true),
		),
		s.handleListAgents,
	)

	s.mcpServer.AddTool(
		mcplib.NewTool("send_message",
			mcplib.WithDescription("Send a chat message to an agent and wait for its reply."),
			mcplib.WithString("agent_id", mcplib.Required(), mcplib.Description("Agent id, see list_agents")),
			mcplib.WithString("message", mcplib.Required(), mcplib.Description("Message text")),
		),
		s.handleSendMessage,
	)
}

func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcplib.NewToolResultText(string(data)), nil
}

func (s *Server) handleListNodeKinds(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	return s.withEditor(func(ed *agentdeck.Editor) (*mcplib.CallToolResult, error) {
		specs := ed.Controller.Palette()
		out := make([]paletteEntry, 0, len(specs))
		for _, sp := range specs {
			out = append(out, paletteEntry{Kind: string(sp.Kind), DisplayName: sp.DisplayName})
		}
		return jsonResult(out)
	})
}

func (s *Server) handleAddNode(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	kind := request.GetString("kind", "")
	x := request.GetFloat("x", 0)
	y := request.GetFloat("y", 0)

	return s.withEditor(func(ed *agentdeck.Editor) (*mcplib.CallToolResult, error) {
		n, ok := ed.Controller.Drop(interaction.DragPayload{Kind: kind}, interaction.Viewport{Zoom: 1}, x, y)
		if !ok {
			return mcplib.NewToolResultError(fmt.Sprintf("unknown node kind %q", kind)), nil
		}
		s.logger.Debug("mcp: node added", "id", n.ID, "kind", n.Kind)
		return jsonResult(n)
	})
}

func (s *Server) handleConnectNodes(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	source := request.GetString("source", "")
	target := request.GetString("target", "")
	if source == "" || target == "" {
		return mcplib.NewToolResultError("source and target are required"), nil
	}

	return s.withEditor(func(ed *agentdeck.Editor) (*mcplib.CallToolResult, error) {
		e, _, err := ed.Controller.ConnectRelease(source, target)
		if err != nil {
			return mcplib.NewToolResultError(err.Error()), nil
		}
		return jsonResult(e)
	})
}

func (s *Server) handleDisconnectNodes(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	source := request.GetString("source", "")
	target := request.GetString("target", "")

	return s.withEditor(func(ed *agentdeck.Editor) (*mcplib.CallToolResult, error) {
		removed := ed.Graph.Disconnect(source, target)
		return jsonResult(map[string]int{"removed": removed})
	})
}

func (s *Server) handleRemoveNode(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	id := request.GetString("id", "")

	return s.withEditor(func(ed *agentdeck.Editor) (*mcplib.CallToolResult, error) {
		existed := ed.Graph.Has(id)
		ed.Graph.RemoveNode(id)
		return jsonResult(map[string]bool{"removed": existed})
	})
}

func (s *Server) handleUpdateNodeConfig(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	id := request.GetString("id", "")
	patch, ok := request.GetArguments()["config"].(map[string]any)
	if !ok {
		return mcplib.NewToolResultError("config must be an object"), nil
	}

	return s.withEditor(func(ed *agentdeck.Editor) (*mcplib.CallToolResult, error) {
		if err := ed.Graph.UpdateNodeConfig(id, domain.Config(patch)); err != nil {
			return mcplib.NewToolResultError(err.Error()), nil
		}
		n, _ := ed.Graph.Node(id)
		return jsonResult(n)
	})
}

func (s *Server) handleMoveNode(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	id := request.GetString("id", "")
	pos := domain.Position{X: request.GetFloat("x", 0), Y: request.GetFloat("y", 0)}

	return s.withEditor(func(ed *agentdeck.Editor) (*mcplib.CallToolResult, error) {
		if err := ed.Graph.MoveNode(id, pos); err != nil {
			return mcplib.NewToolResultError(err.Error()), nil
		}
		n, _ := ed.Graph.Node(id)
		return jsonResult(n)
	})
}

func (s *Server) handleCompileWorkflow(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	return s.withEditor(func(ed *agentdeck.Editor) (*mcplib.CallToolResult, error) {
		return jsonResult(ed.Compile())
	})
}

func (s *Server) handleSaveWorkflow(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	name := request.GetString("name", "")
	reset := request.GetBool("reset", false)

	return s.withEditor(func(ed *agentdeck.Editor) (*mcplib.CallToolResult, error) {
		agent, err := s.console.SaveWorkflow(ctx, name, ed.Graph)
		if err != nil {
			return mcplib.NewToolResultError(err.Error()), nil
		}
		if reset {
			s.editor = s.console.NewWorkflow()
		}
		return jsonResult(agent)
	})
}

func (s *Server) handleListAgents(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	return jsonResult(s.console.Agents(ctx))
}

func (s *Server) handleSendMessage(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	agentID := request.GetString("agent_id", "")
	if agentID == "" {
		return mcplib.NewToolResultError("agent_id is required"), nil
	}
	clean, err := runner.SanitizeInput(request.GetString("message", ""))
	if err != nil {
		s.logger.Warn("mcp: message rejected", "err", err)
		return mcplib.NewToolResultError(fmt.Sprintf("input rejected: %v", err)), nil
	}

	if strings.TrimSpace(clean) == "" {
		return mcplib.NewToolResultError("message is required"), nil
	}

	chat, ok := s.sessions.Get(agentID)
	if !ok {
		agent, err := s.console.FindAgent(ctx, agentID)
		if errors.Is(err, domain.ErrAgentNotFound) {
			return mcplib.NewToolResultError(fmt.Sprintf("agent not found: %s", agentID)), nil
		}
		if err != nil {
			s.logger.Warn("mcp: agent lookup failed", "agent_id", agentID, "err", err)
			return mcplib.NewToolResultError(err.Error()), nil
		}
		chat = s.sessions.Open(agent.ID, session.WithGreeting(session.Greeting(agent.Name)))
	}

	reply, err := chat.Ask(ctx, clean)
	switch {
	case errors.Is(err, session.ErrEmptyMessage):
		return mcplib.NewToolResultError("message is required"), nil
	case errors.Is(err, session.ErrBusy):
		return mcplib.NewToolResultError("agent is still answering the previous message"), nil
	case err != nil:
		return nil, fmt.Errorf("mcp: send message: %w", err)
	}
	return jsonResult(reply)
}
