package agentdeck_test

import (
	"context"
	"fmt"
	"net/http/httptest"

	"github.com/aretw0/agentdeck"
	deckhttp "github.com/aretw0/agentdeck/pkg/adapters/http"
	"github.com/aretw0/agentdeck/pkg/adapters/memory"
	"github.com/aretw0/agentdeck/pkg/executor"
	"github.com/aretw0/agentdeck/pkg/interaction"
)

// Example builds a two-node workflow, saves it as an agent and chats with it.
func Example() {
	backend := httptest.NewServer(deckhttp.NewServer(memory.NewStore(), executor.NewPlanner()).Handler())
	defer backend.Close()

	console, err := agentdeck.New(backend.URL)
	if err != nil {
		panic(err)
	}
	ctx := context.Background()

	ed := console.NewWorkflow()
	view := interaction.Viewport{Zoom: 1}
	draft, _ := ed.Controller.Drop(interaction.DragPayload{Kind: "llm"}, view, 250, 5)
	review, _ := ed.Controller.Drop(interaction.DragPayload{Kind: "hitl"}, view, 250, 120)
	ed.Controller.ConnectRelease(draft.ID, review.ID)

	def := ed.Compile()
	fmt.Println(len(def.Nodes), "nodes,", len(def.Edges), "edge")

	agent, err := console.SaveWorkflow(ctx, "Reviewer", ed.Graph)
	if err != nil {
		panic(err)
	}

	chat, _ := console.OpenChat(ctx, agent.ID)
	reply, _ := chat.Ask(ctx, "release notes")
	fmt.Println(reply.Content)

	// Output:
	// 2 nodes, 1 edge
	// 1. llm node (llm): Input: release notes
	// 2. hitl node (hitl): Approval Required
	// Awaiting approval. Send a message to continue.
}
