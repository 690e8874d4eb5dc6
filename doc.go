/*
Package agentdeck is a console for authoring, inspecting and running conversational AI agents.

Its core is a workflow graph editor: typed nodes (llm, tool, hitl, router, python_repl) are
placed and connected on a canvas, and the resulting graph compiles into the workflow
definition an agent backend executes. Once an agent exists, a chat session drives it one
message at a time.

# Concept

The Console is a thin facade over the packages that carry the behavior:

  - pkg/graph holds the live graph and its invariants (unique ids, no dangling edges).
  - pkg/interaction turns drop and connect gestures into graph mutations.
  - pkg/compiler projects a graph onto the backend's {nodes, edges} definition.
  - pkg/session runs a single-flight chat against one agent.
  - pkg/client speaks the backend's JSON API.

Backend failures never escape as fatal errors: listing agents degrades to an empty list,
the component catalog to empty choices, and a failed execution to an agent message.

# Usage

	console, err := agentdeck.New("http://127.0.0.1:8000")
	if err != nil {
		log.Fatal(err)
	}

	ed := console.NewWorkflow()
	start, _ := ed.Controller.Drop(interaction.DragPayload{Kind: "llm"}, interaction.Viewport{Zoom: 1}, 250, 5)
	review, _ := ed.Controller.Drop(interaction.DragPayload{Kind: "hitl"}, interaction.Viewport{Zoom: 1}, 250, 120)
	ed.Controller.ConnectRelease(start.ID, review.ID)

	agent, err := console.SaveWorkflow(ctx, "Reviewer", ed.Graph)
	if err != nil {
		log.Fatal(err)
	}

	chat, _ := console.OpenChat(ctx, agent.ID)
	reply, _ := chat.Ask(ctx, "Draft a release note")
	fmt.Println(reply.Content)
*/
package agentdeck
