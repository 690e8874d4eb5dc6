/*
Package dsl builds agentdeck workflow graphs from Go code or from a script file.

A workflow is described by references (stable, human names) instead of node ids. Build
replays the description through an interaction.Controller exactly as an editor would:
every node is dropped from the palette, then every edge is connected. The resulting graph
therefore obeys the same rules as one drawn by hand, and the returned Result maps each
reference to the id the graph assigned.

Example usage:

	b := dsl.New()

	b.Add("research", domain.KindLLM).
		Label("Research").
		Prompt("Find facts about {input}").
		Go("search")

	b.Add("search", domain.KindTool).
		Tool("web_search").
		Go("review")

	b.Add("review", domain.KindHITL).
		Message("Publish the summary?")

	res, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}
	def := compiler.Compile(res.Graph)

The same workflow as a script (YAML or JSON):

	name: Research Agent
	nodes:
	  - ref: research
	    kind: llm
	    config: {label: Research, prompt: "Find facts about {input}"}
	    next: [search]
	  - ref: search
	    kind: tool
	    config: {tool: web_search}
	    next: [review]
	  - ref: review
	    kind: hitl
	    config: {message: Publish the summary?}
*/
package dsl
