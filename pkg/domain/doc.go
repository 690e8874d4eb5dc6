/*
Package domain contains the core data model of the agentdeck console.

It defines the entities the workflow editor manipulates and the shapes exchanged with the
agent-management backend. This package is kept pure and free of I/O, following the same
hexagonal split as the rest of the module: adapters depend on domain, never the reverse.

# Key Entities

  - Node / Edge: the units of a workflow graph being edited (see package graph).
  - WorkflowDefinition: the compiled, backend-executable projection of a graph.
  - Agent: a named, configured conversational entity created by the backend.
  - Message: one entry of a chat transcript with an agent.
*/
package domain
