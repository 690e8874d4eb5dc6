/*
Package ports defines the driven ports of the reference backend.

# Key Interfaces

  - AgentStore: persists Agent records (memory, JSON files, Redis or Postgres).
  - Executor: runs a task against a stored agent.

RunAgentStoreContract is the shared test suite every AgentStore adapter must pass.
*/
package ports
