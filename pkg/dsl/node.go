package dsl

import "github.com/aretw0/agentdeck/pkg/domain"

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	ref     string
	kind    domain.NodeKind
	pos     *domain.Position
	config  domain.Config
	next    []string
	builder *Builder
}

// Ref returns the node's reference.
func (n *NodeBuilder) Ref() string {
	return n.ref
}

// Set stores an arbitrary config key.
func (n *NodeBuilder) Set(key string, value any) *NodeBuilder {
	n.config[key] = value
	return n
}

// Label sets the display label.
func (n *NodeBuilder) Label(label string) *NodeBuilder {
	return n.Set(domain.KeyLabel, label)
}

// Prompt sets the prompt of an llm node. "{input}" is replaced by the task at run time.
func (n *NodeBuilder) Prompt(prompt string) *NodeBuilder {
	return n.Set(domain.KeyPrompt, prompt)
}

// Tool sets the tool a tool node invokes.
func (n *NodeBuilder) Tool(name string) *NodeBuilder {
	return n.Set(domain.KeyTool, name)
}

// Message sets the approval message of a hitl node.
func (n *NodeBuilder) Message(msg string) *NodeBuilder {
	return n.Set(domain.KeyMessage, msg)
}

// Code sets the source of a python_repl node.
func (n *NodeBuilder) Code(src string) *NodeBuilder {
	return n.Set(domain.KeyCode, src)
}

// Route sets the route names of a router node.
func (n *NodeBuilder) Route(routes ...string) *NodeBuilder {
	return n.Set(domain.KeyRoutes, append([]string{}, routes...))
}

// At pins the node to a canvas position. Unpinned nodes are laid out in a column.
func (n *NodeBuilder) At(x, y float64) *NodeBuilder {
	n.pos = &domain.Position{X: x, Y: y}
	return n
}

// Go adds edges from this node to the given references.
func (n *NodeBuilder) Go(refs ...string) *NodeBuilder {
	n.next = append(n.next, refs...)
	return n
}
