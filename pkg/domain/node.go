package domain

// NodeKind enumerates the closed set of workflow node types.
type NodeKind string

const (
	// KindLLM calls a language model with a prompt.
	KindLLM NodeKind = "llm"
	// KindTool invokes a named tool.
	KindTool NodeKind = "tool"
	// KindHITL pauses the workflow for human approval.
	KindHITL NodeKind = "hitl"
	// KindRouter branches the workflow.
	KindRouter NodeKind = "router"
	// KindPythonREPL executes Python code in the backend sandbox.
	KindPythonREPL NodeKind = "python_repl"
)

// Kinds lists every NodeKind in palette order.
var Kinds = []NodeKind{KindLLM, KindTool, KindHITL, KindRouter, KindPythonREPL}

// Valid reports whether k belongs to the closed set.
func (k NodeKind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

func (k NodeKind) String() string { return string(k) }

// Position is a canvas coordinate. It only matters for layout.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Config is the opaque, kind-specific node configuration.
// The core never interprets its contents; values must be JSON-serializable.
type Config map[string]any

// Clone returns a deep copy of the nested maps and slices in c.
func (c Config) Clone() Config {
	if c == nil {
		return nil
	}
	out := make(Config, len(c))
	for k, v := range c {
		out[k] = cloneValue(v)
	}
	return out
}

// Label returns the "label" entry if it is a string.
func (c Config) Label() string {
	s, _ := c[KeyLabel].(string)
	return s
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, inner := range t {
			m[k] = cloneValue(inner)
		}
		return m
	case Config:
		return t.Clone()
	case []any:
		s := make([]any, len(t))
		for i, inner := range t {
			s[i] = cloneValue(inner)
		}
		return s
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}

// Node is a vertex of the workflow graph being edited.
type Node struct {
	ID       string   `json:"id" yaml:"id"`
	Kind     NodeKind `json:"kind" yaml:"kind"`
	Position Position `json:"position" yaml:"position"`
	Config   Config   `json:"config" yaml:"config"`
}

// Edge is a directed link between two nodes. It has no identity beyond the pair.
type Edge struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}
