package domain

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// LLMConfig is the typed view of an llm node config.
type LLMConfig struct {
	Label  string `json:"label" mapstructure:"label"`
	Prompt string `json:"prompt,omitempty" mapstructure:"prompt"`
}

// ToolConfig is the typed view of a tool node config.
type ToolConfig struct {
	Label string         `json:"label" mapstructure:"label"`
	Tool  string         `json:"tool,omitempty" mapstructure:"tool"`
	Args  map[string]any `json:"args,omitempty" mapstructure:"args"`
}

// HITLConfig is the typed view of a human-in-the-loop node config.
type HITLConfig struct {
	Label   string `json:"label" mapstructure:"label"`
	Message string `json:"message,omitempty" mapstructure:"message"`
}

// RouterConfig is the typed view of a router node config.
// Routes maps a route name to a target node id.
type RouterConfig struct {
	Label  string            `json:"label" mapstructure:"label"`
	Routes map[string]string `json:"routes,omitempty" mapstructure:"routes"`
}

// PythonREPLConfig is the typed view of a python_repl node config.
type PythonREPLConfig struct {
	Label string `json:"label" mapstructure:"label"`
	Code  string `json:"code,omitempty" mapstructure:"code"`
}

// DecodeConfig decodes the opaque config into one of the typed views.
// Unknown keys are ignored; the view only sees what it declares.
func DecodeConfig(cfg Config, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return fmt.Errorf("failed to build config decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(cfg)); err != nil {
		return fmt.Errorf("failed to decode node config: %w", err)
	}
	return nil
}

// Summary returns a short human description of a node config for its kind,
// e.g. the prompt of an llm node or the tool name of a tool node.
// It returns "" when the config carries nothing beyond a label.
func Summary(kind NodeKind, cfg Config) string {
	switch kind {
	case KindLLM:
		var v LLMConfig
		if DecodeConfig(cfg, &v) == nil {
			return v.Prompt
		}
	case KindTool:
		var v ToolConfig
		if DecodeConfig(cfg, &v) == nil {
			return v.Tool
		}
	case KindHITL:
		var v HITLConfig
		if DecodeConfig(cfg, &v) == nil {
			return v.Message
		}
	case KindPythonREPL:
		var v PythonREPLConfig
		if DecodeConfig(cfg, &v) == nil {
			return v.Code
		}
	case KindRouter:
		var v RouterConfig
		if DecodeConfig(cfg, &v) == nil && len(v.Routes) > 0 {
			return fmt.Sprintf("%d routes", len(v.Routes))
		}
	}
	return ""
}
