package dsl

import (
	"fmt"
	"os"

	"github.com/aretw0/agentdeck/pkg/domain"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Script is the file form of a workflow. JSON is accepted as a YAML subset.
type Script struct {
	Name  string       `yaml:"name" json:"name"`
	Nodes []ScriptNode `yaml:"nodes" json:"nodes" validate:"dive"`
}

// ScriptNode declares one node of a Script.
type ScriptNode struct {
	Ref      string           `yaml:"ref" json:"ref" validate:"required"`
	Kind     string           `yaml:"kind" json:"kind" validate:"required"`
	Position *domain.Position `yaml:"position,omitempty" json:"position,omitempty"`
	Config   domain.Config    `yaml:"config,omitempty" json:"config,omitempty"`
	Next     []string         `yaml:"next,omitempty" json:"next,omitempty"`
}

var scriptValidator = validator.New()

// ParseScript decodes and validates a script.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	if err := scriptValidator.Struct(&s); err != nil {
		return nil, fmt.Errorf("invalid script: %w", err)
	}
	seen := make(map[string]bool, len(s.Nodes))
	for _, n := range s.Nodes {
		if seen[n.Ref] {
			return nil, fmt.Errorf("invalid script: duplicate ref %q", n.Ref)
		}
		seen[n.Ref] = true
	}
	return &s, nil
}

// LoadScript reads and parses a script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return ParseScript(data)
}

// Builder converts the script into a Builder.
func (s *Script) Builder() *Builder {
	b := New()
	for _, sn := range s.Nodes {
		nb := b.Add(sn.Ref, domain.NodeKind(sn.Kind))
		for k, v := range sn.Config.Clone() {
			nb.Set(k, v)
		}
		if sn.Position != nil {
			nb.At(sn.Position.X, sn.Position.Y)
		}
		nb.Go(sn.Next...)
	}
	return b
}

// Build is shorthand for s.Builder().Build(opts...).
func (s *Script) Build(opts ...BuildOption) (*Result, error) {
	return s.Builder().Build(opts...)
}
