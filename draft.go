package agentdeck

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/agentdeck/pkg/domain"
	"github.com/go-playground/validator/v10"
)

// AgentDraft is the manual builder form.
type AgentDraft struct {
	Name         string
	Instructions string
	Model        string
	Tools        []string
	Memory       bool
	Safety       bool
}

// NewAgentDraft returns a draft with the builder defaults.
func NewAgentDraft() *AgentDraft {
	return &AgentDraft{
		Model:  domain.DefaultModel,
		Tools:  []string{},
		Safety: true,
	}
}

// ToggleTool adds the tool if absent and removes it otherwise.
func (d *AgentDraft) ToggleTool(id string) {
	for i, t := range d.Tools {
		if t == id {
			d.Tools = append(d.Tools[:i:i], d.Tools[i+1:]...)
			return
		}
	}
	d.Tools = append(d.Tools, id)
}

// HasTool reports whether the tool is selected.
func (d *AgentDraft) HasTool(id string) bool {
	for _, t := range d.Tools {
		if t == id {
			return true
		}
	}
	return false
}

// Payload converts the draft into the creation payload.
func (d *AgentDraft) Payload() domain.AgentCreate {
	tools := append([]string{}, d.Tools...)
	return domain.AgentCreate{
		Name:         strings.TrimSpace(d.Name),
		Instructions: strings.TrimSpace(d.Instructions),
		Model:        d.Model,
		Tools:        tools,
		Memory:       d.Memory,
		Safety:       d.Safety,
	}
}

var draftValidator = validator.New()

// Validate checks the required form fields.
func (d *AgentDraft) Validate() error {
	err := draftValidator.Struct(d.Payload())
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, strings.ToLower(fe.Field()))
	}
	return fmt.Errorf("agent draft incomplete: %s required", strings.Join(missing, ", "))
}
