package tui

import (
	"strings"

	"github.com/aretw0/agentdeck/pkg/domain"
	"github.com/muesli/termenv"
)

// Role colors of the chat transcript.
const (
	userColor  = "#60a5fa"
	agentColor = "#a78bfa"
	errorColor = "#f87171"
)

// Speaker returns the colored name shown before a message.
func Speaker(p termenv.Profile, m domain.Message) string {
	switch {
	case m.Role == domain.RoleUser:
		return p.String("you").Foreground(p.Color(userColor)).Bold().String()
	case IsErrorReply(m):
		return p.String("agent").Foreground(p.Color(errorColor)).Bold().String()
	default:
		return p.String("agent").Foreground(p.Color(agentColor)).Bold().String()
	}
}

// IsErrorReply reports whether an agent message carries a failure.
func IsErrorReply(m domain.Message) bool {
	if m.Role != domain.RoleAgent {
		return false
	}
	return m.Content == domain.NetworkErrorMessage || strings.HasPrefix(m.Content, "Error: ")
}

// Thinking is the placeholder shown while a reply is pending.
func Thinking(p termenv.Profile) string {
	return p.String("Thinking...").Foreground(p.Color(agentColor)).Italic().String()
}
