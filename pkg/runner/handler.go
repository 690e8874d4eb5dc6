package runner

import (
	"context"

	"github.com/aretw0/agentdeck/pkg/domain"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (terminal) and JSON (structured) modes.
type IOHandler interface {
	// Output presents new chat messages, oldest first.
	Output(ctx context.Context, msgs []domain.Message) error

	// Input reads the next message from the user.
	// It returns io.EOF when the input is exhausted.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a notice that is not part of the conversation.
	SystemOutput(ctx context.Context, msg string) error
}

// Waiter is implemented by handlers that show a placeholder while a reply is pending.
type Waiter interface {
	Waiting(ctx context.Context)
}

// ContentRenderer transforms agent replies before they are written,
// e.g. markdown to ANSI.
type ContentRenderer func(string) (string, error)
