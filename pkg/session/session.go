package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/aretw0/agentdeck/internal/logging"
	"github.com/aretw0/agentdeck/pkg/domain"
)

var (
	// ErrEmptyMessage is returned by Ask when the text is blank.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrBusy is returned by Ask while a previous request is still in flight.
	ErrBusy = errors.New("a message is already being sent")
)

// Executor runs a task against an agent. *client.Client satisfies it.
type Executor interface {
	Execute(ctx context.Context, agentID, task string) (*domain.ExecuteResponse, error)
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, agentID, task string) (*domain.ExecuteResponse, error)

// Execute calls f.
func (f ExecutorFunc) Execute(ctx context.Context, agentID, task string) (*domain.ExecuteResponse, error) {
	return f(ctx, agentID, task)
}

// State is the lifecycle position of a Session.
type State int

const (
	// Idle accepts a new message.
	Idle State = iota
	// Sending has one request in flight.
	Sending
	// ErrorDisplayed is entered when a failed reply is appended. Observers see it
	// through OnChange; the session then returns to Idle.
	ErrorDisplayed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Sending:
		return "sending"
	case ErrorDisplayed:
		return "error"
	default:
		return "unknown"
	}
}

// Session is one conversation with one agent. It is safe for concurrent use.
type Session struct {
	agentID  string
	executor Executor
	logger   *slog.Logger
	onChange func()

	mu       sync.Mutex
	messages []domain.Message
	state    State
	inflight chan struct{}
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// WithGreeting seeds the transcript with an agent message.
func WithGreeting(text string) Option {
	return func(s *Session) {
		s.messages = append(s.messages, domain.Message{Role: domain.RoleAgent, Content: text})
	}
}

// OnChange registers a callback fired after every transcript or state change.
// It runs outside the session lock and may call back into the session.
func OnChange(fn func()) Option {
	return func(s *Session) {
		s.onChange = fn
	}
}

// Greeting is the first message shown when a chat with an agent opens.
func Greeting(agentName string) string {
	return "Hello! I am " + agentName + ". How can I help you?"
}

// New opens a session with the given agent.
func New(agentID string, exec Executor, opts ...Option) *Session {
	s := &Session{
		agentID:  agentID,
		executor: exec,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AgentID returns the agent this session talks to.
func (s *Session) AgentID() string {
	return s.agentID
}

// Send appends text as a user message and starts one execution request.
// It returns false, and discards text, when text is blank or a request is
// already in flight. The reply is appended asynchronously; use Wait to block
// until it arrives. Cancelling ctx abandons the request, which then surfaces
// as a network error.
func (s *Session) Send(ctx context.Context, text string) bool {
	_, _, ok := s.send(ctx, text)
	return ok
}

// send returns the in-flight channel and the transcript index of the user message.
func (s *Session) send(ctx context.Context, text string) (<-chan struct{}, int, bool) {
	s.mu.Lock()
	if strings.TrimSpace(text) == "" {
		s.mu.Unlock()
		s.logger.Debug("send refused: empty message", "agent_id", s.agentID)
		return nil, 0, false
	}
	if s.state == Sending {
		s.mu.Unlock()
		s.logger.Debug("send refused: request in flight", "agent_id", s.agentID)
		return nil, 0, false
	}
	s.messages = append(s.messages, domain.Message{Role: domain.RoleUser, Content: text})
	idx := len(s.messages) - 1
	s.state = Sending
	done := make(chan struct{})
	s.inflight = done
	s.mu.Unlock()

	s.notify()
	go s.run(ctx, text, done)
	return done, idx, true
}

func (s *Session) run(ctx context.Context, task string, done chan struct{}) {
	resp, err := s.executor.Execute(ctx, s.agentID, task)
	reply, failed := s.formatReply(resp, err)

	s.mu.Lock()
	s.messages = append(s.messages, domain.Message{Role: domain.RoleAgent, Content: reply})
	s.inflight = nil
	if failed {
		s.state = ErrorDisplayed
		s.mu.Unlock()
		s.notify()

		s.mu.Lock()
		// A send from the callback already moved the session on.
		if s.state == ErrorDisplayed {
			s.state = Idle
		}
	} else {
		s.state = Idle
	}
	close(done)
	s.mu.Unlock()

	s.notify()
}

func (s *Session) formatReply(resp *domain.ExecuteResponse, err error) (string, bool) {
	if err != nil {
		var be *domain.BackendError
		if errors.As(err, &be) {
			s.logger.Info("backend rejected execution", "agent_id", s.agentID, "status", be.StatusCode, "err", be.Message)
			return "Error: " + be.Message, true
		}
		s.logger.Warn("execution request failed", "agent_id", s.agentID, "err", err)
		return domain.NetworkErrorMessage, true
	}
	if resp == nil {
		s.logger.Warn("execution returned no response", "agent_id", s.agentID)
		return domain.NetworkErrorMessage, true
	}
	if !resp.Success {
		s.logger.Info("agent reported error", "agent_id", s.agentID, "err", resp.Error)
		return "Error: " + resp.Error, true
	}
	return resp.Output.Text(), false
}

func (s *Session) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}

// Wait blocks until no request is in flight or ctx is done.
func (s *Session) Wait(ctx context.Context) error {
	s.mu.Lock()
	done := s.inflight
	s.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ask sends text and waits for the reply message.
func (s *Session) Ask(ctx context.Context, text string) (domain.Message, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Message{}, ErrEmptyMessage
	}
	done, idx, ok := s.send(ctx, text)
	if !ok {
		return domain.Message{}, ErrBusy
	}
	select {
	case <-done:
	case <-ctx.Done():
		return domain.Message{}, ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// Sends are single-flight, so the reply directly follows the user message.
	return s.messages[idx+1], nil
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Pending reports whether a request is in flight.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == Sending
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
