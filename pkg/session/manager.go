package session

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/aretw0/agentdeck/internal/logging"
)

// Manager keeps one live Session per agent id.
type Manager struct {
	executor Executor
	logger   *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// ManagerOption configures the Manager.
type ManagerOption func(*Manager)

// WithManagerLogger sets the logger handed to every session the manager opens.
func WithManagerLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = l
	}
}

// NewManager creates a Manager whose sessions execute through exec.
func NewManager(exec Executor, opts ...ManagerOption) *Manager {
	m := &Manager{
		executor: exec,
		logger:   logging.NewNop(),
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open returns the agent's session, creating it with opts if none is open.
// opts are ignored for an existing session.
func (m *Manager) Open(agentID string, opts ...Option) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[agentID]; ok {
		return s
	}
	all := append([]Option{WithLogger(m.logger)}, opts...)
	s := New(agentID, m.executor, all...)
	m.sessions[agentID] = s
	m.logger.Debug("chat session opened", "agent_id", agentID)
	return s
}

// Get returns the open session of an agent.
func (m *Manager) Get(agentID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[agentID]
	return s, ok
}

// Close discards the agent's session. Its transcript is not kept anywhere.
func (m *Manager) Close(agentID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, agentID)
}

// List returns the ids of agents with an open session, sorted.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
