// Package memory provides an in-memory AgentStore.
package memory

import (
	"context"
	"sync"

	"github.com/aretw0/agentdeck/pkg/domain"
)

// Store implements ports.AgentStore in memory. Agents are listed in the order
// they were first saved. Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	data  map[string]*domain.Agent
	order []string
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Agent),
	}
}

// Save stores a copy of the agent.
func (s *Store) Save(ctx context.Context, agent *domain.Agent) error {
	copied := agent.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data[agent.ID]; !exists {
		s.order = append(s.order, agent.ID)
	}
	s.data[agent.ID] = copied
	return nil
}

// Load returns a copy so callers cannot mutate stored agents.
func (s *Store) Load(ctx context.Context, id string) (*domain.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	agent, ok := s.data[id]
	if !ok {
		return nil, domain.ErrAgentNotFound
	}
	return agent.Clone(), nil
}

// Delete removes the agent.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[id]; !ok {
		return nil
	}
	delete(s.data, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns copies of every agent.
func (s *Store) List(ctx context.Context) ([]domain.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	agents := make([]domain.Agent, 0, len(s.order))
	for _, id := range s.order {
		agents = append(agents, *s.data[id].Clone())
	}
	return agents, nil
}
