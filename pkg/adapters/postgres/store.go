// Package postgres provides an AgentStore backed by PostgreSQL via pgx.
// Agents are stored as JSONB documents in a single table.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/agentdeck/pkg/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS agentdeck_agents (
    id         TEXT PRIMARY KEY,
    data       JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// Store implements ports.AgentStore using PostgreSQL.
type Store struct {
	db *pgxpool.Pool
}

// New creates a Store backed by the given pool.
func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Connect opens a pool for url and makes sure the schema exists.
func Connect(ctx context.Context, url string) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	s := New(pool)
	if err := s.CreateSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// CreateSchema creates the agents table if it does not exist.
func (s *Store) CreateSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("postgres: create schema: %w", err)
	}
	return nil
}

// DropSchema drops the agents table.
func (s *Store) DropSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DROP TABLE IF EXISTS agentdeck_agents`)
	return err
}

// Save upserts the agent. created_at keeps the first save time.
func (s *Store) Save(ctx context.Context, agent *domain.Agent) error {
	data, err := json.Marshal(agent)
	if err != nil {
		return fmt.Errorf("postgres: marshal agent: %w", err)
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO agentdeck_agents (id, data) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`,
		agent.ID, data,
	)
	if err != nil {
		return fmt.Errorf("postgres: save agent: %w", err)
	}
	return nil
}

// Load fetches one agent.
func (s *Store) Load(ctx context.Context, id string) (*domain.Agent, error) {
	var data []byte
	err := s.db.QueryRow(ctx, `SELECT data FROM agentdeck_agents WHERE id = $1`, id).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAgentNotFound
		}
		return nil, fmt.Errorf("postgres: get agent: %w", err)
	}

	var agent domain.Agent
	if err := json.Unmarshal(data, &agent); err != nil {
		return nil, fmt.Errorf("postgres: decode agent %s: %w", id, err)
	}
	return &agent, nil
}

// Delete removes the agent. No error if it does not exist.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM agentdeck_agents WHERE id = $1`, id); err != nil {
		return fmt.Errorf("postgres: delete agent: %w", err)
	}
	return nil
}

// List returns all agents ordered by created_at.
// Returns an empty slice (not nil) if none found.
func (s *Store) List(ctx context.Context) ([]domain.Agent, error) {
	rows, err := s.db.Query(ctx, `SELECT id, data FROM agentdeck_agents ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list agents: %w", err)
	}
	defer rows.Close()

	agents := []domain.Agent{}
	for rows.Next() {
		var (
			id   string
			data []byte
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("postgres: scan agent: %w", err)
		}
		var agent domain.Agent
		if err := json.Unmarshal(data, &agent); err != nil {
			return nil, fmt.Errorf("postgres: decode agent %s: %w", id, err)
		}
		agents = append(agents, agent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: rows agents: %w", err)
	}
	return agents, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close releases the pool.
func (s *Store) Close() {
	s.db.Close()
}
