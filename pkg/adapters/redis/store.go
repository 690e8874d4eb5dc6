// Package redis provides an AgentStore backed by Redis.
//
// Each agent is a JSON string under <prefix><id>. A sorted set under <prefix>index
// holds the ids scored by save time, which gives List its order and lets expired
// entries be pruned lazily when a TTL is configured.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aretw0/agentdeck/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by the store.
const DefaultPrefix = "agentdeck:agent:"

// Store implements ports.AgentStore using Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for agents. Zero, the default, keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a Redis store for the server at address.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromURL creates a Redis store from a redis:// URL.
func NewFromURL(url string, opts ...Option) (*Store, error) {
	o, err := backend.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return NewFromClient(backend.NewClient(o), opts...), nil
}

// NewFromClient creates a Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(id string) string {
	return s.prefix + id
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Save writes the agent JSON and records it in the index.
func (s *Store) Save(ctx context.Context, agent *domain.Agent) error {
	data, err := json.Marshal(agent)
	if err != nil {
		return fmt.Errorf("failed to marshal agent: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(agent.ID), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  float64(time.Now().UnixNano()),
		Member: agent.ID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the agent.
func (s *Store) Load(ctx context.Context, id string) (*domain.Agent, error) {
	val, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrAgentNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var agent domain.Agent
	if err := json.Unmarshal(val, &agent); err != nil {
		return nil, fmt.Errorf("failed to unmarshal agent: %w", err)
	}
	return &agent, nil
}

// Delete removes the agent and its index entry.
func (s *Store) Delete(ctx context.Context, id string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(id))
	pipe.ZRem(ctx, s.indexKey(), id)
	_, err := pipe.Exec(ctx)
	return err
}

// List returns agents in save order. Index entries whose key has expired are
// pruned on the way.
func (s *Store) List(ctx context.Context) ([]domain.Agent, error) {
	if s.ttl > 0 {
		cutoff := time.Now().Add(-s.ttl).UnixNano()
		err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", "("+strconv.FormatInt(cutoff, 10)).Err()
		if err != nil {
			return nil, fmt.Errorf("failed to prune expired agents: %w", err)
		}
	}

	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	if len(ids) == 0 {
		return []domain.Agent{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key(id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load agents: %w", err)
	}

	agents := make([]domain.Agent, 0, len(vals))
	var stale []any
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			stale = append(stale, ids[i])
			continue
		}
		var agent domain.Agent
		if err := json.Unmarshal([]byte(raw), &agent); err != nil {
			return nil, fmt.Errorf("failed to unmarshal agent %s: %w", ids[i], err)
		}
		agents = append(agents, agent)
	}
	if len(stale) > 0 {
		if err := s.client.ZRem(ctx, s.indexKey(), stale...).Err(); err != nil {
			return nil, fmt.Errorf("failed to prune stale index entries: %w", err)
		}
	}
	return agents, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
