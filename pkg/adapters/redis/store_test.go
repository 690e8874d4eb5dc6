package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/agentdeck/pkg/adapters/redis"
	"github.com/aretw0/agentdeck/pkg/domain"
	"github.com/aretw0/agentdeck/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, opts ...redis.Option) (*miniredis.Miniredis, *redis.Store) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := redis.NewFromClient(client, opts...)
	t.Cleanup(func() { _ = store.Close() })
	return mr, store
}

func TestRedisStore_Contract(t *testing.T) {
	_, store := setup(t)
	ports.RunAgentStoreContract(t, store)
}

func TestRedisStore_Keys(t *testing.T) {
	mr, store := setup(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.Agent{ID: "agent_1", Name: "One", Tools: []string{}}))

	assert.True(t, mr.Exists("agentdeck:agent:agent_1"))
	members, err := mr.ZMembers("agentdeck:agent:index")
	require.NoError(t, err)
	assert.Equal(t, []string{"agent_1"}, members)
	assert.Equal(t, time.Duration(0), mr.TTL("agentdeck:agent:agent_1"))
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, store := setup(t, redis.WithTTL(time.Minute), redis.WithPrefix("test:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.Agent{ID: "agent_1", Tools: []string{}}))
	assert.Equal(t, time.Minute, mr.TTL("test:agent_1"))

	mr.FastForward(2 * time.Minute)

	_, err := store.Load(ctx, "agent_1")
	assert.ErrorIs(t, err, domain.ErrAgentNotFound)

	agents, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, agents)

	members, _ := mr.ZMembers("test:index")
	assert.Empty(t, members, "expired ids are pruned from the index")
}

func TestRedisStore_NewFromURL(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	store, err := redis.NewFromURL("redis://" + mr.Addr() + "/0")
	require.NoError(t, err)
	defer store.Close()
	assert.NoError(t, store.Ping(context.Background()))

	_, err = redis.NewFromURL("://bad")
	assert.Error(t, err)
}
