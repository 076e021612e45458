package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/blackjack/pkg/adapters/redis"
	"github.com/aretw0/blackjack/pkg/domain"
	"github.com/aretw0/blackjack/pkg/history"
	"github.com/aretw0/blackjack/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	store := redis.NewFromClient(client)
	ports.RunHistoryStoreContract(t, store)
}

func TestRedisStore_PrefixAndTTL(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithPrefix("test:"), redis.WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))
	require.NoError(t, store.Save(ctx, "t1", history.NewRoot(domain.NewSnapshot())))
	assert.True(t, mr.Exists("test:t1"))
	assert.Equal(t, time.Minute, mr.TTL("test:t1"))

	mr.FastForward(2 * time.Minute)
	_, err := store.Load(ctx, "t1")
	assert.ErrorIs(t, err, domain.ErrTableNotFound)
}

func TestRedisStore_ListPrunesExpired(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithPrefix("test:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "live", history.NewRoot(domain.NewSnapshot())))
	_, err := mr.ZAdd("test:index", 1, "stale")
	require.NoError(t, err)

	tables, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"live"}, tables)
}
