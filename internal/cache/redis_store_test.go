package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis container in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancel)

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: host + ":" + port.Port()})
	t.Cleanup(func() {
		_ = rdb.Close()
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cleanupCancel()
		_ = container.Terminate(cleanupCtx)
	})
	return rdb
}

func TestRedisStoreRoundTripAndRetention(t *testing.T) {
	rdb := startRedis(t)
	ctx := context.Background()
	store := NewRedisStore(rdb, "test:fetch:", time.Minute)

	_, err := store.Get(ctx, "http://catalog/products/a")
	assert.ErrorIs(t, err, ErrNotFound)

	storedAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Set(ctx, "http://catalog/products/a", Entry{Body: []byte(`{"slug":"a"}`), StoredAt: storedAt}))

	e, err := store.Get(ctx, "http://catalog/products/a")
	require.NoError(t, err)
	assert.Equal(t, `{"slug":"a"}`, string(e.Body))
	assert.True(t, storedAt.Equal(e.StoredAt))

	keys, err := rdb.Keys(ctx, "test:fetch:*").Result()
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Len(t, keys[0], len("test:fetch:")+64)

	ttl, err := rdb.TTL(ctx, keys[0]).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}

func TestCacheOverRedisStoreSharesEntriesAcrossInstances(t *testing.T) {
	rdb := startRedis(t)
	ctx := context.Background()

	first := New(NewRedisStore(rdb, "shared:", time.Hour))
	second := New(NewRedisStore(rdb, "shared:", time.Hour))

	calls := 0
	load := func(context.Context) ([]byte, error) {
		calls++
		return []byte("body"), nil
	}

	_, err := first.Fetch(ctx, "http://catalog/products/search?q=moletom", time.Hour, load)
	require.NoError(t, err)
	body, err := second.Fetch(ctx, "http://catalog/products/search?q=moletom", time.Hour, load)
	require.NoError(t, err)

	assert.Equal(t, "body", string(body))
	assert.Equal(t, 1, calls)
}
