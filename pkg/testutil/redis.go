package testutil

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// RedisContainer is a Redis 7 instance with a connected client.
type RedisContainer struct {
	URL    string
	Client *redis.Client
}

// NewRedisContainer starts Redis and returns a pinged client.
func NewRedisContainer(ctx context.Context, t *testing.T) *RedisContainer {
	t.Helper()
	skipShort(t)

	ctr, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err, "start redis container")
	terminateOnCleanup(t, "redis", ctr)

	url, err := ctr.ConnectionString(ctx)
	require.NoError(t, err, "redis connection string")

	opts, err := redis.ParseURL(url)
	require.NoError(t, err, "parse redis url %q", url)
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err(), "ping redis")

	return &RedisContainer{URL: url, Client: client}
}
