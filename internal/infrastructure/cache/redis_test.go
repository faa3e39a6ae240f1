package cache

import (
	"context"
	"testing"
	"time"

	"github.com/erp/pos/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableClient points at a port nothing listens on
func unreachableClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	_, err := NewRedisClient(context.Background(), config.RedisConfig{Host: "127.0.0.1", Port: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
}

func TestRedisStore_KeyPrefix(t *testing.T) {
	store := NewRedisStore(unreachableClient(), "shop1:")
	assert.Equal(t, "shop1:products", store.key("products"))

	bare := NewRedisStore(unreachableClient(), "")
	assert.Equal(t, "products", bare.key("products"))
}

func TestRedisStore_ErrorsWrapKey(t *testing.T) {
	store := NewRedisStore(unreachableClient(), "pos:")
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "products")
	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "redis get products")

	err = store.Set(ctx, "products", []byte(`[]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis set products")

	err = store.Remove(ctx, "products")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis del products")
}
