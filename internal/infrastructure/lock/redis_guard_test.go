package lock

import (
	"context"
	"testing"
	"time"

	"github.com/erp/pos/internal/domain/sequence"
	"github.com/erp/pos/internal/domain/shared"
	"github.com/erp/pos/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGuard(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()

	tests := []struct {
		name   string
		driver string
		client redis.UniversalClient
		want   any
	}{
		{"none", "none", nil, sequence.NoopGuard{}},
		{"empty", "", nil, sequence.NoopGuard{}},
		{"local", "local", nil, &sequence.LocalGuard{}},
		{"redis without client", "redis", nil, &sequence.LocalGuard{}},
		{"redis", "redis", client, &RedisGuard{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGuard(config.LockConfig{Driver: tt.driver}, tt.client, nil)
			assert.IsType(t, tt.want, g)
		})
	}
}

func TestRedisGuard_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	g := NewRedisGuard(client, config.LockConfig{TTL: time.Second, RetryDelay: time.Millisecond}, nil)
	called := false
	err := g.Do(context.Background(), "products", func(context.Context) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, called)
	assert.Contains(t, err.Error(), "obtain lock:products")
	assert.Equal(t, shared.KindConflict, shared.KindOf(ErrNotObtained))
}
