// Package lock provides sequence.Guard implementations for serializing
// identifier allocation.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/erp/pos/internal/domain/sequence"
	"github.com/erp/pos/internal/domain/shared"
	"github.com/erp/pos/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrNotObtained is returned when the lock stays busy after all retries
var ErrNotObtained = shared.NewConflictError("LOCK_BUSY", "another terminal is saving, try again")

// RedisGuard serializes callers across processes with a Redis lock per key
type RedisGuard struct {
	locker     *redislock.Client
	ttl        time.Duration
	retryDelay time.Duration
	maxRetries int
	logger     *zap.Logger
}

// NewRedisGuard creates a guard over client
func NewRedisGuard(client redis.UniversalClient, cfg config.LockConfig, logger *zap.Logger) *RedisGuard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisGuard{
		locker:     redislock.New(client),
		ttl:        cfg.TTL,
		retryDelay: cfg.RetryDelay,
		maxRetries: cfg.MaxRetries,
		logger:     logger.Named("lock"),
	}
}

// Do obtains lock:<key>, runs fn and releases the lock
func (g *RedisGuard) Do(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	lockKey := "lock:" + key
	lock, err := g.locker.Obtain(ctx, lockKey, g.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(g.retryDelay), g.maxRetries),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		g.logger.Warn("Could not obtain lock", zap.String("key", lockKey))
		return ErrNotObtained
	}
	if err != nil {
		return fmt.Errorf("obtain %s: %w", lockKey, err)
	}
	defer func() {
		// Release with a fresh context so a cancelled request still frees the key.
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			g.logger.Warn("Failed to release lock", zap.String("key", lockKey), zap.Error(err))
		}
	}()

	return fn(ctx)
}

// NewGuard picks the guard named by cfg.Driver. A redis guard without a
// client falls back to a process-local guard.
func NewGuard(cfg config.LockConfig, client redis.UniversalClient, logger *zap.Logger) sequence.Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Driver {
	case "local":
		return sequence.NewLocalGuard()
	case "redis":
		if client == nil {
			logger.Warn("Redis unavailable, falling back to in-process id allocation lock. " +
				"Terminals sharing a store may still allocate duplicate ids.")
			return sequence.NewLocalGuard()
		}
		return NewRedisGuard(client, cfg, logger)
	default:
		return sequence.NoopGuard{}
	}
}

var _ sequence.Guard = (*RedisGuard)(nil)
