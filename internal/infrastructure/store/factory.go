package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/pos/internal/domain/shared"
	"github.com/erp/pos/internal/infrastructure/cache"
	"github.com/erp/pos/internal/infrastructure/config"
	"github.com/erp/pos/internal/infrastructure/logger"
	"github.com/erp/pos/internal/infrastructure/persistence"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const slowQueryThreshold = 200 * time.Millisecond

// Backend is an opened key/value backend plus the handles it owns
type Backend struct {
	KV     shared.KeyValueStore
	Driver string
	// Redis is set whenever a Redis connection is open, either because the
	// store lives there or because the lock driver needs it.
	Redis   *redis.Client
	closers []func() error
}

// Close releases every handle the backend opened
func (b *Backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = append(errs, b.closers[i]())
	}
	return errors.Join(errs...)
}

// Open connects the backend selected by cfg.Store.Driver
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Backend, error) {
	if log == nil {
		log = zap.NewNop()
	}
	b := &Backend{Driver: cfg.Store.Driver}

	switch cfg.Store.Driver {
	case "memory":
		b.KV = NewMemoryStore()
		log.Warn("Using in-memory record store; data is lost on restart")

	case "sqlite":
		s, err := NewSQLiteStore(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		b.KV = s
		b.closers = append(b.closers, s.Close)

	case "postgres":
		gormLogger := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), slowQueryThreshold)
		db, err := persistence.NewDatabase(&cfg.Database,
			persistence.WithLogger(gormLogger),
			persistence.WithTracing(cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled),
		)
		if err != nil {
			return nil, err
		}
		b.KV = persistence.NewGormKeyValueStore(db.DB)
		b.closers = append(b.closers, db.Close)

	case "redis":
		if err := b.connectRedis(ctx, cfg); err != nil {
			return nil, err
		}
		b.KV = cache.NewRedisStore(b.Redis, cfg.Store.KeyPrefix)

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	if cfg.Lock.Driver == "redis" && b.Redis == nil {
		if err := b.connectRedis(ctx, cfg); err != nil {
			log.Warn("Redis lock requested but Redis is unreachable", zap.Error(err))
		}
	}

	log.Info("Record store opened",
		zap.String("driver", b.Driver),
		zap.Bool("redis", b.Redis != nil),
	)
	return b, nil
}

func (b *Backend) connectRedis(ctx context.Context, cfg *config.Config) error {
	client, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	b.Redis = client
	b.closers = append(b.closers, client.Close)
	return nil
}
