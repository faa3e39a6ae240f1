// Package store provides the record store used by every page: a typed JSON
// layer over a raw key/value backend.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/erp/pos/internal/domain/shared"
	"github.com/erp/pos/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// JSONRecordStore stores collections of T as JSON arrays
type JSONRecordStore[T any] struct {
	kv     shared.KeyValueStore
	logger *zap.Logger
}

// NewJSONRecordStore creates a typed record store over kv
func NewJSONRecordStore[T any](kv shared.KeyValueStore, logger *zap.Logger) *JSONRecordStore[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JSONRecordStore[T]{kv: kv, logger: logger}
}

// Load returns the collection under key. A missing key, a backend failure or
// malformed JSON all yield an empty collection; failures are logged.
func (s *JSONRecordStore[T]) Load(ctx context.Context, key string) []T {
	items, err := s.load(ctx, key)
	if err != nil {
		s.log(ctx).Error("record store read failed, treating as empty",
			zap.String("key", key), zap.Error(err))
		return []T{}
	}
	return items
}

// LoadStrict is Load without the fallback: failures are returned as
// PersistenceError.
func (s *JSONRecordStore[T]) LoadStrict(ctx context.Context, key string) ([]T, error) {
	return s.load(ctx, key)
}

func (s *JSONRecordStore[T]) load(ctx context.Context, key string) ([]T, error) {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, shared.NewPersistenceError(key, err)
	}
	if !ok || len(strings.TrimSpace(string(raw))) == 0 {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, shared.NewPersistenceError(key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Save replaces the collection under key
func (s *JSONRecordStore[T]) Save(ctx context.Context, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return shared.NewPersistenceError(key, err)
	}
	if err := s.kv.Set(ctx, key, raw); err != nil {
		s.log(ctx).Error("record store write failed", zap.String("key", key), zap.Error(err))
		return shared.NewPersistenceError(key, err)
	}
	return nil
}

func (s *JSONRecordStore[T]) log(ctx context.Context) *zap.Logger {
	if requestID := logger.GetRequestID(ctx); requestID != "" {
		return s.logger.With(zap.String("request_id", requestID))
	}
	return s.logger
}

// KVCounter keeps a bare integer under a key, such as lastProductId
type KVCounter struct {
	kv     shared.KeyValueStore
	logger *zap.Logger
}

// NewKVCounter creates a counter over kv
func NewKVCounter(kv shared.KeyValueStore, logger *zap.Logger) *KVCounter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KVCounter{kv: kv, logger: logger}
}

// Current returns the stored value. ok is false when the key is absent or
// unreadable.
func (c *KVCounter) Current(ctx context.Context, key string) (int, bool) {
	raw, ok, err := c.kv.Get(ctx, key)
	if err != nil {
		c.logger.Error("counter read failed", zap.String("key", key), zap.Error(err))
		return 0, false
	}
	if !ok {
		return 0, false
	}
	// Values written as JSON strings ("7") are accepted too.
	text := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	n, err := strconv.Atoi(text)
	if err != nil {
		c.logger.Warn("counter value is not an integer", zap.String("key", key), zap.String("value", text))
		return 0, false
	}
	return n, true
}

// Store writes value under key
func (c *KVCounter) Store(ctx context.Context, key string, value int) error {
	if value < 0 {
		return errors.New("counter value cannot be negative")
	}
	if err := c.kv.Set(ctx, key, []byte(strconv.Itoa(value))); err != nil {
		return shared.NewPersistenceError(key, err)
	}
	return nil
}

var (
	_ shared.RecordStore[struct{}] = (*JSONRecordStore[struct{}])(nil)
	_ shared.Counter               = (*KVCounter)(nil)
)
