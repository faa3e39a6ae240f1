package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/erp/pos/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVRecord is one row of the kv_records table (see migrations/)
type KVRecord struct {
	Key       string    `gorm:"column:record_key;primaryKey"`
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName implements gorm's Tabler
func (KVRecord) TableName() string {
	return "kv_records"
}

// GormKeyValueStore keeps records in a relational database through gorm
type GormKeyValueStore struct {
	db *gorm.DB
}

// NewGormKeyValueStore creates a store over db
func NewGormKeyValueStore(db *gorm.DB) *GormKeyValueStore {
	return &GormKeyValueStore{db: db}
}

// Get implements shared.KeyValueStore
func (s *GormKeyValueStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var rec KVRecord
	err := s.db.WithContext(ctx).Where("record_key = ?", key).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(rec.Value), true, nil
}

// Set implements shared.KeyValueStore as an upsert
func (s *GormKeyValueStore) Set(ctx context.Context, key string, value []byte) error {
	rec := KVRecord{Key: key, Value: string(value), UpdatedAt: time.Now().UTC()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "record_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
}

// Remove implements shared.KeyValueStore
func (s *GormKeyValueStore) Remove(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where("record_key = ?", key).Delete(&KVRecord{}).Error
}

var _ shared.KeyValueStore = (*GormKeyValueStore)(nil)
