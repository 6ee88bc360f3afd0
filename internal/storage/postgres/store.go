package postgres

import (
	"context"
	"errors"

	kvDatamodel "github.com/frahmantamala/lead-management/internal/core/datamodel/kv"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store persists key-value documents in the kv_entries table. It runs on any
// gorm dialector; the console uses PostgreSQL or SQLite.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry kvDatamodel.Entry
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return []byte(entry.Value), true, nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	entry := kvDatamodel.Entry{Key: key, Value: string(value)}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (s *Store) Remove(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where("key = ?", key).Delete(&kvDatamodel.Entry{}).Error
}
