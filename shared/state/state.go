// Package state is a small persistent key-value store for operational
// bookkeeping, such as the last run time of scheduled jobs.
package state

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const StateTableName = "state"

type StateEntry struct {
	Key       string `gorm:"primaryKey"`
	Value     string
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (StateEntry) TableName() string {
	return StateTableName
}

type State struct {
	db *gorm.DB
}

func New(db *gorm.DB) (*State, error) {
	if err := db.AutoMigrate(&StateEntry{}); err != nil {
		return nil, err
	}
	return &State{db: db}, nil
}

// Get returns the value for key, or "" when the key is absent.
func (s *State) Get(ctx context.Context, key string) (string, error) {
	var entry StateEntry
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return entry.Value, nil
}

// Set upserts key -> value in a single statement.
func (s *State) Set(ctx context.Context, key, value string) error {
	entry := StateEntry{Key: key, Value: value}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

// Delete removes key; deleting an absent key is a no-op.
func (s *State) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where("key = ?", key).Delete(&StateEntry{}).Error
}
