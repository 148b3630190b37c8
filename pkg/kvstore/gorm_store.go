package kvstore

import (
	"context"
	"errors"
	"time"

	"ghibli-backend/entities"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore persists snapshots as one row per namespace in Postgres.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Get(ctx context.Context, namespace string) ([]byte, bool, error) {
	var snapshot entities.StateSnapshot
	if err := s.db.WithContext(ctx).
		Where("namespace = ?", namespace).
		First(&snapshot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return snapshot.Data, true, nil
}

func (s *GormStore) Set(ctx context.Context, namespace string, data []byte) error {
	snapshot := entities.StateSnapshot{
		Namespace: namespace,
		Data:      data,
		Timestamp: entities.Timestamp{
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&snapshot).Error
}
