package repository

import (
	"context"
	"fmt"

	"github.com/bernardocerejo/sentinel-criptobot/internal/model"

	"gorm.io/gorm"
)

type SignalRepository interface {
	Save(ctx context.Context, record *model.SignalRecord) error
	Latest(ctx context.Context, limit int) ([]model.SignalRecord, error)
}

type signalRepository struct {
	db *gorm.DB
}

func NewSignalRepository(db *gorm.DB) SignalRepository {
	return &signalRepository{db: db}
}

func (r *signalRepository) Save(ctx context.Context, record *model.SignalRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("save signal record: %w", err)
	}
	return nil
}

func (r *signalRepository) Latest(ctx context.Context, limit int) ([]model.SignalRecord, error) {
	var records []model.SignalRecord
	err := r.db.WithContext(ctx).
		Order("sent_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("load latest signals: %w", err)
	}
	return records, nil
}
