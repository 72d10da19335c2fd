package repository

import (
	"github.com/bernardocerejo/sentinel-criptobot/internal/model"
	"github.com/bernardocerejo/sentinel-criptobot/pkg/logger"

	"gorm.io/gorm"
)

type Repository struct {
	OutcomeRepo OutcomeRepository
	SignalRepo  SignalRepository
}

func NewRepository(db *gorm.DB, log *logger.Logger) (*Repository, error) {
	if err := db.AutoMigrate(&model.OutcomeCounter{}, &model.SignalRecord{}); err != nil {
		return nil, err
	}

	return &Repository{
		OutcomeRepo: NewOutcomeRepository(db),
		SignalRepo:  NewSignalRepository(db),
	}, nil
}
