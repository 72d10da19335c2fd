package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bernardocerejo/sentinel-criptobot/internal/model"

	"gorm.io/gorm"
)

// ErrStorageUnavailable marks a failure of the durable counter record.
// Callers must not proceed as if the counter changed.
var ErrStorageUnavailable = errors.New("outcome storage unavailable")

const outcomeRowID = 1

// OutcomeRepository owns the durable green/red counters. All mutation is
// serialized internally; callers never lock.
type OutcomeRepository interface {
	Load(ctx context.Context) (model.OutcomeCounter, error)
	Increment(ctx context.Context, kind model.OutcomeKind) error
	Reset(ctx context.Context) error
}

type outcomeRepository struct {
	db *gorm.DB
	mu sync.Mutex
}

func NewOutcomeRepository(db *gorm.DB) OutcomeRepository {
	return &outcomeRepository{db: db}
}

func (r *outcomeRepository) Load(ctx context.Context) (model.OutcomeCounter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked(ctx)
}

// loadLocked reads the single counter row, creating {0,0} on first run.
// Caller must hold r.mu.
func (r *outcomeRepository) loadLocked(ctx context.Context) (model.OutcomeCounter, error) {
	var counter model.OutcomeCounter
	err := r.db.WithContext(ctx).First(&counter, outcomeRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		counter = model.OutcomeCounter{ID: outcomeRowID}
		if err := r.db.WithContext(ctx).Create(&counter).Error; err != nil {
			return model.OutcomeCounter{}, fmt.Errorf("%w: initialize counters: %v", ErrStorageUnavailable, err)
		}
		return counter, nil
	}
	if err != nil {
		return model.OutcomeCounter{}, fmt.Errorf("%w: load counters: %v", ErrStorageUnavailable, err)
	}
	return counter, nil
}

func (r *outcomeRepository) Increment(ctx context.Context, kind model.OutcomeKind) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown outcome kind %q", kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.loadLocked(ctx); err != nil {
		return err
	}

	column := "green"
	if kind == model.OutcomeRed {
		column = "red"
	}
	err := r.db.WithContext(ctx).
		Model(&model.OutcomeCounter{}).
		Where("id = ?", outcomeRowID).
		UpdateColumn(column, gorm.Expr(column+" + 1")).Error
	if err != nil {
		return fmt.Errorf("%w: increment %s: %v", ErrStorageUnavailable, column, err)
	}
	return nil
}

func (r *outcomeRepository) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.loadLocked(ctx); err != nil {
		return err
	}

	err := r.db.WithContext(ctx).
		Model(&model.OutcomeCounter{}).
		Where("id = ?", outcomeRowID).
		UpdateColumns(map[string]interface{}{"green": 0, "red": 0}).Error
	if err != nil {
		return fmt.Errorf("%w: reset counters: %v", ErrStorageUnavailable, err)
	}
	return nil
}
