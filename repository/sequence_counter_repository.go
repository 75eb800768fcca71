package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/eylemk/santral/models"
	"github.com/eylemk/santral/utils"
	"gorm.io/gorm"
)

// SequenceCounterRepositoryImpl implements SequenceCounterRepository interface
type SequenceCounterRepositoryImpl struct {
	db *gorm.DB
}

// NewSequenceCounterRepository creates a new sequence counter repository
func NewSequenceCounterRepository(db *gorm.DB) SequenceCounterRepository {
	return &SequenceCounterRepositoryImpl{db: db}
}

func (r *SequenceCounterRepositoryImpl) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db
}

// ByName retrieves a counter by its sequence name; nil when the counter does not exist
func (r *SequenceCounterRepositoryImpl) ByName(ctx context.Context, name string) (*models.SequenceCounter, error) {
	db := r.getDB(ctx)
	var row models.SequenceCounter
	if err := db.Where("name = ?", name).Last(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find sequence counter %q: %w", name, err)
	}
	return &row, nil
}

// Save inserts a new counter row
func (r *SequenceCounterRepositoryImpl) Save(ctx context.Context, counter *models.SequenceCounter) error {
	db := r.getDB(ctx)
	if err := db.Create(counter).Error; err != nil {
		return fmt.Errorf("failed to save sequence counter %q: %w", counter.Name, err)
	}
	return nil
}

// CompareAndSwap advances the counter guarded by its previously read value.
// Zero rows affected means a concurrent transaction advanced the counter
// first and the caller must abort and retry its whole attempt.
func (r *SequenceCounterRepositoryImpl) CompareAndSwap(ctx context.Context, name string, oldValue, newValue int64) (bool, error) {
	db := r.getDB(ctx)
	res := db.Model(&models.SequenceCounter{}).
		Where("name = ? AND last_value = ?", name, oldValue).
		Updates(map[string]any{
			"last_value": newValue,
			"updated_at": utils.UTCNow(),
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to advance sequence counter %q: %w", name, res.Error)
	}
	return res.RowsAffected == 1, nil
}
