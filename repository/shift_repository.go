package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/eylemk/santral/models"
	"gorm.io/gorm"
)

// ShiftRepositoryImpl implements ShiftRepository interface
type ShiftRepositoryImpl struct {
	*BaseRepository[models.Shift, models.ShiftFilter]
}

// NewShiftRepository creates a new shift repository
func NewShiftRepository(db *gorm.DB) ShiftRepository {
	return &ShiftRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Shift, models.ShiftFilter](db),
	}
}

// Overlapping lists the user's shifts intersecting the given interval
func (r *ShiftRepositoryImpl) Overlapping(ctx context.Context, userID uint, startsAt, endsAt time.Time) ([]*models.Shift, error) {
	db := r.getDB(ctx)
	var rows []*models.Shift
	err := db.Model(&models.Shift{}).
		Where("user_id = ? AND starts_at < ? AND ends_at > ?", userID, endsAt, startsAt).
		Order("starts_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Delete removes a shift by ID
func (r *ShiftRepositoryImpl) Delete(ctx context.Context, shiftID uint) error {
	db := r.getDB(ctx)
	if err := db.Delete(&models.Shift{}, shiftID).Error; err != nil {
		return fmt.Errorf("failed to delete shift %d: %w", shiftID, err)
	}
	return nil
}

// applyFilter applies filter criteria to a GORM query
func (r *ShiftRepositoryImpl) applyFilter(query *gorm.DB, filter models.ShiftFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.StartsAfter != nil {
		query = query.Where("starts_at >= ?", *filter.StartsAfter)
	}
	if filter.EndsBefore != nil {
		query = query.Where("ends_at <= ?", *filter.EndsBefore)
	}
	return query
}

// ByFilter retrieves shifts based on filter criteria
func (r *ShiftRepositoryImpl) ByFilter(ctx context.Context, filter models.ShiftFilter, orderBy string, limit, offset int) ([]*models.Shift, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Shift{}), filter)

	if orderBy == "" {
		orderBy = "starts_at ASC"
	}
	query = query.Order(orderBy)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Shift
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of shifts matching filter
func (r *ShiftRepositoryImpl) Count(ctx context.Context, filter models.ShiftFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Shift{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any shift matches the filter
func (r *ShiftRepositoryImpl) Exists(ctx context.Context, filter models.ShiftFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
