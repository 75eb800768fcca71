package repository

import (
	"context"
	"errors"

	"github.com/eylemk/santral/models"
	"gorm.io/gorm"
)

// TicketCategoryRepositoryImpl implements TicketCategoryRepository interface
type TicketCategoryRepositoryImpl struct {
	*BaseRepository[models.TicketCategory, models.TicketCategoryFilter]
}

// NewTicketCategoryRepository creates a new ticket category repository
func NewTicketCategoryRepository(db *gorm.DB) TicketCategoryRepository {
	return &TicketCategoryRepositoryImpl{
		BaseRepository: NewBaseRepository[models.TicketCategory, models.TicketCategoryFilter](db),
	}
}

// ByName retrieves a category by its unique name
func (r *TicketCategoryRepositoryImpl) ByName(ctx context.Context, name string) (*models.TicketCategory, error) {
	db := r.getDB(ctx)
	var row models.TicketCategory
	if err := db.Where("name = ?", name).Last(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *TicketCategoryRepositoryImpl) applyFilter(query *gorm.DB, filter models.TicketCategoryFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Name != nil {
		query = query.Where("name = ?", *filter.Name)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	return query
}

// ByFilter retrieves categories based on filter criteria
func (r *TicketCategoryRepositoryImpl) ByFilter(ctx context.Context, filter models.TicketCategoryFilter, orderBy string, limit, offset int) ([]*models.TicketCategory, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.TicketCategory{}), filter)

	if orderBy == "" {
		orderBy = "name ASC"
	}
	query = query.Order(orderBy)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.TicketCategory
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of categories matching filter
func (r *TicketCategoryRepositoryImpl) Count(ctx context.Context, filter models.TicketCategoryFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.TicketCategory{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any category matches the filter
func (r *TicketCategoryRepositoryImpl) Exists(ctx context.Context, filter models.TicketCategoryFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
