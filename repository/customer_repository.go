package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/eylemk/santral/models"
	"github.com/eylemk/santral/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustomerRepositoryImpl implements CustomerRepository interface
type CustomerRepositoryImpl struct {
	*BaseRepository[models.Customer, models.CustomerFilter]
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &CustomerRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Customer, models.CustomerFilter](db),
	}
}

// ByUUID retrieves a customer by UUID
func (r *CustomerRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.Customer, error) {
	parsed, err := uuid.Parse(uuidStr)
	if err != nil {
		return nil, fmt.Errorf("invalid customer uuid %q: %w", uuidStr, err)
	}
	rows, err := r.ByFilter(ctx, models.CustomerFilter{UUID: &parsed}, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// ByPhoneNumber retrieves a customer by phone number
func (r *CustomerRepositoryImpl) ByPhoneNumber(ctx context.Context, phoneNumber string) (*models.Customer, error) {
	db := r.getDB(ctx)
	var row models.Customer
	if err := db.Where("phone_number = ?", phoneNumber).Last(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// FindByIDs retrieves customers matching the given IDs
func (r *CustomerRepositoryImpl) FindByIDs(ctx context.Context, ids []uint) ([]*models.Customer, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	db := r.getDB(ctx)
	var rows []*models.Customer
	if err := db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update persists changes to an existing customer
func (r *CustomerRepositoryImpl) Update(ctx context.Context, customer *models.Customer) error {
	db := r.getDB(ctx)
	customer.UpdatedAt = utils.UTCNow()
	return db.Save(customer).Error
}

// applyFilter applies filter criteria to a GORM query
func (r *CustomerRepositoryImpl) applyFilter(query *gorm.DB, filter models.CustomerFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.FullName != nil {
		query = query.Where("full_name ILIKE ?", "%"+*filter.FullName+"%")
	}
	if filter.PhoneNumber != nil {
		query = query.Where("phone_number = ?", *filter.PhoneNumber)
	}
	if filter.CircuitNumber != nil {
		query = query.Where("? = ANY(circuit_numbers)", *filter.CircuitNumber)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	return query
}

// ByFilter retrieves customers based on filter criteria
func (r *CustomerRepositoryImpl) ByFilter(ctx context.Context, filter models.CustomerFilter, orderBy string, limit, offset int) ([]*models.Customer, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Customer{}), filter)

	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = query.Order(orderBy)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Customer
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of customers matching filter
func (r *CustomerRepositoryImpl) Count(ctx context.Context, filter models.CustomerFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Customer{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any customer matches the filter
func (r *CustomerRepositoryImpl) Exists(ctx context.Context, filter models.CustomerFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
