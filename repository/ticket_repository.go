package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/eylemk/santral/models"
	"github.com/eylemk/santral/utils"
	"gorm.io/gorm"
)

// TicketRepositoryImpl implements TicketRepository interface
type TicketRepositoryImpl struct {
	*BaseRepository[models.Ticket, models.TicketFilter]
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *gorm.DB) TicketRepository {
	return &TicketRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Ticket, models.TicketFilter](db),
	}
}

// ByTicketNumber retrieves a ticket by its formatted number
func (r *TicketRepositoryImpl) ByTicketNumber(ctx context.Context, ticketNumber string) (*models.Ticket, error) {
	db := r.getDB(ctx)
	var row models.Ticket
	if err := db.Where("ticket_number = ?", ticketNumber).Last(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// OpenByCustomer lists the customer's tickets whose status is not closed
func (r *TicketRepositoryImpl) OpenByCustomer(ctx context.Context, customerID uint, closedStatuses []string) ([]*models.Ticket, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Ticket{}).Where("customer_id = ?", customerID)
	query = excludeClosed(query, closedStatuses)

	var rows []*models.Ticket
	if err := query.Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// OpenByCircuit lists tickets on the circuit whose status is not closed
func (r *TicketRepositoryImpl) OpenByCircuit(ctx context.Context, circuitNumber string, closedStatuses []string) ([]*models.Ticket, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Ticket{}).Where("circuit_number = ?", circuitNumber)
	query = excludeClosed(query, closedStatuses)

	var rows []*models.Ticket
	if err := query.Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// excludeClosed filters out tickets whose status name contains any of the
// closed status names, case-insensitively
func excludeClosed(query *gorm.DB, closedStatuses []string) *gorm.DB {
	for _, cs := range closedStatuses {
		query = query.Where("LOWER(status_name) NOT LIKE ?", "%"+strings.ToLower(cs)+"%")
	}
	return query
}

// UpdateStatus sets the status name of a ticket
func (r *TicketRepositoryImpl) UpdateStatus(ctx context.Context, ticketID uint, statusName string) error {
	db := r.getDB(ctx)
	return db.Model(&models.Ticket{}).
		Where("id = ?", ticketID).
		Updates(map[string]any{
			"status_name": statusName,
			"updated_at":  utils.UTCNow(),
		}).Error
}

// CountByStatus groups matching tickets by status name
func (r *TicketRepositoryImpl) CountByStatus(ctx context.Context, filter models.TicketFilter) ([]*TicketStatusCount, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Ticket{}).
		Select("status_name, COUNT(*) AS count").
		Group("status_name").
		Order("count DESC")
	query = r.applyFilter(query, filter)

	var rows []*TicketStatusCount
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CountByGroup groups matching tickets by routing group
func (r *TicketRepositoryImpl) CountByGroup(ctx context.Context, filter models.TicketFilter) ([]*TicketGroupCount, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Ticket{}).
		Select("tickets.group_id, ticket_categories.name AS group_name, COUNT(*) AS count").
		Joins("LEFT JOIN ticket_categories ON ticket_categories.id = tickets.group_id").
		Group("tickets.group_id, ticket_categories.name").
		Order("count DESC")
	query = r.applyFilter(query, filter)

	var rows []*TicketGroupCount
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *TicketRepositoryImpl) applyFilter(query *gorm.DB, filter models.TicketFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("tickets.id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("tickets.uuid = ?", *filter.UUID)
	}
	if filter.TicketNumber != nil {
		query = query.Where("tickets.ticket_number = ?", *filter.TicketNumber)
	}
	if filter.CustomerID != nil {
		query = query.Where("tickets.customer_id = ?", *filter.CustomerID)
	}
	if filter.CircuitNumber != nil {
		query = query.Where("tickets.circuit_number = ?", *filter.CircuitNumber)
	}
	if filter.StatusName != nil {
		query = query.Where("LOWER(tickets.status_name) = ?", strings.ToLower(*filter.StatusName))
	}
	if filter.GroupID != nil {
		query = query.Where("tickets.group_id = ?", *filter.GroupID)
	}
	if filter.Title != nil {
		query = query.Where("tickets.title = ?", *filter.Title)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("tickets.created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("tickets.created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves tickets based on filter criteria
func (r *TicketRepositoryImpl) ByFilter(ctx context.Context, filter models.TicketFilter, orderBy string, limit, offset int) ([]*models.Ticket, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Ticket{})

	query = r.applyFilter(query, filter)

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

	var rows []*models.Ticket
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of tickets matching filter
func (r *TicketRepositoryImpl) Count(ctx context.Context, filter models.TicketFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Ticket{})
	query = r.applyFilter(query, filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any ticket matches the filter
func (r *TicketRepositoryImpl) Exists(ctx context.Context, filter models.TicketFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
