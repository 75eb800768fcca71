// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/eylemk/santral/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// SequenceCounterRepository defines operations for named monotonic counters
type SequenceCounterRepository interface {
	ByName(ctx context.Context, name string) (*models.SequenceCounter, error)
	Save(ctx context.Context, counter *models.SequenceCounter) error
	// CompareAndSwap advances the counter from oldValue to newValue. It
	// reports false when the stored value no longer equals oldValue, which
	// means a concurrent allocation won the race.
	CompareAndSwap(ctx context.Context, name string, oldValue, newValue int64) (bool, error)
}

// TicketLockRepository defines operations for ticket number lease records
type TicketLockRepository interface {
	ByNumber(ctx context.Context, ticketNumber string) (*models.TicketLock, error)
	ByFilter(ctx context.Context, filter models.TicketLockFilter, orderBy string, limit, offset int) ([]*models.TicketLock, error)
	// Save inserts a new pending lock. ErrLockTaken is returned when a lock
	// for the same number already exists.
	Save(ctx context.Context, lock *models.TicketLock) error
	// MarkUsed flips a pending lock to used iff it is still pending and owned
	// by ownerID; reports whether a row was updated.
	MarkUsed(ctx context.Context, ticketNumber, ownerID string, usedAt time.Time) (bool, error)
	// DeletePending removes the lock iff it is still pending. Deleting a used
	// or absent lock is a no-op.
	DeletePending(ctx context.Context, ticketNumber string) error
	// DeleteExpired removes all pending locks whose lease deadline passed
	// before now and returns how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// TicketRepository defines operations for tickets
type TicketRepository interface {
	Repository[models.Ticket, models.TicketFilter]
	ByTicketNumber(ctx context.Context, ticketNumber string) (*models.Ticket, error)
	// OpenByCustomer lists tickets of the customer whose status is not in
	// closedStatuses (case-insensitive substring match on the status name).
	OpenByCustomer(ctx context.Context, customerID uint, closedStatuses []string) ([]*models.Ticket, error)
	// OpenByCircuit lists tickets on the circuit whose status is not closed.
	OpenByCircuit(ctx context.Context, circuitNumber string, closedStatuses []string) ([]*models.Ticket, error)
	UpdateStatus(ctx context.Context, ticketID uint, statusName string) error
	CountByStatus(ctx context.Context, filter models.TicketFilter) ([]*TicketStatusCount, error)
	CountByGroup(ctx context.Context, filter models.TicketFilter) ([]*TicketGroupCount, error)
}

// TicketStatusCount is one row of the per-status ticket breakdown
type TicketStatusCount struct {
	StatusName string `json:"status_name"`
	Count      int64  `json:"count"`
}

// TicketGroupCount is one row of the per-group ticket breakdown
type TicketGroupCount struct {
	GroupID   uint   `json:"group_id"`
	GroupName string `json:"group_name"`
	Count     int64  `json:"count"`
}

// CustomerRepository defines operations for customers
type CustomerRepository interface {
	Repository[models.Customer, models.CustomerFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Customer, error)
	ByPhoneNumber(ctx context.Context, phoneNumber string) (*models.Customer, error)
	FindByIDs(ctx context.Context, ids []uint) ([]*models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) error
}

// UserRepository defines operations for back-office operators
type UserRepository interface {
	Repository[models.User, models.UserFilter]
	ByUsername(ctx context.Context, username string) (*models.User, error)
	ByUUID(ctx context.Context, uuid string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// MessageRepository defines operations for internal messages
type MessageRepository interface {
	Repository[models.Message, models.MessageFilter]
	Inbox(ctx context.Context, recipientID uint, limit, offset int) ([]*models.Message, error)
	MarkRead(ctx context.Context, messageID, recipientID uint, readAt time.Time) (bool, error)
}

// ShiftRepository defines operations for operator shifts
type ShiftRepository interface {
	Repository[models.Shift, models.ShiftFilter]
	Overlapping(ctx context.Context, userID uint, startsAt, endsAt time.Time) ([]*models.Shift, error)
	Delete(ctx context.Context, shiftID uint) error
}

// TicketCategoryRepository defines operations for ticket routing groups
type TicketCategoryRepository interface {
	Repository[models.TicketCategory, models.TicketCategoryFilter]
	ByName(ctx context.Context, name string) (*models.TicketCategory, error)
}
