package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eylemk/santral/models"
	"gorm.io/gorm"
)

// ErrLockTaken is returned when inserting a lock whose ticket number is
// already claimed. The number is the primary key, so the database rejects the
// second insert no matter how the two writers interleaved.
var ErrLockTaken = errors.New("ticket number lock already taken")

// TicketLockRepositoryImpl implements TicketLockRepository interface
type TicketLockRepositoryImpl struct {
	db *gorm.DB
}

// NewTicketLockRepository creates a new ticket lock repository
func NewTicketLockRepository(db *gorm.DB) TicketLockRepository {
	return &TicketLockRepositoryImpl{db: db}
}

func (r *TicketLockRepositoryImpl) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db
}

// ByNumber retrieves a lock by ticket number; nil when no lock exists
func (r *TicketLockRepositoryImpl) ByNumber(ctx context.Context, ticketNumber string) (*models.TicketLock, error) {
	db := r.getDB(ctx)
	var row models.TicketLock
	if err := db.Where("ticket_number = ?", ticketNumber).Last(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find lock for %s: %w", ticketNumber, err)
	}
	return &row, nil
}

// ByFilter retrieves locks based on filter criteria
func (r *TicketLockRepositoryImpl) ByFilter(ctx context.Context, filter models.TicketLockFilter, orderBy string, limit, offset int) ([]*models.TicketLock, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.TicketLock{})

	if filter.TicketNumber != nil {
		query = query.Where("ticket_number = ?", *filter.TicketNumber)
	}
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.ExpiresBefore != nil {
		query = query.Where("expires_at < ?", *filter.ExpiresBefore)
	}

	if orderBy == "" {
		orderBy = "created_at DESC"
	}
	query = query.Order(orderBy)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.TicketLock
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Save inserts a new pending lock. Translates a primary key violation into
// ErrLockTaken so the allocation loop can abort the attempt and retry.
func (r *TicketLockRepositoryImpl) Save(ctx context.Context, lock *models.TicketLock) error {
	db := r.getDB(ctx)
	if err := db.Create(lock).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrLockTaken
		}
		return fmt.Errorf("failed to save lock for %s: %w", lock.TicketNumber, err)
	}
	return nil
}

// MarkUsed flips a pending lock to used. The status and owner predicates make
// the check and the write one atomic statement, closing the race between a
// precondition read and the update.
func (r *TicketLockRepositoryImpl) MarkUsed(ctx context.Context, ticketNumber, ownerID string, usedAt time.Time) (bool, error) {
	db := r.getDB(ctx)
	res := db.Model(&models.TicketLock{}).
		Where("ticket_number = ? AND owner_id = ? AND status = ?", ticketNumber, ownerID, models.LockStatusPending).
		Updates(map[string]any{
			"status":     models.LockStatusUsed,
			"used_at":    usedAt,
			"updated_at": usedAt,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to mark lock %s used: %w", ticketNumber, res.Error)
	}
	return res.RowsAffected == 1, nil
}

// DeletePending removes the lock iff it is still pending. Releasing a used or
// already-deleted lock is a no-op, so the call is idempotent.
func (r *TicketLockRepositoryImpl) DeletePending(ctx context.Context, ticketNumber string) error {
	db := r.getDB(ctx)
	res := db.Where("ticket_number = ? AND status = ?", ticketNumber, models.LockStatusPending).
		Delete(&models.TicketLock{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete lock %s: %w", ticketNumber, res.Error)
	}
	return nil
}

// DeleteExpired removes all pending locks whose lease deadline has passed.
// The reserved numbers stay consumed; only the lease rows go away.
func (r *TicketLockRepositoryImpl) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	db := r.getDB(ctx)
	res := db.Where("status = ? AND expires_at < ?", models.LockStatusPending, now).
		Delete(&models.TicketLock{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete expired locks: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// isDuplicateKey reports whether err is a unique/primary key violation. GORM
// translates these when TranslateError is enabled; the string check covers
// drivers surfacing the raw Postgres 23505 message.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key value")
}
