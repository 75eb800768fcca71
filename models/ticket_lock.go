package models

import (
	"time"

	"github.com/eylemk/santral/utils"
	"gorm.io/gorm"
)

// Lock status values. A lock is created as pending together with the counter
// bump, flips to used exactly once on successful finalization, or is deleted
// (explicit release, abandonment, or reaper sweep). There is no row state for
// "expired": an expired pending row is treated as absent and eventually
// removed.
const (
	LockStatusPending = "pending"
	LockStatusUsed    = "used"
)

// TicketLock is the lease record for a reserved ticket number. The formatted
// number itself is the primary key, so at most one lock can ever exist per
// number and a concurrent insert of the same candidate fails on the key.
type TicketLock struct {
	TicketNumber string     `gorm:"primaryKey;size:32" json:"ticket_number"`
	OwnerID      string     `gorm:"size:64;not null;index" json:"owner_id"`
	Status       string     `gorm:"size:16;not null;default:'pending';index" json:"status"`
	ExpiresAt    time.Time  `gorm:"not null;index" json:"expires_at"`
	UsedAt       *time.Time `json:"used_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (TicketLock) TableName() string { return "ticket_locks" }

// BeforeCreate normalizes timestamps
func (l *TicketLock) BeforeCreate(tx *gorm.DB) error {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = utils.UTCNow()
	}
	if l.UpdatedAt.IsZero() {
		l.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// IsPending reports whether the lock is still claimable by its owner,
// i.e. pending and not past its lease deadline.
func (l *TicketLock) IsPending() bool {
	return l.Status == LockStatusPending && !utils.IsExpired(l.ExpiresAt)
}

// TicketLockFilter represents filter criteria for lock queries
type TicketLockFilter struct {
	TicketNumber  *string    `json:"ticket_number,omitempty"`
	OwnerID       *string    `json:"owner_id,omitempty"`
	Status        *string    `json:"status,omitempty"`
	ExpiresBefore *time.Time `json:"expires_before,omitempty"`
}
