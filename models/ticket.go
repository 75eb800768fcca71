package models

import (
	"strings"
	"time"

	"github.com/eylemk/santral/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Default ticket status assigned at creation
const TicketStatusOpen = "açık"

// Ticket represents a fault/service ticket opened for a customer.
// Table: tickets
// Indices: uuid, ticket_number (unique), customer_id, circuit_number, group_id, created_at
// TicketNumber is the formatted sequence value ("2025-000123") and equals the
// number of exactly one used TicketLock.
// Files is a list of attachment paths/URLs
type Ticket struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID          uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	TicketNumber  string         `gorm:"type:varchar(32);uniqueIndex;not null" json:"ticket_number"`
	CustomerID    uint           `gorm:"not null;index" json:"customer_id"`
	CircuitNumber *string        `gorm:"type:varchar(64);index" json:"circuit_number,omitempty"`
	Title         string         `gorm:"type:varchar(255);not null" json:"title"`
	Content       string         `gorm:"type:text;not null" json:"content"`
	StatusName    string         `gorm:"type:varchar(64);not null;default:'açık';index" json:"status_name"`
	GroupID       uint           `gorm:"not null;index" json:"group_id"`
	CreatedBy     string         `gorm:"size:64;not null" json:"created_by"`
	Files         pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"files"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Customer *Customer       `gorm:"foreignKey:CustomerID;references:ID;constraint:OnDelete:CASCADE" json:"customer,omitempty"`
	Group    *TicketCategory `gorm:"foreignKey:GroupID;references:ID" json:"group,omitempty"`
}

func (Ticket) TableName() string { return "tickets" }

// IsClosedStatus reports whether statusName counts as closed, i.e. it
// contains any of the configured closed status names case-insensitively.
func IsClosedStatus(statusName string, closedStatuses []string) bool {
	lowered := strings.ToLower(statusName)
	for _, cs := range closedStatuses {
		if cs == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(cs)) {
			return true
		}
	}
	return false
}

// IsClosed reports whether the ticket is in a closed status
func (t *Ticket) IsClosed(closedStatuses []string) bool {
	return IsClosedStatus(t.StatusName, closedStatuses)
}

// BeforeCreate ensures UUID, default status, and timestamps are set
func (t *Ticket) BeforeCreate(tx *gorm.DB) error {
	if t.UUID == uuid.Nil {
		t.UUID = uuid.New()
	}
	if t.StatusName == "" {
		t.StatusName = TicketStatusOpen
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = utils.UTCNow()
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// TicketFilter represents filter criteria for ticket queries
type TicketFilter struct {
	ID            *uint      `json:"id,omitempty"`
	UUID          *uuid.UUID `json:"uuid,omitempty"`
	TicketNumber  *string    `json:"ticket_number,omitempty"`
	CustomerID    *uint      `json:"customer_id,omitempty"`
	CircuitNumber *string    `json:"circuit_number,omitempty"`
	StatusName    *string    `json:"status_name,omitempty"`
	GroupID       *uint      `json:"group_id,omitempty"`
	Title         *string    `json:"title,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}
