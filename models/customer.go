package models

import (
	"time"

	"github.com/eylemk/santral/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Customer represents a subscriber of the call center.
// CircuitNumbers lists the service circuits provisioned for the customer;
// a ticket's circuit number is always picked from this list by the UI.
type Customer struct {
	ID             uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID           uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	FullName       string         `gorm:"type:varchar(255);not null" json:"full_name"`
	PhoneNumber    string         `gorm:"type:varchar(32);not null;index" json:"phone_number"`
	Email          *string        `gorm:"type:varchar(255)" json:"email,omitempty"`
	Address        *string        `gorm:"type:text" json:"address,omitempty"`
	CircuitNumbers pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"circuit_numbers"`
	IsActive       *bool          `gorm:"default:true;index" json:"is_active,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }

// BeforeCreate ensures UUID and timestamps are set
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = utils.UTCNow()
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// HasCircuit reports whether the given circuit number is provisioned for the customer
func (c *Customer) HasCircuit(circuitNumber string) bool {
	for _, cn := range c.CircuitNumbers {
		if cn == circuitNumber {
			return true
		}
	}
	return false
}

// CustomerFilter represents filter criteria for customer queries
type CustomerFilter struct {
	ID            *uint      `json:"id,omitempty"`
	UUID          *uuid.UUID `json:"uuid,omitempty"`
	FullName      *string    `json:"full_name,omitempty"`
	PhoneNumber   *string    `json:"phone_number,omitempty"`
	CircuitNumber *string    `json:"circuit_number,omitempty"`
	IsActive      *bool      `json:"is_active,omitempty"`
}
