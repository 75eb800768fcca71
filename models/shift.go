package models

import (
	"time"
)

// Shift is a scheduled working interval for a back-office operator.
type Shift struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   uint      `gorm:"not null;index" json:"user_id"`
	StartsAt time.Time `gorm:"not null;index" json:"starts_at"`
	EndsAt   time.Time `gorm:"not null" json:"ends_at"`
	Note     *string   `gorm:"type:varchar(255)" json:"note,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

func (Shift) TableName() string { return "shifts" }

// Overlaps reports whether two shifts intersect in time
func (s *Shift) Overlaps(other *Shift) bool {
	return s.StartsAt.Before(other.EndsAt) && other.StartsAt.Before(s.EndsAt)
}

// ShiftFilter represents filter criteria for shift queries
type ShiftFilter struct {
	ID          *uint      `json:"id,omitempty"`
	UserID      *uint      `json:"user_id,omitempty"`
	StartsAfter *time.Time `json:"starts_after,omitempty"`
	EndsBefore  *time.Time `json:"ends_before,omitempty"`
}
