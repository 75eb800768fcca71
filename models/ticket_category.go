package models

import "time"

// TicketCategory is a routing group for tickets: every ticket is assigned to
// one group and every operator may belong to one. OnCallMobile, when set,
// receives the best-effort SMS on new tickets for the group.
type TicketCategory struct {
	ID           uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string  `gorm:"type:varchar(128);uniqueIndex;not null" json:"name"`
	Description  *string `gorm:"type:text" json:"description,omitempty"`
	OnCallMobile *string `gorm:"type:varchar(32)" json:"on_call_mobile,omitempty"`
	IsActive     *bool   `gorm:"default:true" json:"is_active,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (TicketCategory) TableName() string { return "ticket_categories" }

// TicketCategoryFilter represents filter criteria for category queries
type TicketCategoryFilter struct {
	ID       *uint   `json:"id,omitempty"`
	Name     *string `json:"name,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}
