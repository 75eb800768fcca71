package models

import (
	"time"

	"github.com/eylemk/santral/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is an internal note between two back-office operators.
type Message struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID        uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	SenderID    uint       `gorm:"not null;index" json:"sender_id"`
	RecipientID uint       `gorm:"not null;index" json:"recipient_id"`
	Body        string     `gorm:"type:text;not null" json:"body"`
	ReadAt      *time.Time `json:"read_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Sender    *User `gorm:"foreignKey:SenderID;references:ID" json:"sender,omitempty"`
	Recipient *User `gorm:"foreignKey:RecipientID;references:ID" json:"recipient,omitempty"`
}

func (Message) TableName() string { return "messages" }

// BeforeCreate ensures UUID and timestamps are set
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.UUID == uuid.Nil {
		m.UUID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = utils.UTCNow()
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// MessageFilter represents filter criteria for message queries
type MessageFilter struct {
	ID          *uint `json:"id,omitempty"`
	SenderID    *uint `json:"sender_id,omitempty"`
	RecipientID *uint `json:"recipient_id,omitempty"`
	Unread      *bool `json:"unread,omitempty"`
}
