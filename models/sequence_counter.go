package models

import "time"

// SequenceCounter stores the last issued value for named monotonic counters.
// The value only ever moves forward and is mutated solely inside an
// allocation transaction.
type SequenceCounter struct {
	Name      string    `gorm:"primaryKey;size:64" json:"name"`
	LastValue int64     `gorm:"not null;default:0" json:"last_value"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (SequenceCounter) TableName() string { return "sequence_counters" }
