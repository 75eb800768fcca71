package dto

import "time"

// CreateShiftRequest schedules a working interval for an operator
type CreateShiftRequest struct {
	UserID   uint      `json:"user_id" validate:"required"`
	StartsAt time.Time `json:"starts_at" validate:"required"`
	EndsAt   time.Time `json:"ends_at" validate:"required"`
	Note     *string   `json:"note,omitempty" validate:"omitempty,max=255"`
}

// ShiftItem represents a shift row in listings
type ShiftItem struct {
	ID       uint    `json:"id"`
	UserID   uint    `json:"user_id"`
	UserName *string `json:"user_name,omitempty"`
	StartsAt string  `json:"starts_at"`
	EndsAt   string  `json:"ends_at"`
	Note     *string `json:"note,omitempty"`
}

// ListShiftsRequest filters the shift listing
type ListShiftsRequest struct {
	UserID      *uint      `json:"user_id,omitempty"`
	StartsAfter *time.Time `json:"starts_after,omitempty"`
	EndsBefore  *time.Time `json:"ends_before,omitempty"`
}

// ListShiftsResponse returns the matching shifts
type ListShiftsResponse struct {
	Message string      `json:"message"`
	Items   []ShiftItem `json:"items"`
}
