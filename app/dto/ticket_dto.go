package dto

import "time"

// FinalizeTicketRequest submits the filled creation form against a held
// reservation. TicketNumber must match a pending lock owned by the caller.
type FinalizeTicketRequest struct {
	TicketNumber  string   `json:"ticket_number" validate:"required"`
	CustomerID    uint     `json:"customer_id" validate:"required"`
	CircuitNumber *string  `json:"circuit_number,omitempty" validate:"omitempty"`
	Title         string   `json:"title" validate:"required,max=255"`
	Content       string   `json:"content" validate:"required"`
	GroupID       uint     `json:"group_id" validate:"required"`
	Files         []string `json:"files,omitempty" validate:"omitempty"`
}

// FinalizeTicketResponse returns the persisted ticket
type FinalizeTicketResponse struct {
	Message      string `json:"message"`
	ID           uint   `json:"id"`
	UUID         string `json:"uuid"`
	TicketNumber string `json:"ticket_number"`
	StatusName   string `json:"status_name"`
	CreatedAt    string `json:"created_at"`
}

// ListTicketsRequest filters the ticket listing
type ListTicketsRequest struct {
	CustomerID *uint      `json:"customer_id,omitempty"`
	StatusName *string    `json:"status_name,omitempty"`
	GroupID    *uint      `json:"group_id,omitempty"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	Page       uint       `json:"page,omitempty"`
	PageSize   uint       `json:"page_size,omitempty"`
}

// TicketItem represents a ticket row in listings
type TicketItem struct {
	ID            uint    `json:"id"`
	TicketNumber  string  `json:"ticket_number"`
	Title         string  `json:"title"`
	StatusName    string  `json:"status_name"`
	GroupID       uint    `json:"group_id"`
	CustomerID    uint    `json:"customer_id"`
	CircuitNumber *string `json:"circuit_number,omitempty"`
	CreatedAt     string  `json:"created_at"`
	CustomerName  *string `json:"customer_name,omitempty"`
	CustomerPhone *string `json:"customer_phone,omitempty"`
}

// ListTicketsResponse returns the matching tickets
type ListTicketsResponse struct {
	Message string       `json:"message"`
	Items   []TicketItem `json:"items"`
	Total   int64        `json:"total"`
}

// UpdateTicketStatusRequest changes a ticket's workflow status
type UpdateTicketStatusRequest struct {
	StatusName string `json:"status_name" validate:"required,max=64"`
}
