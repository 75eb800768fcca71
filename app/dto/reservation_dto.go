package dto

// ReserveTicketNumberRequest asks for a fresh ticket number reservation for
// the authenticated operator. The sequence is fixed server-side; the request
// body is intentionally empty and kept for forward compatibility.
type ReserveTicketNumberRequest struct{}

// ReserveTicketNumberResponse returns the reserved number and its lease deadline
type ReserveTicketNumberResponse struct {
	Message      string `json:"message"`
	TicketNumber string `json:"ticket_number"`
	ExpiresAt    string `json:"expires_at"`
}

// ActiveReservationResponse returns the operator's still-pending reservation, if any
type ActiveReservationResponse struct {
	TicketNumber string `json:"ticket_number"`
	ExpiresAt    string `json:"expires_at"`
}

// DuplicateCheckRequest carries the candidate customer/circuit to check
type DuplicateCheckRequest struct {
	CustomerID    uint    `json:"customer_id" validate:"required"`
	CircuitNumber *string `json:"circuit_number,omitempty" validate:"omitempty"`
}

// ConflictingTicket enumerates one existing open ticket blocking submission
type ConflictingTicket struct {
	TicketNumber string `json:"ticket_number"`
	Title        string `json:"title"`
	StatusName   string `json:"status_name"`
	CustomerID   uint   `json:"customer_id"`
	CreatedAt    string `json:"created_at"`
}

// DuplicateCheckResponse partitions conflicts by cause. Both lists empty
// means the submission is clear to proceed.
type DuplicateCheckResponse struct {
	CustomerConflicts []ConflictingTicket `json:"customer_conflicts"`
	CircuitConflicts  []ConflictingTicket `json:"circuit_conflicts"`
}

// HasConflicts reports whether submission must be blocked
func (r *DuplicateCheckResponse) HasConflicts() bool {
	return len(r.CustomerConflicts) > 0 || len(r.CircuitConflicts) > 0
}
