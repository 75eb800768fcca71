// Package businessflow contains the business logic for the application.
package businessflow

import (
	"context"
	"fmt"

	"github.com/eylemk/santral/models"
	"github.com/eylemk/santral/repository"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds all client-related information for audit logging and session tracking
type ClientMetadata struct {
	IPAddress string            `json:"ip_address"`
	UserAgent string            `json:"user_agent"`
	RequestID string            `json:"request_id,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
		Extra:     make(map[string]string),
	}
}

// FormatTicketNumber renders a raw sequence value as the user-visible ticket
// number, e.g. (2025, 123, 6) -> "2025-000123".
func FormatTicketNumber(year int, value int64, padding int) string {
	if padding <= 0 {
		padding = 6
	}
	return fmt.Sprintf("%d-%0*d", year, padding, value)
}

// getCustomer fetches an active customer or fails with the matching business error
func getCustomer(ctx context.Context, repo repository.CustomerRepository, customerID uint) (*models.Customer, error) {
	customer, err := repo.ByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}
	if customer.IsActive != nil && !*customer.IsActive {
		return nil, ErrCustomerInactive
	}
	return customer, nil
}

// getUser fetches an active operator or fails with the matching business error
func getUser(ctx context.Context, repo repository.UserRepository, userID uint) (*models.User, error) {
	user, err := repo.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.IsActive != nil && !*user.IsActive {
		return nil, ErrUserInactive
	}
	return user, nil
}

// normalizePage clamps pagination inputs to sane bounds
func normalizePage(page, pageSize uint) (uint, uint) {
	if page == 0 {
		page = 1
	}
	if pageSize == 0 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
