package dto

// CreateCustomerRequest carries data to register a new customer
type CreateCustomerRequest struct {
	FullName       string   `json:"full_name" validate:"required,max=255"`
	PhoneNumber    string   `json:"phone_number" validate:"required,max=32"`
	Email          *string  `json:"email,omitempty" validate:"omitempty,email"`
	Address        *string  `json:"address,omitempty" validate:"omitempty"`
	CircuitNumbers []string `json:"circuit_numbers,omitempty" validate:"omitempty,dive,max=64"`
}

// UpdateCustomerRequest carries partial customer updates
type UpdateCustomerRequest struct {
	FullName       *string  `json:"full_name,omitempty" validate:"omitempty,max=255"`
	PhoneNumber    *string  `json:"phone_number,omitempty" validate:"omitempty,max=32"`
	Email          *string  `json:"email,omitempty" validate:"omitempty,email"`
	Address        *string  `json:"address,omitempty" validate:"omitempty"`
	CircuitNumbers []string `json:"circuit_numbers,omitempty" validate:"omitempty,dive,max=64"`
	IsActive       *bool    `json:"is_active,omitempty" validate:"omitempty"`
}

// CustomerItem represents a customer row in listings
type CustomerItem struct {
	ID             uint     `json:"id"`
	UUID           string   `json:"uuid"`
	FullName       string   `json:"full_name"`
	PhoneNumber    string   `json:"phone_number"`
	Email          *string  `json:"email,omitempty"`
	Address        *string  `json:"address,omitempty"`
	CircuitNumbers []string `json:"circuit_numbers"`
	IsActive       *bool    `json:"is_active,omitempty"`
	CreatedAt      string   `json:"created_at"`
}

// ListCustomersRequest filters the customer listing
type ListCustomersRequest struct {
	FullName      *string `json:"full_name,omitempty"`
	PhoneNumber   *string `json:"phone_number,omitempty"`
	CircuitNumber *string `json:"circuit_number,omitempty"`
	Page          uint    `json:"page,omitempty"`
	PageSize      uint    `json:"page_size,omitempty"`
}

// ListCustomersResponse returns the matching customers
type ListCustomersResponse struct {
	Message string         `json:"message"`
	Items   []CustomerItem `json:"items"`
	Total   int64          `json:"total"`
}
