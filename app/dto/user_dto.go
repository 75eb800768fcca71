package dto

// LoginRequest carries operator credentials
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the access token and the operator's profile
type LoginResponse struct {
	Message     string   `json:"message"`
	AccessToken string   `json:"access_token"`
	User        UserItem `json:"user"`
}

// CreateUserRequest registers a new back-office operator
type CreateUserRequest struct {
	Username string  `json:"username" validate:"required,max=64"`
	FullName string  `json:"full_name" validate:"required,max=255"`
	Password string  `json:"password" validate:"required,min=8"`
	Role     string  `json:"role" validate:"required,oneof=admin supervisor agent"`
	GroupID  *uint   `json:"group_id,omitempty" validate:"omitempty"`
	Mobile   *string `json:"mobile,omitempty" validate:"omitempty,max=32"`
}

// UserItem represents an operator row in listings
type UserItem struct {
	ID       uint   `json:"id"`
	UUID     string `json:"uuid"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	GroupID  *uint  `json:"group_id,omitempty"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// ListUsersResponse returns the matching operators
type ListUsersResponse struct {
	Message string     `json:"message"`
	Items   []UserItem `json:"items"`
}
