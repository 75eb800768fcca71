package dto

// APIResponse is the envelope every endpoint returns. Data carries the
// operation payload on success, Error an ErrorDetail on failure.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty" validate:"omitempty"`
	Error   any    `json:"error,omitempty" validate:"omitempty"`
}

// ErrorDetail pairs a machine-readable code with optional context, such as
// per-field validation failures.
type ErrorDetail struct {
	Code    string `json:"code"`
	Details any    `json:"details,omitempty" validate:"omitempty"`
}
