// Package businessflow contains the core business logic and use cases for the back office
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Reservation-related errors
	//
	// ErrCounterMissing means the named sequence row was never provisioned. It
	// is a deployment misconfiguration and is never retried.
	ErrCounterMissing = errors.New("sequence counter not found")
	// ErrAllocationFailed is returned after the bounded retry loop is
	// exhausted; the operator has to retry manually.
	ErrAllocationFailed = errors.New("ticket number allocation failed after retries")

	// Finalize-time integrity errors. None of them silently allocates a
	// substitute number; the operator must request a new reservation.
	ErrLockExpired           = errors.New("ticket number reservation expired")
	ErrLockOwnershipMismatch = errors.New("ticket number reserved by another operator")
	ErrLockAlreadyUsed       = errors.New("ticket number already used")

	// Ticket-related errors
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrTicketNumberExists = errors.New("ticket number already persisted")
	ErrCategoryNotFound   = errors.New("ticket category not found")

	// Customer-related errors
	ErrCustomerNotFound = errors.New("customer not found")
	ErrCustomerInactive = errors.New("customer is inactive")
	ErrCircuitNotOwned  = errors.New("circuit number does not belong to the customer")

	// User-related errors
	ErrUserNotFound      = errors.New("user not found")
	ErrUserInactive      = errors.New("user is inactive")
	ErrUsernameExists    = errors.New("username already exists")
	ErrRecipientNotFound = errors.New("message recipient not found")

	// Shift-related errors
	ErrShiftNotFound = errors.New("shift not found")
	ErrShiftOverlap  = errors.New("shift overlaps an existing shift")
	ErrShiftInverted = errors.New("shift must end after it starts")

	// Filter errors
	ErrInvalidPage           = errors.New("page must be at least 1")
	ErrInvalidPageSize       = errors.New("page size must be between 1 and 100")
	ErrStartDateAfterEndDate = errors.New("start date cannot be after end date")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsCounterMissing(err error) bool {
	return errors.Is(err, ErrCounterMissing)
}

func IsAllocationFailed(err error) bool {
	return errors.Is(err, ErrAllocationFailed)
}

func IsLockExpired(err error) bool {
	return errors.Is(err, ErrLockExpired)
}

func IsLockOwnershipMismatch(err error) bool {
	return errors.Is(err, ErrLockOwnershipMismatch)
}

func IsLockAlreadyUsed(err error) bool {
	return errors.Is(err, ErrLockAlreadyUsed)
}

func IsTicketNotFound(err error) bool {
	return errors.Is(err, ErrTicketNotFound)
}

func IsCategoryNotFound(err error) bool {
	return errors.Is(err, ErrCategoryNotFound)
}

func IsCustomerNotFound(err error) bool {
	return errors.Is(err, ErrCustomerNotFound)
}

func IsCustomerInactive(err error) bool {
	return errors.Is(err, ErrCustomerInactive)
}

func IsCircuitNotOwned(err error) bool {
	return errors.Is(err, ErrCircuitNotOwned)
}

func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

func IsShiftOverlap(err error) bool {
	return errors.Is(err, ErrShiftOverlap)
}

func IsStartDateAfterEndDate(err error) bool {
	return errors.Is(err, ErrStartDateAfterEndDate)
}
