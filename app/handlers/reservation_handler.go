package handlers

import (
	"time"

	"github.com/eylemk/santral/app/dto"
	businessflow "github.com/eylemk/santral/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// ReservationHandlerInterface defines the contract for reservation handlers
type ReservationHandlerInterface interface {
	Reserve(c fiber.Ctx) error
	Release(c fiber.Ctx) error
	Active(c fiber.Ctx) error
	CheckDuplicates(c fiber.Ctx) error
}

// ReservationHandler handles ticket-number reservation HTTP requests
type ReservationHandler struct {
	flow      businessflow.ReservationFlow
	guard     businessflow.DuplicateGuardFlow
	validator *validator.Validate
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(flow businessflow.ReservationFlow, guard businessflow.DuplicateGuardFlow) *ReservationHandler {
	return &ReservationHandler{
		flow:      flow,
		guard:     guard,
		validator: validator.New(),
	}
}

// Reserve Ticket Number
// @Description Reserve the next ticket number for the authenticated operator. The number is leased; finalize or release it before the lease expires.
// @Tags Reservations
// @Produce json
// @Success 201 {object} dto.APIResponse{data=dto.ReserveTicketNumberResponse} "Ticket number reserved"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 503 {object} dto.APIResponse "Allocation failed after retries"
// @Router /api/v1/reservations [post]
func (h *ReservationHandler) Reserve(c fiber.Ctx) error {
	userID, ok := actorID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Operator not found in context", "MISSING_USER_ID", nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.flow.Allocate(ctx, ownerTag(userID), clientMetadata(c))
	if err != nil {
		if businessflow.IsCounterMissing(err) {
			return errorResponse(c, fiber.StatusInternalServerError, "Ticket number sequence is not configured", "COUNTER_MISSING", nil)
		}
		if businessflow.IsAllocationFailed(err) {
			return errorResponse(c, fiber.StatusServiceUnavailable, "Could not reserve a ticket number, please try again", "ALLOCATION_FAILED", nil)
		}
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to reserve ticket number", "RESERVE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, "Ticket number reserved", dto.ReserveTicketNumberResponse{
		Message:      "Ticket number reserved",
		TicketNumber: result.TicketNumber,
		ExpiresAt:    result.ExpiresAt.Format(time.RFC3339),
	})
}

// Release Reservation
// @Description Abandon a pending reservation so its row is removed immediately. The number itself stays consumed.
// @Tags Reservations
// @Produce json
// @Param number path string true "Reserved ticket number"
// @Success 200 {object} dto.APIResponse "Reservation released"
// @Failure 400 {object} dto.APIResponse "Missing ticket number"
// @Router /api/v1/reservations/{number} [delete]
func (h *ReservationHandler) Release(c fiber.Ctx) error {
	userID, ok := actorID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Operator not found in context", "MISSING_USER_ID", nil)
	}

	number := c.Params("number")
	if number == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Ticket number is required", "INVALID_REQUEST", nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.flow.Release(ctx, number, ownerTag(userID), clientMetadata(c)); err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to release reservation", "RELEASE_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, "Reservation released", nil)
}

// Active Reservation
// @Description Return the operator's still-pending reservation, if any. Lets a refreshed form recover its number.
// @Tags Reservations
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ActiveReservationResponse} "Active reservation"
// @Success 204 {object} dto.APIResponse "No active reservation"
// @Router /api/v1/reservations/active [get]
func (h *ReservationHandler) Active(c fiber.Ctx) error {
	userID, ok := actorID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Operator not found in context", "MISSING_USER_ID", nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.flow.ActiveReservation(ctx, ownerTag(userID))
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to look up reservation", "ACTIVE_LOOKUP_FAILED", nil)
	}
	if result == nil {
		return successResponse(c, fiber.StatusOK, "No active reservation", nil)
	}

	return successResponse(c, fiber.StatusOK, "Active reservation found", dto.ActiveReservationResponse{
		TicketNumber: result.TicketNumber,
		ExpiresAt:    result.ExpiresAt.Format(time.RFC3339),
	})
}

// Check Duplicates
// @Description List open tickets that collide with the candidate customer or circuit. Advisory: the response never blocks submission by itself.
// @Tags Reservations
// @Accept json
// @Produce json
// @Param request body dto.DuplicateCheckRequest true "Candidate customer and circuit"
// @Success 200 {object} dto.APIResponse{data=dto.DuplicateCheckResponse} "Conflict lists"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Customer not found"
// @Router /api/v1/reservations/duplicates [post]
func (h *ReservationHandler) CheckDuplicates(c fiber.Ctx) error {
	var req dto.DuplicateCheckRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationDetails(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.guard.CheckDuplicates(ctx, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsCustomerNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Customer not found", "CUSTOMER_NOT_FOUND", nil)
		}
		if businessflow.IsCustomerInactive(err) {
			return errorResponse(c, fiber.StatusUnprocessableEntity, "Customer account is inactive", "CUSTOMER_INACTIVE", nil)
		}
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to check duplicates", "DUPLICATE_CHECK_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Duplicate check completed", result)
}
