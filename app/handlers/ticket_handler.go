package handlers

import (
	"strconv"

	"github.com/eylemk/santral/app/dto"
	businessflow "github.com/eylemk/santral/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// TicketHandlerInterface defines the contract for ticket handlers
type TicketHandlerInterface interface {
	Finalize(c fiber.Ctx) error
	List(c fiber.Ctx) error
	UpdateStatus(c fiber.Ctx) error
}

// TicketHandler handles ticket-related HTTP requests
type TicketHandler struct {
	flow      businessflow.TicketFlow
	validator *validator.Validate
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(flow businessflow.TicketFlow) *TicketHandler {
	return &TicketHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// Finalize Ticket
// @Description Persist the filled creation form under a held reservation. The reservation must still be pending, unexpired, and owned by the caller.
// @Tags Tickets
// @Accept json
// @Produce json
// @Param request body dto.FinalizeTicketRequest true "Filled ticket form"
// @Success 201 {object} dto.APIResponse{data=dto.FinalizeTicketResponse} "Ticket created successfully"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 409 {object} dto.APIResponse "Reservation expired, not owned, or already used"
// @Failure 422 {object} dto.APIResponse "Customer, circuit, or category rejected"
// @Router /api/v1/tickets [post]
func (h *TicketHandler) Finalize(c fiber.Ctx) error {
	userID, ok := actorID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Operator not found in context", "MISSING_USER_ID", nil)
	}

	var req dto.FinalizeTicketRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationDetails(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.flow.Finalize(ctx, &req, ownerTag(userID), clientMetadata(c))
	if err != nil {
		switch {
		case businessflow.IsLockExpired(err):
			return errorResponse(c, fiber.StatusConflict, "Ticket number reservation has expired, please reserve again", "RESERVATION_EXPIRED", nil)
		case businessflow.IsLockOwnershipMismatch(err):
			return errorResponse(c, fiber.StatusConflict, "Ticket number is reserved by another operator", "RESERVATION_NOT_YOURS", nil)
		case businessflow.IsLockAlreadyUsed(err):
			return errorResponse(c, fiber.StatusConflict, "Ticket number was already used", "TICKET_NUMBER_USED", nil)
		case businessflow.IsCustomerNotFound(err):
			return errorResponse(c, fiber.StatusUnprocessableEntity, "Customer not found", "CUSTOMER_NOT_FOUND", nil)
		case businessflow.IsCustomerInactive(err):
			return errorResponse(c, fiber.StatusUnprocessableEntity, "Customer account is inactive", "CUSTOMER_INACTIVE", nil)
		case businessflow.IsCircuitNotOwned(err):
			return errorResponse(c, fiber.StatusUnprocessableEntity, "Circuit number does not belong to the customer", "CIRCUIT_NOT_OWNED", nil)
		case businessflow.IsCategoryNotFound(err):
			return errorResponse(c, fiber.StatusUnprocessableEntity, "Ticket category not found", "CATEGORY_NOT_FOUND", nil)
		}
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to create ticket", "CREATE_TICKET_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, "Ticket created successfully", result)
}

// List Tickets
// @Description List tickets filtered by customer, status, group, and creation window.
// @Tags Tickets
// @Produce json
// @Param customer_id query int false "Customer ID"
// @Param status query string false "Status name (exact, case-insensitive)"
// @Param group_id query int false "Routing group ID"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size (<=100)"
// @Success 200 {object} dto.APIResponse{data=dto.ListTicketsResponse} "Tickets retrieved successfully"
// @Router /api/v1/tickets [get]
func (h *TicketHandler) List(c fiber.Ctx) error {
	var req dto.ListTicketsRequest

	if v := c.Query("customer_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			customerID := uint(id)
			req.CustomerID = &customerID
		}
	}
	if v := c.Query("status"); v != "" {
		req.StatusName = &v
	}
	if v := c.Query("group_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			groupID := uint(id)
			req.GroupID = &groupID
		}
	}
	if v := c.Query("page"); v != "" {
		if page, err := strconv.ParseUint(v, 10, 32); err == nil {
			req.Page = uint(page)
		}
	}
	if v := c.Query("page_size"); v != "" {
		if size, err := strconv.ParseUint(v, 10, 32); err == nil {
			req.PageSize = uint(size)
		}
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.flow.ListTickets(ctx, &req)
	if err != nil {
		if businessflow.IsStartDateAfterEndDate(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Start date cannot be after end date", "INVALID_DATE_RANGE", nil)
		}
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list tickets", "LIST_TICKETS_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, "Tickets retrieved successfully", result)
}

// Update Ticket Status
// @Description Move a ticket to a new workflow status. A status containing a closed name (e.g. "kapandı") closes the ticket.
// @Tags Tickets
// @Accept json
// @Produce json
// @Param id path int true "Ticket ID"
// @Param request body dto.UpdateTicketStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse "Status updated"
// @Failure 404 {object} dto.APIResponse "Ticket not found"
// @Router /api/v1/tickets/{id}/status [patch]
func (h *TicketHandler) UpdateStatus(c fiber.Ctx) error {
	ticketID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid ticket ID", "INVALID_TICKET_ID", nil)
	}

	var req dto.UpdateTicketStatusRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationDetails(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.flow.UpdateStatus(ctx, uint(ticketID), &req, clientMetadata(c)); err != nil {
		if businessflow.IsTicketNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Ticket not found", "TICKET_NOT_FOUND", nil)
		}
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to update ticket status", "UPDATE_STATUS_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, "Ticket status updated", nil)
}
