package handlers

import (
	"strconv"
	"time"

	"github.com/eylemk/santral/app/dto"
	businessflow "github.com/eylemk/santral/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// ShiftHandlerInterface defines the contract for shift handlers
type ShiftHandlerInterface interface {
	Create(c fiber.Ctx) error
	List(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
}

// ShiftHandler handles shift scheduling HTTP requests
type ShiftHandler struct {
	flow      businessflow.ShiftFlow
	validator *validator.Validate
}

// NewShiftHandler creates a new shift handler
func NewShiftHandler(flow businessflow.ShiftFlow) *ShiftHandler {
	return &ShiftHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// Create Shift
// @Description Schedule a working interval for an operator. Overlapping shifts for the same operator are rejected.
// @Tags Shifts
// @Accept json
// @Produce json
// @Param request body dto.CreateShiftRequest true "Shift interval"
// @Success 201 {object} dto.APIResponse{data=dto.ShiftItem} "Shift created"
// @Failure 409 {object} dto.APIResponse "Shift overlaps an existing one"
// @Router /api/v1/shifts [post]
func (h *ShiftHandler) Create(c fiber.Ctx) error {
	var req dto.CreateShiftRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationDetails(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.flow.CreateShift(ctx, &req, clientMetadata(c))
	if err != nil {
		switch {
		case businessflow.IsShiftOverlap(err):
			return errorResponse(c, fiber.StatusConflict, "Shift overlaps an existing shift", "SHIFT_OVERLAP", nil)
		case businessflow.IsUserNotFound(err):
			return errorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}
		if be, ok := err.(*businessflow.BusinessError); ok && be.Code == "SHIFT_INVERTED" {
			return errorResponse(c, fiber.StatusBadRequest, "Shift must end after it starts", be.Code, nil)
		}
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to create shift", "CREATE_SHIFT_FAILED", nil)
	}
	return successResponse(c, fiber.StatusCreated, "Shift created successfully", result)
}

// List Shifts
// @Description List shifts filtered by operator and time window, earliest first.
// @Tags Shifts
// @Produce json
// @Param user_id query int false "Operator ID"
// @Param from query string false "RFC3339 lower bound on start"
// @Param to query string false "RFC3339 upper bound on end"
// @Success 200 {object} dto.APIResponse{data=dto.ListShiftsResponse} "Shifts retrieved successfully"
// @Router /api/v1/shifts [get]
func (h *ShiftHandler) List(c fiber.Ctx) error {
	var req dto.ListShiftsRequest
	if v := c.Query("user_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			userID := uint(id)
			req.UserID = &userID
		}
	}
	if v := c.Query("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			req.StartsAfter = &t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			req.EndsBefore = &t
		}
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.flow.ListShifts(ctx, &req)
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list shifts", "LIST_SHIFTS_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, "Shifts retrieved successfully", result)
}

// Delete Shift
// @Description Remove a scheduled shift.
// @Tags Shifts
// @Produce json
// @Param id path int true "Shift ID"
// @Success 200 {object} dto.APIResponse "Shift deleted"
// @Failure 404 {object} dto.APIResponse "Shift not found"
// @Router /api/v1/shifts/{id} [delete]
func (h *ShiftHandler) Delete(c fiber.Ctx) error {
	shiftID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid shift ID", "INVALID_SHIFT_ID", nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.flow.DeleteShift(ctx, uint(shiftID), clientMetadata(c)); err != nil {
		if be, ok := err.(*businessflow.BusinessError); ok && be.Code == "SHIFT_NOT_FOUND" {
			return errorResponse(c, fiber.StatusNotFound, "Shift not found", be.Code, nil)
		}
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to delete shift", "DELETE_SHIFT_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, "Shift deleted", nil)
}
