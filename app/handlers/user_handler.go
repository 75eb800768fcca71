package handlers

import (
	"strconv"

	"github.com/eylemk/santral/app/dto"
	businessflow "github.com/eylemk/santral/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// UserHandlerInterface defines the contract for user handlers
type UserHandlerInterface interface {
	Login(c fiber.Ctx) error
	Create(c fiber.Ctx) error
	List(c fiber.Ctx) error
	Deactivate(c fiber.Ctx) error
}

// UserHandler handles operator account HTTP requests
type UserHandler struct {
	flow      businessflow.UserFlow
	validator *validator.Validate
}

// NewUserHandler creates a new user handler
func NewUserHandler(flow businessflow.UserFlow) *UserHandler {
	return &UserHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// Login
// @Description Verify operator credentials and issue an access token.
// @Tags Users
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Login successful"
// @Failure 401 {object} dto.APIResponse "Invalid credentials"
// @Router /api/v1/auth/login [post]
func (h *UserHandler) Login(c fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationDetails(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.flow.Login(ctx, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return errorResponse(c, fiber.StatusUnauthorized, "Invalid username or password", "INVALID_CREDENTIALS", nil)
		}
		if be, ok := err.(*businessflow.BusinessError); ok && be.Code == "USER_INACTIVE" {
			return errorResponse(c, fiber.StatusUnauthorized, "User account is inactive", be.Code, nil)
		}
		return errorResponse(c, fiber.StatusInternalServerError, "Login failed", "LOGIN_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, "Login successful", result)
}

// Create User
// @Description Register a new back-office operator.
// @Tags Users
// @Accept json
// @Produce json
// @Param request body dto.CreateUserRequest true "Operator data"
// @Success 201 {object} dto.APIResponse{data=dto.UserItem} "User created"
// @Failure 409 {object} dto.APIResponse "Username already exists"
// @Router /api/v1/users [post]
func (h *UserHandler) Create(c fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationDetails(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.flow.CreateUser(ctx, &req, clientMetadata(c))
	if err != nil {
		if be, ok := err.(*businessflow.BusinessError); ok && be.Code == "USERNAME_EXISTS" {
			return errorResponse(c, fiber.StatusConflict, "Username is already taken", be.Code, nil)
		}
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to create user", "CREATE_USER_FAILED", nil)
	}
	return successResponse(c, fiber.StatusCreated, "User created successfully", result)
}

// List Users
// @Description List all back-office operators.
// @Tags Users
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ListUsersResponse} "Users retrieved successfully"
// @Router /api/v1/users [get]
func (h *UserHandler) List(c fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.flow.ListUsers(ctx)
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list users", "LIST_USERS_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, "Users retrieved successfully", result)
}

// Deactivate User
// @Description Disable an operator account. Already-issued tokens stay valid until they expire.
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse "User deactivated"
// @Failure 404 {object} dto.APIResponse "User not found"
// @Router /api/v1/users/{id}/deactivate [post]
func (h *UserHandler) Deactivate(c fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid user ID", "INVALID_USER_ID", nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.flow.DeactivateUser(ctx, uint(userID), clientMetadata(c)); err != nil {
		if businessflow.IsUserNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to deactivate user", "DEACTIVATE_USER_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, "User deactivated", nil)
}
