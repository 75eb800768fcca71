package handlers

import (
	"strconv"

	"github.com/eylemk/santral/app/dto"
	businessflow "github.com/eylemk/santral/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// CustomerHandlerInterface defines the contract for customer handlers
type CustomerHandlerInterface interface {
	Create(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	List(c fiber.Ctx) error
}

// CustomerHandler handles customer-related HTTP requests
type CustomerHandler struct {
	flow      businessflow.CustomerFlow
	validator *validator.Validate
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(flow businessflow.CustomerFlow) *CustomerHandler {
	return &CustomerHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// Create Customer
// @Description Register a new subscriber with their provisioned circuit numbers.
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body dto.CreateCustomerRequest true "Customer data"
// @Success 201 {object} dto.APIResponse{data=dto.CustomerItem} "Customer created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Router /api/v1/customers [post]
func (h *CustomerHandler) Create(c fiber.Ctx) error {
	var req dto.CreateCustomerRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationDetails(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.flow.CreateCustomer(ctx, &req, clientMetadata(c))
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to create customer", "CREATE_CUSTOMER_FAILED", nil)
	}
	return successResponse(c, fiber.StatusCreated, "Customer created successfully", result)
}

// Update Customer
// @Description Apply partial updates to a subscriber.
// @Tags Customers
// @Accept json
// @Produce json
// @Param id path int true "Customer ID"
// @Param request body dto.UpdateCustomerRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.CustomerItem} "Customer updated"
// @Failure 404 {object} dto.APIResponse "Customer not found"
// @Router /api/v1/customers/{id} [patch]
func (h *CustomerHandler) Update(c fiber.Ctx) error {
	customerID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid customer ID", "INVALID_CUSTOMER_ID", nil)
	}

	var req dto.UpdateCustomerRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationDetails(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.flow.UpdateCustomer(ctx, uint(customerID), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsCustomerNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Customer not found", "CUSTOMER_NOT_FOUND", nil)
		}
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to update customer", "UPDATE_CUSTOMER_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, "Customer updated successfully", result)
}

// Get Customer
// @Description Fetch a single subscriber by ID.
// @Tags Customers
// @Produce json
// @Param id path int true "Customer ID"
// @Success 200 {object} dto.APIResponse{data=dto.CustomerItem} "Customer"
// @Failure 404 {object} dto.APIResponse "Customer not found"
// @Router /api/v1/customers/{id} [get]
func (h *CustomerHandler) Get(c fiber.Ctx) error {
	customerID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid customer ID", "INVALID_CUSTOMER_ID", nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.flow.GetCustomer(ctx, uint(customerID))
	if err != nil {
		if businessflow.IsCustomerNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Customer not found", "CUSTOMER_NOT_FOUND", nil)
		}
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to fetch customer", "GET_CUSTOMER_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, "Customer retrieved successfully", result)
}

// List Customers
// @Description List subscribers filtered by name, phone, or circuit number.
// @Tags Customers
// @Produce json
// @Param full_name query string false "Full name (exact)"
// @Param phone query string false "Phone number"
// @Param circuit query string false "Circuit number"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size (<=100)"
// @Success 200 {object} dto.APIResponse{data=dto.ListCustomersResponse} "Customers retrieved successfully"
// @Router /api/v1/customers [get]
func (h *CustomerHandler) List(c fiber.Ctx) error {
	var req dto.ListCustomersRequest
	if v := c.Query("full_name"); v != "" {
		req.FullName = &v
	}
	if v := c.Query("phone"); v != "" {
		req.PhoneNumber = &v
	}
	if v := c.Query("circuit"); v != "" {
		req.CircuitNumber = &v
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

	result, err := h.flow.ListCustomers(ctx, &req)
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list customers", "LIST_CUSTOMERS_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, "Customers retrieved successfully", result)
}
