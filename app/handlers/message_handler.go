package handlers

import (
	"strconv"

	"github.com/eylemk/santral/app/dto"
	businessflow "github.com/eylemk/santral/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// MessageHandlerInterface defines the contract for message handlers
type MessageHandlerInterface interface {
	Send(c fiber.Ctx) error
	Inbox(c fiber.Ctx) error
	MarkRead(c fiber.Ctx) error
}

// MessageHandler handles internal messaging HTTP requests
type MessageHandler struct {
	flow      businessflow.MessageFlow
	validator *validator.Validate
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(flow businessflow.MessageFlow) *MessageHandler {
	return &MessageHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// Send Message
// @Description Send an internal note to another operator.
// @Tags Messages
// @Accept json
// @Produce json
// @Param request body dto.SendMessageRequest true "Recipient and body"
// @Success 201 {object} dto.APIResponse{data=dto.MessageItem} "Message sent"
// @Failure 404 {object} dto.APIResponse "Recipient not found"
// @Router /api/v1/messages [post]
func (h *MessageHandler) Send(c fiber.Ctx) error {
	userID, ok := actorID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Operator not found in context", "MISSING_USER_ID", nil)
	}

	var req dto.SendMessageRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationDetails(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.flow.Send(ctx, userID, &req, clientMetadata(c))
	if err != nil {
		if be, ok := err.(*businessflow.BusinessError); ok && be.Code == "RECIPIENT_NOT_FOUND" {
			return errorResponse(c, fiber.StatusNotFound, "Message recipient not found", be.Code, nil)
		}
		if businessflow.IsUserNotFound(err) {
			return errorResponse(c, fiber.StatusUnauthorized, "Sender not found", "USER_NOT_FOUND", nil)
		}
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to send message", "SEND_MESSAGE_FAILED", nil)
	}
	return successResponse(c, fiber.StatusCreated, "Message sent successfully", result)
}

// Inbox
// @Description List the operator's messages, newest first, with the unread count.
// @Tags Messages
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size (<=100)"
// @Success 200 {object} dto.APIResponse{data=dto.InboxResponse} "Inbox retrieved successfully"
// @Router /api/v1/messages/inbox [get]
func (h *MessageHandler) Inbox(c fiber.Ctx) error {
	userID, ok := actorID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Operator not found in context", "MISSING_USER_ID", nil)
	}

	var page, pageSize uint
	if v := c.Query("page"); v != "" {
		if p, err := strconv.ParseUint(v, 10, 32); err == nil {
			page = uint(p)
		}
	}
	if v := c.Query("page_size"); v != "" {
		if s, err := strconv.ParseUint(v, 10, 32); err == nil {
			pageSize = uint(s)
		}
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.flow.Inbox(ctx, userID, page, pageSize)
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to load inbox", "INBOX_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, "Inbox retrieved successfully", result)
}

// Mark Message Read
// @Description Stamp a message as read. Only the recipient can mark it; re-marking is a no-op.
// @Tags Messages
// @Produce json
// @Param id path int true "Message ID"
// @Success 200 {object} dto.APIResponse "Message marked read"
// @Failure 404 {object} dto.APIResponse "Message not found"
// @Router /api/v1/messages/{id}/read [post]
func (h *MessageHandler) MarkRead(c fiber.Ctx) error {
	userID, ok := actorID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Operator not found in context", "MISSING_USER_ID", nil)
	}

	messageID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid message ID", "INVALID_MESSAGE_ID", nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.flow.MarkRead(ctx, uint(messageID), userID); err != nil {
		if be, ok := err.(*businessflow.BusinessError); ok && be.Code == "MESSAGE_NOT_FOUND" {
			return errorResponse(c, fiber.StatusNotFound, "Message not found", be.Code, nil)
		}
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to mark message read", "MARK_READ_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, "Message marked read", nil)
}
