// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/eylemk/santral/app/dto"
	businessflow "github.com/eylemk/santral/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

const requestTimeout = 30 * time.Second

func getValidationErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return err.Field() + " must be at least " + err.Param() + " characters"
	case "max":
		return err.Field() + " must be at most " + err.Param() + " characters"
	case "oneof":
		return err.Field() + " must be one of: " + err.Param()
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", err.Field(), err.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", err.Field(), err.Param())
	default:
		return err.Field() + " is invalid"
	}
}

// validationDetails flattens validator errors into user-facing messages
func validationDetails(err error) []string {
	var details []string
	if errs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range errs {
			details = append(details, getValidationErrorMessage(fe))
		}
	}
	return details
}

func errorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func successResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// requestContext creates a request-scoped context with a timeout and
// observability values. Callers must defer the cancel func.
func requestContext(c fiber.Ctx) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	if requestID := c.Get("X-Request-ID"); requestID != "" {
		ctx = context.WithValue(ctx, "request_id", requestID)
	}
	return ctx, cancel
}

func clientMetadata(c fiber.Ctx) *businessflow.ClientMetadata {
	md := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	md.RequestID = c.Get("X-Request-ID")
	return md
}

// actorID returns the authenticated operator's ID from the request context
func actorID(c fiber.Ctx) (uint, bool) {
	id, ok := c.Locals("user_id").(uint)
	return id, ok
}

// ownerTag renders the operator ID the way lock ownership records it
func ownerTag(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}
