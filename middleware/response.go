package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"yoga/services"
)

// ErrorResponse is the uniform body for access failures.
func ErrorResponse(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}

// FailureResponse reports a store or workflow failure as {error: message}.
func FailureResponse(c *fiber.Ctx, err error) error {
	return c.Status(StatusFor(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func ValidationErrorResponse(c *fiber.Ctx, fields map[string]string) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"error":  "Validation failed!",
		"fields": fields,
	})
}

// StatusFor maps the error taxonomy to an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrInvalidIdentifier),
		errors.Is(err, services.ErrUnsupportedOperation),
		errors.Is(err, services.ErrInvalidAmount):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrPaymentNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrPaymentFailed):
		return fiber.StatusPaymentRequired
	case errors.Is(err, services.ErrProviderDown):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
