package api

import (
	"errors"
	"log/slog"

	"lodging-service/internal/service"
	"lodging-service/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const (
	msgBadRequest          = "Bad Request"
	msgForbidden           = "Forbidden"
	msgAuthRequired        = "Authentication required"
	msgInvalidCredentials  = "Invalid credentials"
	msgImageLimitReached   = "Maximum number of images for this resource was reached"
	msgAlreadyReviewed     = "User already has a review for this spot"
	msgStorageUnavailable  = "Image uploads are not available"
	msgInternalServerError = "Internal server error"
	msgSuccessfullyDeleted = "Successfully deleted"
)

// writeError maps service and validation errors onto the JSON error responses.
func writeError(c *fiber.Ctx, err error) error {
	var (
		fieldErrs *validation.Error
		notFound  *service.NotFoundError
	)

	switch {
	case errors.As(err, &fieldErrs):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": msgBadRequest, "errors": fieldErrs.Fields})
	case errors.As(err, &notFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": notFound.Error()})
	case errors.Is(err, service.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": msgForbidden})
	case errors.Is(err, service.ErrImageLimitReached):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": msgImageLimitReached})
	case errors.Is(err, service.ErrAlreadyReviewed):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": msgAlreadyReviewed})
	case errors.Is(err, service.ErrUnknownUser):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": msgAuthRequired})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": msgInvalidCredentials})
	case errors.Is(err, service.ErrStorageUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": msgStorageUnavailable})
	}

	slog.ErrorContext(c.UserContext(), "Unhandled request error",
		slog.String("method", c.Method()),
		slog.String("path", c.Path()),
		slog.String("error", err.Error()),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": msgInternalServerError})
}

// badBody answers a request whose body could not be decoded.
func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": msgBadRequest})
}

// ErrorHandler renders errors that escape the handlers, such as unknown routes, as JSON.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
	}
	return writeError(c, err)
}
