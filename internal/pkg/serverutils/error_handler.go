package serverutils

import (
	"errors"

	"featureboard-be/internal/entity"
	"featureboard-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type errorMapping struct {
	target error
	status int
	kind   string
}

// Order matters: the specific not-found kinds come before ErrNotFound.
var errorMappings = []errorMapping{
	{entity.ErrAlreadyVoted, fiber.StatusConflict, "ALREADY_VOTED"},
	{entity.ErrVoteNotFound, fiber.StatusNotFound, "VOTE_NOT_FOUND"},
	{entity.ErrStoreUnavailable, fiber.StatusServiceUnavailable, "STORE_UNAVAILABLE"},
	{entity.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{entity.ErrInvalidStatus, fiber.StatusBadRequest, "INVALID_STATUS"},
	{entity.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
}

// MapError resolves an error to its HTTP status and error kind.
func MapError(err error) (int, string) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return fiber.StatusBadRequest, "VALIDATION_FAILED"
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.kind
		}
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, ""
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

// ErrorHandlerMiddleware turns errors returned by handlers into the JSON
// envelope. 5xx failures are logged.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status, kind := MapError(err)

		message := err.Error()
		if status >= fiber.StatusInternalServerError {
			log.Error("HTTP", "Request failed", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"status": status,
				"error":  err,
			})
			if status == fiber.StatusInternalServerError {
				message = "Internal server error"
			}
		}

		return ctx.Status(status).JSON(ErrorResponseWithKind(status, kind, message))
	}
}
