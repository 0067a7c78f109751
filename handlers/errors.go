package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/querocurso/marketplace/ranking"
	"github.com/querocurso/marketplace/services"
	"go.uber.org/zap"
)

func statusFor(err error) int {
	var fe *fiber.Error
	var ve *ranking.ValidationError
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrValidation), errors.As(err, &ve):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, services.ErrTemplateFetch),
		errors.Is(err, services.ErrAssetFetch),
		errors.Is(err, services.ErrUpload),
		errors.Is(err, services.ErrStorageRemove):
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

// ErrorHandler renders every error returned by a handler as
// {status, code, message}. Internal errors are logged and masked.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := statusFor(err)
		message := err.Error()
		if code >= fiber.StatusInternalServerError {
			logger.Error("[ERROR] request failed",
				zap.Int("code", code),
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
				zap.Error(err))
			if code == fiber.StatusInternalServerError {
				message = "Internal server error"
			}
		}
		return c.Status(code).JSON(fiber.Map{
			"status":  "error",
			"code":    code,
			"message": message,
		})
	}
}
