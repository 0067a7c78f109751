package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// GenerateUploadSignature lets the admin panel upload certificate templates
// and signatures straight to Cloudinary.
func (h *Handler) GenerateUploadSignature(c *fiber.Ctx) error {
	if h.Signer == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "Direct uploads are not configured")
	}
	sig, err := h.Signer.SignUpload(h.UploadFolder, h.now())
	if err != nil {
		h.Logger.Error("failed to sign upload params", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to sign upload params"})
	}
	return c.JSON(sig)
}
