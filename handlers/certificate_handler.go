package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/querocurso/marketplace/middleware"
	"go.uber.org/zap"
)

// RenderCertificate renders synchronously and returns the public URL.
func (h *Handler) RenderCertificate(c *fiber.Ctx) error {
	url, err := h.Certificates.Render(c.UserContext(), c.Params("certificateId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"url": url})
}

// CompleteEnrollment concludes the enrollment and issues its certificate.
// Rendering continues in the background.
func (h *Handler) CompleteEnrollment(c *fiber.Ctx) error {
	cert, err := h.Certificates.CompleteEnrollment(c.UserContext(), c.Params("enrollmentId"))
	if err != nil {
		return err
	}
	h.Logger.Info("enrollment completed",
		zap.String("enrollment_id", c.Params("enrollmentId")),
		zap.String("certificate_id", cert.ID.String()))
	status := fiber.StatusAccepted
	if cert.Rendered() {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(cert)
}

func (h *Handler) CleanupCertificates(c *fiber.Ctx) error {
	res, err := h.Certificates.CleanupExpired(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (h *Handler) MyCertificates(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}
	certs, err := h.Certificates.ListForStudent(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(certs)
}
