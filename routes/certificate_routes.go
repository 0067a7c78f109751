package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/querocurso/marketplace/handlers"
	"github.com/querocurso/marketplace/middleware"
)

func CertificateRoutes(app *fiber.App, h *handlers.Handler) {
	certificates := app.Group("/api/v1/certificates", middleware.Protected(h.JWTSecret))
	certificates.Get("/me", h.MyCertificates)
}
