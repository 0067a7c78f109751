package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/querocurso/marketplace/handlers"
	"github.com/querocurso/marketplace/middleware"
)

func UploadRoutes(app *fiber.App, h *handlers.Handler) {
	uploads := app.Group("/api/v1/uploads", middleware.Protected(h.JWTSecret), middleware.AdminRequired())
	uploads.Get("/signature", h.GenerateUploadSignature)
}
