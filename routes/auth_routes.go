package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/querocurso/marketplace/handlers"
)

func AuthRoutes(app *fiber.App, h *handlers.Handler) {
	auth := app.Group("/api/v1/auth")
	auth.Post("/login", h.Login)
}
