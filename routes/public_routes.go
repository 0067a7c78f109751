package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/querocurso/marketplace/handlers"
)

func PublicRoutes(app *fiber.App, h *handlers.Handler) {
	api := app.Group("/api/v1")

	api.Get("/courses", h.ListCourses)
	api.Get("/courses/:courseId", h.GetCourse)
	api.Get("/settings", h.GetSettings)
}
