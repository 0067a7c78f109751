package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/querocurso/marketplace/handlers"
	"github.com/querocurso/marketplace/middleware"
)

func AdminRoutes(app *fiber.App, h *handlers.Handler) {
	admin := app.Group("/api/v1/admin", middleware.Protected(h.JWTSecret), middleware.AdminRequired())

	admin.Get("/ranking", h.GetRanking)
	admin.Put("/settings", h.UpdateSettings)

	courses := admin.Group("/courses")
	courses.Post("", h.CreateCourse)
	courses.Put("/:courseId", h.UpdateCourse)
	courses.Delete("/:courseId", h.DeleteCourse)

	admin.Post("/enrollments/:enrollmentId/complete", h.CompleteEnrollment)

	certificates := admin.Group("/certificates")
	certificates.Post("/cleanup", h.CleanupCertificates)
	certificates.Post("/:certificateId/render", h.RenderCertificate)
}
