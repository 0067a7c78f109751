package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/querocurso/marketplace/handlers"
)

// Register mounts every API route on app.
func Register(app *fiber.App, h *handlers.Handler) {
	PublicRoutes(app, h)
	AuthRoutes(app, h)
	CertificateRoutes(app, h)
	AdminRoutes(app, h)
	UploadRoutes(app, h)
	WebsocketRoutes(app, h)
}
