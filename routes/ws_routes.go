package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/querocurso/marketplace/handlers"
)

func WebsocketRoutes(app *fiber.App, h *handlers.Handler) {
	api := app.Group("/api/v1")

	api.Use("/ws", handlers.UpgradeOnly)
	api.Get("/ws", websocket.New(h.ServeWs))
}
