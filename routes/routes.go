// path: routes/routes.go
package routes

import (
	"github.com/gofiber/fiber/v2"

	"parkwatch/controllers"
)

// Register attaches all API endpoints to the app.
func Register(app *fiber.App, h *controllers.Handlers) {
	api := app.Group("/api")

	api.Post("/logs", h.HandlePostSighting)
	api.Get("/logs", h.HandleListSightings)

	api.Post("/emails", h.HandleRegisterEmail)
	api.Get("/emails", h.HandleListEmails)

	api.Post("/phones", h.HandleRegisterPhone)
	api.Get("/phones", h.HandleListPhones)

	api.Post("/fire-alert", h.HandleBroadcastFire)
	api.Post("/text", h.HandleSendText)

	// Optional: quick echo to verify requests reach the API
	api.Get("/debug/echo", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"method": c.Method(),
			"ct":     c.Get("Content-Type"),
			"len":    len(c.Body()),
		})
	})
}
