package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mkamau56/tutorhub/handlers"
	"github.com/mkamau56/tutorhub/middleware"
)

func ProfileRoutes(app *fiber.App, h *handlers.ProfileHandler) {
	api := app.Group("/api/v1")

	profile := api.Group("/profile", middleware.Protected())
	profile.Get("/me", h.GetProfile)
	profile.Put("/me", h.UpdateProfile)
}
