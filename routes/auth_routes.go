package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mkamau56/tutorhub/handlers"
	"github.com/mkamau56/tutorhub/middleware"
)

func AuthRoutes(app *fiber.App, h *handlers.AuthHandler) {
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/verify-email", h.VerifyEmail)
	auth.Post("/login", h.Login)
	auth.Post("/logout", middleware.Protected(), h.Logout)
	auth.Post("/forgot-password", h.ForgotPassword)
	auth.Post("/reset-password", h.ResetPassword)
}
