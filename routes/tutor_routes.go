package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mkamau56/tutorhub/handlers"
	"github.com/mkamau56/tutorhub/middleware"
)

func TutorRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	tutor := api.Group("/tutor", middleware.Protected(), middleware.TutorRequired())
	tutor.Get("/application", handlers.GetMyApplication)
	tutor.Put("/application", handlers.UpdateMyApplication)
	tutor.Put("/application/document", handlers.AttachDocument)
	tutor.Get("/upload-signature", handlers.GenerateUploadSignature)
}
