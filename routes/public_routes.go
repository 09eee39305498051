package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mkamau56/tutorhub/handlers"
)

func PublicRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/tutors", handlers.ListApprovedTutors)
	api.Get("/tutors/:tutorId", handlers.GetTutorDetail)
	api.Get("/subjects", handlers.ListSubjects)
}
