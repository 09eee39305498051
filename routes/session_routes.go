package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mkamau56/tutorhub/handlers"
	"github.com/mkamau56/tutorhub/middleware"
)

func SessionRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	sessions := api.Group("/sessions", middleware.Protected(), middleware.StudentRequired())
	sessions.Post("", handlers.CreateSession)
	sessions.Get("/me", handlers.GetMySessions)
	sessions.Get("/me/upcoming", handlers.GetMyUpcomingSessions)

	tutorSessions := api.Group("/tutor/sessions", middleware.Protected(), middleware.TutorRequired())
	tutorSessions.Get("/requests", handlers.GetSessionRequests)
	tutorSessions.Post("/:sessionId/accept", handlers.AcceptSession)
	tutorSessions.Post("/:sessionId/decline", handlers.DeclineSession)
	tutorSessions.Post("/:sessionId/complete", handlers.CompleteSession)
}
