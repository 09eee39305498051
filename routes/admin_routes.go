package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mkamau56/tutorhub/handlers"
	"github.com/mkamau56/tutorhub/middleware"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	admin.Get("/applications", handlers.ListApplications)
	admin.Put("/applications/:applicationId/review", handlers.BeginApplicationReview)
	admin.Put("/applications/:applicationId", handlers.DecideApplication)

	users := admin.Group("/users")
	users.Get("", handlers.GetAllUsers)
	users.Put("/:userId/status", handlers.ToggleUserStatus)

	admin.Get("/sessions", handlers.AdminGetAllSessions)
	admin.Post("/sessions/:sessionId/cancel", handlers.AdminCancelSession)
	admin.Post("/sessions/:sessionId/add-link", handlers.AddMeetingLink)

	subjects := admin.Group("/subjects")
	subjects.Post("", handlers.CreateSubject)
	subjects.Put("/:subjectId", handlers.UpdateSubject)
	subjects.Delete("/:subjectId", handlers.DeleteSubject)

	admin.Get("/dashboard-analytics", handlers.GetDashboardAnalytics)
}
