package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mkamau56/tutorhub/guard"
	"github.com/mkamau56/tutorhub/handlers"
	"github.com/mkamau56/tutorhub/models"
)

// PageRoutes registers the role-gated page endpoints. Unlike the JSON
// API, these answer the way a browser expects: wrong or missing
// sessions get a 302 to the login page or the user's own home.
func PageRoutes(app *fiber.App, g *guard.Middleware) {
	app.Get("/find-tutors", g.Require(models.RoleStudent), handlers.FindTutorsPage)
	app.Get("/student/dashboard", g.Require(models.RoleStudent), handlers.StudentDashboard)
	app.Get("/tutor/dashboard", g.Require(models.RoleTutor), handlers.TutorDashboard)
	app.Get("/admin", g.Require(models.RoleAdmin), handlers.AdminHome)
}
