package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mkamau56/tutorhub/database"
	"github.com/mkamau56/tutorhub/guard"
	"github.com/mkamau56/tutorhub/models"
)

// Page handlers back the role-gated pages. They run behind the guard
// middleware, which has already resolved the profile into locals.

func pageProfile(c *fiber.Ctx) *models.User {
	profile, _ := c.Locals(guard.LocalProfile).(*models.User)
	return profile
}

// FindTutorsPage is the student home: the approved-tutor directory
// plus the signed-in student's profile.
func FindTutorsPage(c *fiber.Ctx) error {
	profile := pageProfile(c)

	var tutors []models.TutorApplication
	database.DB.Preload("User").Preload("Subjects").
		Where("status = ?", models.ApplicationApproved).
		Find(&tutors)

	return c.JSON(fiber.Map{
		"profile": profile,
		"tutors":  tutors,
	})
}

func StudentDashboard(c *fiber.Ctx) error {
	profile := pageProfile(c)

	var upcoming []models.Session
	database.DB.Preload("Tutor").Preload("Subject").
		Where("student_id = ?", profile.ID).
		Scopes(models.ScopeUpcoming(time.Now())).
		Find(&upcoming)

	return c.JSON(fiber.Map{
		"profile":           profile,
		"upcoming_sessions": upcoming,
	})
}

func TutorDashboard(c *fiber.Ctx) error {
	profile := pageProfile(c)

	var application *models.TutorApplication
	var app models.TutorApplication
	if err := database.DB.Preload("Subjects").Where("user_id = ?", profile.ID).First(&app).Error; err == nil {
		application = &app
	}

	var requests []models.Session
	database.DB.Preload("Student").Preload("Subject").
		Where("tutor_id = ?", profile.ID).
		Scopes(models.ScopeUpcoming(time.Now())).
		Find(&requests)

	return c.JSON(fiber.Map{
		"profile":          profile,
		"application":      application,
		"session_requests": requests,
	})
}

func AdminHome(c *fiber.Ctx) error {
	return GetDashboardAnalytics(c)
}
