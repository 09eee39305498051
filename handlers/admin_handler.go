package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mkamau56/tutorhub/database"
	"github.com/mkamau56/tutorhub/models"
	"github.com/mkamau56/tutorhub/notifications"
)

func ListApplications(c *fiber.Ctx) error {
	query := database.DB.Preload("User").Preload("Subjects")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	} else {
		query = query.Where("status IN ?", []models.ApplicationStatus{
			models.ApplicationPending,
			models.ApplicationUnderReview,
		})
	}

	var applications []models.TutorApplication
	if err := query.Order("submitted_at asc").Find(&applications).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(applications)
}

// BeginApplicationReview moves a pending application to under_review
// so other admins can see it is being handled.
func BeginApplicationReview(c *fiber.Ctx) error {
	var application models.TutorApplication
	if err := database.DB.Where("id = ?", c.Params("applicationId")).First(&application).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Application not found"})
	}

	if err := application.BeginReview(); err != nil {
		return transitionError(c, err)
	}
	if err := database.DB.Save(&application).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update application"})
	}

	return c.JSON(application)
}

type DecideApplicationRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

// DecideApplication approves or rejects a tutor application and
// notifies the applicant.
func DecideApplication(c *fiber.Ctx) error {
	var req DecideApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var application models.TutorApplication
	if err := database.DB.Preload("User").Where("id = ?", c.Params("applicationId")).First(&application).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Application not found"})
	}

	var err error
	if req.Status == string(models.ApplicationApproved) {
		err = application.Approve()
	} else {
		err = application.Reject()
	}
	if err != nil {
		return transitionError(c, err)
	}

	if err := database.DB.Save(&application).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update application"})
	}

	switch application.Status {
	case models.ApplicationApproved:
		notifications.Notify(notifications.Notification{
			UserID:      application.UserID,
			Title:       "Application Approved",
			Description: "Your tutor application has been approved. You can now accept sessions.",
			Severity:    notifications.SeverityInfo,
		})
		go notifications.SendEmail(
			application.User.DisplayName(),
			application.User.Email,
			"Your Tutor Application has been Approved!",
			"<h1>Congratulations!</h1><p>Your application to become a tutor has been approved. You can now accept session requests from students.</p>",
		)
	case models.ApplicationRejected:
		notifications.Notify(notifications.Notification{
			UserID:      application.UserID,
			Title:       "Application Update",
			Description: "Your tutor application was not approved at this time.",
			Severity:    notifications.SeverityError,
		})
		go notifications.SendEmail(
			application.User.DisplayName(),
			application.User.Email,
			"Update on Your Tutor Application",
			"<h1>Application Update</h1><p>We regret to inform you that after careful review, your tutor application was not approved at this time.</p>",
		)
	}

	return c.JSON(fiber.Map{"message": "Application status updated successfully"})
}

func GetAllUsers(c *fiber.Ctx) error {
	query := database.DB.Model(&models.User{})
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var users []models.User
	if err := query.Order("created_at desc").Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(users)
}

func ToggleUserStatus(c *fiber.Ctx) error {
	var user models.User
	if err := database.DB.Where("id = ?", c.Params("userId")).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	user.IsActive = !user.IsActive
	if err := database.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update user"})
	}

	return c.JSON(fiber.Map{"id": user.ID, "is_active": user.IsActive})
}

func AdminGetAllSessions(c *fiber.Ctx) error {
	query := database.DB.Preload("Student").Preload("Tutor").Preload("Subject")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var sessions []models.Session
	if err := query.Order("date_time desc").Find(&sessions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(sessions)
}

// AdminCancelSession cancels a scheduled session on behalf of the
// platform, notifying both parties.
func AdminCancelSession(c *fiber.Ctx) error {
	var session models.Session
	if err := database.DB.Preload("Student").Preload("Tutor").First(&session, "id = ?", c.Params("sessionId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	}

	if err := session.Cancel(); err != nil {
		return transitionError(c, err)
	}
	if err := database.DB.Save(&session).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to cancel session"})
	}

	description := fmt.Sprintf("Your session on %s was cancelled by an administrator.", session.DateTime.Format(time.RFC1123))
	for _, party := range []models.User{session.Student, session.Tutor} {
		notifications.Notify(notifications.Notification{
			UserID:      party.ID,
			Title:       "Session Cancelled",
			Description: description,
			Severity:    notifications.SeverityError,
		})
		go notifications.SendEmail(
			party.DisplayName(),
			party.Email,
			"Session Cancelled",
			fmt.Sprintf("<h1>Session Cancelled</h1><p>%s</p>", description),
		)
	}

	return c.JSON(session)
}

type AddMeetingLinkRequest struct {
	MeetingLink string `json:"meeting_link" validate:"required,url"`
}

func AddMeetingLink(c *fiber.Ctx) error {
	var req AddMeetingLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var session models.Session
	if err := database.DB.First(&session, "id = ?", c.Params("sessionId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	}
	if session.Terminal() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Cannot attach a link to a finished session"})
	}

	session.MeetingLink = &req.MeetingLink
	if err := database.DB.Save(&session).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save meeting link"})
	}

	return c.JSON(session)
}

func GetDashboardAnalytics(c *fiber.Ctx) error {
	var students, tutors, pendingApplications, scheduled, completed int64

	database.DB.Model(&models.User{}).Where("role = ?", models.RoleStudent).Count(&students)
	database.DB.Model(&models.User{}).Where("role = ?", models.RoleTutor).Count(&tutors)
	database.DB.Model(&models.TutorApplication{}).
		Where("status IN ?", []models.ApplicationStatus{models.ApplicationPending, models.ApplicationUnderReview}).
		Count(&pendingApplications)
	database.DB.Model(&models.Session{}).Where("status = ?", models.SessionScheduled).Count(&scheduled)
	database.DB.Model(&models.Session{}).Where("status = ?", models.SessionCompleted).Count(&completed)

	return c.JSON(fiber.Map{
		"total_students":       students,
		"total_tutors":         tutors,
		"pending_applications": pendingApplications,
		"scheduled_sessions":   scheduled,
		"completed_sessions":   completed,
	})
}
