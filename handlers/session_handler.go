package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mkamau56/tutorhub/database"
	"github.com/mkamau56/tutorhub/middleware"
	"github.com/mkamau56/tutorhub/models"
	"github.com/mkamau56/tutorhub/notifications"
)

type CreateSessionRequest struct {
	TutorID   string `json:"tutor_id" validate:"required,uuid"`
	SubjectID string `json:"subject_id" validate:"required,uuid"`
	DateTime  string `json:"date_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

// CreateSession books a tutoring session for the calling student. The
// price is taken from the tutor's application rate at booking time.
func CreateSession(c *fiber.Ctx) error {
	studentID, _ := uuid.Parse(middleware.ClaimsUserID(c))

	var req CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	tutorID, _ := uuid.Parse(req.TutorID)
	subjectID, _ := uuid.Parse(req.SubjectID)
	dateTime, _ := time.Parse(time.RFC3339, req.DateTime)

	if dateTime.Before(time.Now()) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Session time must be in the future"})
	}

	var tutor models.User
	if err := database.DB.Where("id = ? AND role = ?", tutorID, models.RoleTutor).First(&tutor).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutor not found"})
	}

	var subject models.Subject
	if err := database.DB.First(&subject, "id = ?", subjectID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Subject not found"})
	}

	var application models.TutorApplication
	if err := database.DB.Where("user_id = ?", tutorID).First(&application).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutor is not accepting sessions"})
	}

	session := models.Session{
		StudentID: studentID,
		TutorID:   tutorID,
		SubjectID: subjectID,
		DateTime:  dateTime,
		Price:     application.HourlyRate,
		Currency:  application.Currency,
		Status:    models.SessionScheduled,
	}
	if err := database.DB.Create(&session).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create session"})
	}

	notifications.Notify(notifications.Notification{
		UserID:      tutorID,
		Title:       "New Session Request",
		Description: fmt.Sprintf("A student requested a %s session on %s.", subject.Name, dateTime.Format(time.RFC1123)),
		Severity:    notifications.SeverityInfo,
	})
	go notifications.SendEmail(
		tutor.DisplayName(),
		tutor.Email,
		"You Have a New Session Request",
		fmt.Sprintf("<h1>New Session Request</h1><p>A student has requested a %s session on %s.</p>", subject.Name, dateTime.Format(time.RFC1123)),
	)

	return c.Status(fiber.StatusCreated).JSON(session)
}

func GetMySessions(c *fiber.Ctx) error {
	studentID := middleware.ClaimsUserID(c)

	var sessions []models.Session
	database.DB.Preload("Tutor").Preload("Subject").
		Where("student_id = ?", studentID).
		Order("date_time desc").
		Find(&sessions)

	return c.JSON(sessions)
}

func GetMyUpcomingSessions(c *fiber.Ctx) error {
	studentID := middleware.ClaimsUserID(c)

	var sessions []models.Session
	database.DB.Preload("Tutor").Preload("Subject").
		Where("student_id = ?", studentID).
		Scopes(models.ScopeUpcoming(time.Now())).
		Find(&sessions)

	return c.JSON(sessions)
}

// GetSessionRequests lists the tutor's upcoming scheduled sessions,
// soonest first. These double as the "requests" tab: a scheduled
// session is a request until the tutor accepts or declines it.
func GetSessionRequests(c *fiber.Ctx) error {
	tutorID := middleware.ClaimsUserID(c)

	var sessions []models.Session
	database.DB.Preload("Student").Preload("Subject").
		Where("tutor_id = ?", tutorID).
		Scopes(models.ScopeUpcoming(time.Now())).
		Find(&sessions)

	return c.JSON(sessions)
}

// AcceptSession confirms a scheduled session. Only a tutor whose
// application has been approved may accept.
func AcceptSession(c *fiber.Ctx) error {
	return tutorSessionAction(c, "accept")
}

func DeclineSession(c *fiber.Ctx) error {
	return tutorSessionAction(c, "decline")
}

func tutorSessionAction(c *fiber.Ctx, action string) error {
	tutorID, _ := uuid.Parse(middleware.ClaimsUserID(c))
	sessionID := c.Params("sessionId")

	var session models.Session
	if err := database.DB.Preload("Student").Preload("Subject").First(&session, "id = ?", sessionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	}
	if session.TutorID != tutorID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not the tutor for this session"})
	}

	if action == "accept" {
		var application models.TutorApplication
		err := database.DB.Where("user_id = ?", tutorID).First(&application).Error
		if err != nil || application.Status != models.ApplicationApproved {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Your tutor application must be approved before accepting sessions"})
		}
	}

	var err error
	var title, description string
	switch action {
	case "accept":
		err = session.Accept()
		title = "Session Accepted"
		description = fmt.Sprintf("Your tutor accepted the %s session on %s.", session.Subject.Name, session.DateTime.Format(time.RFC1123))
	case "decline":
		err = session.Decline()
		title = "Session Declined"
		description = fmt.Sprintf("Your tutor declined the %s session on %s.", session.Subject.Name, session.DateTime.Format(time.RFC1123))
	}
	if err != nil {
		return transitionError(c, err)
	}

	if err := database.DB.Save(&session).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update session"})
	}

	notifications.Notify(notifications.Notification{
		UserID:      session.StudentID,
		Title:       title,
		Description: description,
		Severity:    notifications.SeverityInfo,
	})
	go notifications.SendEmail(
		session.Student.DisplayName(),
		session.Student.Email,
		title,
		fmt.Sprintf("<h1>%s</h1><p>%s</p>", title, description),
	)

	return c.JSON(session)
}

// CompleteSession lets the tutor close out an elapsed session.
func CompleteSession(c *fiber.Ctx) error {
	tutorID, _ := uuid.Parse(middleware.ClaimsUserID(c))
	sessionID := c.Params("sessionId")

	var session models.Session
	if err := database.DB.First(&session, "id = ?", sessionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	}
	if session.TutorID != tutorID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not the tutor for this session"})
	}

	if err := session.Complete(time.Now()); err != nil {
		return transitionError(c, err)
	}
	if err := database.DB.Save(&session).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update session"})
	}

	notifications.Notify(notifications.Notification{
		UserID:      session.StudentID,
		Title:       "Session Completed",
		Description: "Your tutoring session has been marked as completed.",
		Severity:    notifications.SeverityInfo,
	})

	return c.JSON(session)
}

// transitionError surfaces a rejected status change as a conflict so
// the caller can tell it apart from a validation failure.
func transitionError(c *fiber.Ctx, err error) error {
	var invalid *models.InvalidTransitionError
	if errors.As(err, &invalid) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": invalid.Error()})
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}
