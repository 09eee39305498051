package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mkamau56/tutorhub/database"
	"github.com/mkamau56/tutorhub/middleware"
	"github.com/mkamau56/tutorhub/models"
	"gorm.io/gorm"
)

// ListApprovedTutors backs the public find-tutors listing. Only tutors
// with an approved application appear, optionally filtered by subject.
func ListApprovedTutors(c *fiber.Ctx) error {
	query := database.DB.Preload("User").Preload("Subjects").
		Where("status = ?", models.ApplicationApproved)

	if subject := c.Query("subject"); subject != "" {
		query = query.
			Joins("JOIN application_subjects ON application_subjects.tutor_application_id = tutor_applications.id").
			Joins("JOIN subjects ON subjects.id = application_subjects.subject_id").
			Where("subjects.name = ?", subject)
	}

	var applications []models.TutorApplication
	if err := query.Find(&applications).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(applications)
}

func GetTutorDetail(c *fiber.Ctx) error {
	tutorID := c.Params("tutorId")

	var application models.TutorApplication
	err := database.DB.Preload("User").Preload("Subjects").
		Where("user_id = ? AND status = ?", tutorID, models.ApplicationApproved).
		First(&application).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutor not found"})
	}

	return c.JSON(application)
}

func GetMyApplication(c *fiber.Ctx) error {
	tutorID := middleware.ClaimsUserID(c)

	var application models.TutorApplication
	if err := database.DB.Preload("Subjects").Where("user_id = ?", tutorID).First(&application).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No application found"})
	}

	return c.JSON(application)
}

type UpdateApplicationRequest struct {
	Bio          *string        `json:"bio"`
	HourlyRate   *float64       `json:"hourly_rate" validate:"omitempty,gt=0"`
	Currency     *string        `json:"currency" validate:"omitempty,iso4217"`
	Availability models.JSONMap `json:"availability"`
	SubjectIDs   []string       `json:"subject_ids" validate:"omitempty,dive,uuid"`
}

// UpdateMyApplication lets a tutor refine a submission that has not
// been decided yet. Approved and rejected applications are frozen.
func UpdateMyApplication(c *fiber.Ctx) error {
	tutorID := middleware.ClaimsUserID(c)

	var application models.TutorApplication
	if err := database.DB.Where("user_id = ?", tutorID).First(&application).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No application found"})
	}
	if application.Decided() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "A decided application can no longer be edited"})
	}

	var req UpdateApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if req.Bio != nil {
		application.Bio = req.Bio
	}
	if req.HourlyRate != nil {
		application.HourlyRate = *req.HourlyRate
	}
	if req.Currency != nil {
		application.Currency = *req.Currency
	}
	if req.Availability != nil {
		application.Availability = req.Availability
	}
	application.SubmittedAt = time.Now()

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&application).Error; err != nil {
			return err
		}

		if req.SubjectIDs != nil {
			var subjects []*models.Subject
			for _, raw := range req.SubjectIDs {
				id, err := uuid.Parse(raw)
				if err != nil {
					return errors.New("invalid subject id")
				}
				var subject models.Subject
				if err := tx.First(&subject, "id = ?", id).Error; err != nil {
					return errors.New("unknown subject")
				}
				subjects = append(subjects, &subject)
			}
			if err := tx.Model(&application).Association("Subjects").Replace(subjects); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(application)
}

type AttachDocumentRequest struct {
	DocumentURL string `json:"document_url" validate:"required,url"`
}

// AttachDocument records the Cloudinary URL of an uploaded
// verification document on the tutor's application.
func AttachDocument(c *fiber.Ctx) error {
	tutorID := middleware.ClaimsUserID(c)

	var req AttachDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var application models.TutorApplication
	if err := database.DB.Where("user_id = ?", tutorID).First(&application).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No application found"})
	}
	if application.Decided() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "A decided application can no longer be edited"})
	}

	application.DocumentURL = &req.DocumentURL
	if err := database.DB.Save(&application).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to attach document"})
	}

	return c.JSON(application)
}
