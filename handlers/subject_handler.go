package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mkamau56/tutorhub/database"
	"github.com/mkamau56/tutorhub/models"
)

type SubjectRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Category string `json:"category"`
}

func CreateSubject(c *fiber.Ctx) error {
	var req SubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	subject := models.Subject{
		Name:     req.Name,
		Category: req.Category,
	}
	if err := database.DB.Create(&subject).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create subject"})
	}

	return c.Status(fiber.StatusCreated).JSON(subject)
}

func ListSubjects(c *fiber.Ctx) error {
	var subjects []models.Subject
	database.DB.Order("name asc").Find(&subjects)
	return c.JSON(subjects)
}

func UpdateSubject(c *fiber.Ctx) error {
	var subject models.Subject
	if err := database.DB.Where("id = ?", c.Params("subjectId")).First(&subject).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Subject not found"})
	}

	var req SubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	subject.Name = req.Name
	subject.Category = req.Category
	database.DB.Save(&subject)

	return c.JSON(subject)
}

func DeleteSubject(c *fiber.Ctx) error {
	result := database.DB.Delete(&models.Subject{}, "id = ?", c.Params("subjectId"))

	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete subject"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Subject not found"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
