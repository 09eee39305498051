package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mkamau56/tutorhub/auth"
	"github.com/mkamau56/tutorhub/database"
	"github.com/mkamau56/tutorhub/middleware"
	"github.com/mkamau56/tutorhub/models"
)

type ProfileHandler struct {
	Store *auth.Store
}

func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID := middleware.ClaimsUserID(c)

	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	return c.JSON(user)
}

// UpdateProfile merges the request body into the caller's profile data
// through the session store, so the merge/persist/refetch rules and
// the single notification per outcome all apply.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	var patch models.JSONMap
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	identityID, err := uuid.Parse(middleware.ClaimsUserID(c))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired JWT"})
	}

	// Restore the tracked session first so a valid credential issued
	// before a restart does not read as signed out.
	if cred, err := h.Store.ParseCredential(c.Context(), bearerToken(c)); err == nil {
		h.Store.Resolve(c.Context(), cred)
	}

	if err := h.Store.UpdateProfile(c.Context(), identityID, patch); err != nil {
		switch {
		case errors.Is(err, auth.ErrNoActiveIdentity):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "No active identity"})
		case errors.Is(err, auth.ErrProfileNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		var gwErr *auth.GatewayError
		if errors.As(err, &gwErr) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	st := h.Store.State(identityID)
	return c.JSON(st.Profile)
}
