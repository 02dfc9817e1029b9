package handlers

import (
	"log"

	"buckeyeborrow/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProfileHandler handles HTTP requests for profiles and preferences.
type ProfileHandler struct {
	profileService *services.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// RegisterRoutes registers the profile and preference routes.
func (h *ProfileHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/profile", h.HandleGetOwn)
	router.Patch("/profile", h.HandleUpdate)
	router.Post("/profile/photo", h.HandleUploadPhoto)
	router.Get("/profiles/:id", h.HandleGet)

	router.Get("/preferences", h.HandleGetPreferences)
	router.Patch("/preferences", h.HandleUpdatePreferences)
}

// HandleGetOwn returns the caller's profile.
func (h *ProfileHandler) HandleGetOwn(c *fiber.Ctx) error {
	view, err := h.profileService.GetOwnProfile(c.Context(), userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"profile": view})
}

// HandleGet returns another user's profile, honoring their visibility
// preference.
func (h *ProfileHandler) HandleGet(c *fiber.Ctx) error {
	view, err := h.profileService.GetProfile(c.Context(), userID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"profile": view})
}

// HandleUpdate edits the caller's profile.
func (h *ProfileHandler) HandleUpdate(c *fiber.Ctx) error {
	var in services.UpdateProfileInput
	if err := c.BodyParser(&in); err != nil {
		log.Printf("Error parsing profile update body: %v", err)
		return badRequest(c, "Invalid request body")
	}

	profile, err := h.profileService.UpdateProfile(c.Context(), userID(c), in)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Profile updated",
		"profile": profile,
	})
}

// HandleUploadPhoto replaces the caller's profile photo.
func (h *ProfileHandler) HandleUploadPhoto(c *fiber.Ctx) error {
	file, err := c.FormFile("photo")
	if err != nil {
		return badRequest(c, "A photo file is required")
	}

	profile, err := h.profileService.SetPhoto(c.Context(), userID(c), file)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Photo uploaded",
		"profile": profile,
	})
}

// HandleGetPreferences returns the caller's preferences, creating the
// defaults on first read.
func (h *ProfileHandler) HandleGetPreferences(c *fiber.Ctx) error {
	prefs, err := h.profileService.GetPreferences(c.Context(), userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"preferences": prefs})
}

// HandleUpdatePreferences toggles individual preference keys.
func (h *ProfileHandler) HandleUpdatePreferences(c *fiber.Ctx) error {
	var in services.UpdatePreferencesInput
	if err := c.BodyParser(&in); err != nil {
		log.Printf("Error parsing preferences body: %v", err)
		return badRequest(c, "Invalid request body")
	}

	prefs, err := h.profileService.UpdatePreferences(c.Context(), userID(c), in)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":     "Preferences updated",
		"preferences": prefs,
	})
}
