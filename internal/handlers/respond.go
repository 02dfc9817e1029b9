package handlers

import (
	"errors"
	"log"

	"buckeyeborrow/internal/repositories"
	"buckeyeborrow/internal/services"

	"github.com/gofiber/fiber/v2"
)

// userID returns the authenticated user's id placed in Locals by the JWT
// middleware.
func userID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

// respondError maps a service error onto the HTTP response. Unrecognized
// errors are logged and surface as a generic 500.
func respondError(c *fiber.Ctx, err error) error {
	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": vErr.Message,
			"field":   vErr.Field,
		})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You do not have permission to do that",
		})
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Not found",
		})
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrNotVerified):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": err.Error(),
		})
	case errors.Is(err, services.ErrEmailRegistered):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": err.Error(),
		})
	case errors.Is(err, services.ErrInvalidCode), errors.Is(err, services.ErrInvalidResetToken):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	default:
		log.Printf("Error handling %s %s: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Something went wrong. Please try again.",
		})
	}
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": message,
	})
}
