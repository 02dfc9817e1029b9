package handlers

import (
	"log"

	"buckeyeborrow/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/verify", h.HandleVerify)
	authRoutes.Post("/resend", h.HandleResendVerification)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/reset-request", h.HandleRequestPasswordReset)
	authRoutes.Post("/reset", h.HandleResetPassword)
}

// HandleRegister handles new account sign-up.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var in services.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return badRequest(c, "Invalid request body")
	}

	user, err := h.authService.Register(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Account created. Check your email for a verification code.",
		"user":    user,
	})
}

// VerifyRequest represents the request body for email verification.
type VerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}

// HandleVerify confirms the emailed verification code and starts a session.
func (h *AuthHandler) HandleVerify(c *fiber.Ctx) error {
	var req VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing verify request body: %v", err)
		return badRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, "Email and code are required")
	}

	token, err := h.authService.Verify(c.Context(), req.Email, req.Code)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Email verified successfully",
		"token":   token,
	})
}

// EmailRequest represents a request body carrying only an email address.
type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// HandleResendVerification re-sends the verification code.
func (h *AuthHandler) HandleResendVerification(c *fiber.Ctx) error {
	var req EmailRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing resend request body: %v", err)
		return badRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, "Email is required")
	}

	if err := h.authService.ResendVerification(c.Context(), req.Email); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Verification code sent",
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return badRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondError(c, services.ErrInvalidCredentials)
	}

	token, err := h.authService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
	})
}

// HandleRequestPasswordReset emails a reset link. It always reports
// success so it cannot be used to probe for registered addresses.
func (h *AuthHandler) HandleRequestPasswordReset(c *fiber.Ctx) error {
	var req EmailRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing reset request body: %v", err)
		return badRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, "Email is required")
	}

	if err := h.authService.RequestPasswordReset(c.Context(), req.Email); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "If that email is registered, a reset link is on its way",
	})
}

// ResetPasswordRequest represents the request body for completing a
// password reset.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// HandleResetPassword consumes a reset token and sets the new password.
func (h *AuthHandler) HandleResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing reset request body: %v", err)
		return badRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, "Token and new password are required")
	}

	if err := h.authService.ResetPassword(c.Context(), req.Token, req.NewPassword); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Password updated successfully",
	})
}
