package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"buckeyeborrow/internal/models"
	"buckeyeborrow/internal/repositories"
	"buckeyeborrow/pkg/rabbitmq"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// EventPublisher is the slice of the message-queue client the services
// use. Publish failures are logged and never fail the triggering
// operation.
type EventPublisher interface {
	Publish(eventType string, payload any) error
}

const (
	verificationCodeTTL = 15 * time.Minute
	resetTokenTTL       = time.Hour
	minPasswordLength   = 6
)

// AuthService handles sign-up, email verification, sign-in and password
// reset. Accounts are gated to the university email domain and must
// verify a 6-digit emailed code before they can sign in.
type AuthService struct {
	userRepo    repositories.UserRepository
	codes       repositories.CodeStore
	events      EventPublisher
	jwtSecret   []byte
	tokenDurat  time.Duration
	emailDomain string
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, codes repositories.CodeStore, events EventPublisher, jwtSecret, emailDomain string) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		codes:       codes,
		events:      events,
		jwtSecret:   []byte(jwtSecret),
		tokenDurat:  24 * time.Hour,
		emailDomain: emailDomain,
	}
}

// RegisterInput is the sign-up form.
type RegisterInput struct {
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	DormArea        string `json:"dorm_area"`
}

// Register creates an unverified account and emails a verification code.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if strings.TrimSpace(in.FullName) == "" {
		return nil, newValidationError("full_name", "Full name is required")
	}
	if !strings.HasSuffix(in.Email, "@"+s.emailDomain) {
		return nil, newValidationError("email", fmt.Sprintf("Please use your OSU email address (@%s)", s.emailDomain))
	}
	if in.Password != in.ConfirmPassword {
		return nil, newValidationError("confirm_password", "Passwords do not match")
	}
	if len(in.Password) < minPasswordLength {
		return nil, newValidationError("password", fmt.Sprintf("Password must be at least %d characters long", minPasswordLength))
	}

	if _, err := s.userRepo.GetUserByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailRegistered
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing account: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{Email: in.Email, Password: string(hashed)}
	profile := &models.Profile{FullName: strings.TrimSpace(in.FullName)}
	if dorm := strings.TrimSpace(in.DormArea); dorm != "" {
		profile.DormArea = &dorm
	}
	if err := s.userRepo.CreateUser(ctx, user, profile); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	if err := s.issueVerificationCode(ctx, user.Email); err != nil {
		return nil, err
	}
	return user, nil
}

// ResendVerification regenerates the code for a still-unverified account.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("failed to look up account: %w", err)
	}
	if user.Verified {
		return newValidationError("email", "This account is already verified")
	}
	return s.issueVerificationCode(ctx, email)
}

func (s *AuthService) issueVerificationCode(ctx context.Context, email string) error {
	code, err := sixDigitCode()
	if err != nil {
		return fmt.Errorf("failed to generate verification code: %w", err)
	}
	if err := s.codes.SaveVerificationCode(ctx, email, code, verificationCodeTTL); err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}
	s.publish(rabbitmq.EventVerificationEmail, map[string]string{"email": email, "code": code})
	return nil
}

// Verify checks the emailed code; on a match the account becomes verified
// and a session token is issued. A wrong code creates no session.
func (s *AuthService) Verify(ctx context.Context, email, code string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrInvalidCode
		}
		return "", fmt.Errorf("failed to look up account: %w", err)
	}

	stored, err := s.codes.GetVerificationCode(ctx, email)
	if err != nil || stored != strings.TrimSpace(code) {
		return "", ErrInvalidCode
	}

	if err := s.userRepo.MarkVerified(ctx, user.ID); err != nil {
		return "", fmt.Errorf("failed to mark account verified: %w", err)
	}
	if err := s.codes.DeleteVerificationCode(ctx, email); err != nil {
		log.Printf("Warning: failed to delete consumed verification code for %s: %v", email, err)
	}
	return s.issueToken(user)
}

// Login authenticates a verified account and returns a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		// Do not reveal whether the email exists.
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	if !user.Verified {
		return "", ErrNotVerified
	}
	return s.issueToken(user)
}

// RequestPasswordReset issues a reset token and emails it. Unknown emails
// succeed silently so the endpoint cannot be used to probe for accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to look up account: %w", err)
	}

	token := uuid.New().String()
	if err := s.codes.SaveResetToken(ctx, token, user.ID, resetTokenTTL); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}
	s.publish(rabbitmq.EventPasswordResetEmail, map[string]string{"email": email, "token": token})
	return nil
}

// ResetPassword consumes a reset token and stores the new password.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return newValidationError("password", fmt.Sprintf("Password must be at least %d characters long", minPasswordLength))
	}
	userID, err := s.codes.GetResetToken(ctx, token)
	if err != nil {
		return ErrInvalidResetToken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, string(hashed)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if err := s.codes.DeleteResetToken(ctx, token); err != nil {
		log.Printf("Warning: failed to delete consumed reset token: %v", err)
	}
	return nil
}

// ValidateToken parses and validates a session token, returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(s.tokenDurat).Unix(),
		"iat":     time.Now().Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

func (s *AuthService) publish(eventType string, payload any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(eventType, payload); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", eventType, err)
	}
}

func sixDigitCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
