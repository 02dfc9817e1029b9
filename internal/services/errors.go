package services

import (
	"errors"
	"fmt"
)

// ErrForbidden is returned when the caller is not the owner of the row
// they are trying to read or mutate. Ownership is always checked here, in
// the service layer, against the authenticated identity; any check a
// client performs is a UX convenience, not the boundary.
var ErrForbidden = errors.New("you do not have access to this resource")

// Auth errors carry the copy shown to users directly.
var (
	ErrInvalidCredentials = errors.New("Invalid email or password. Please try again.")
	ErrEmailRegistered    = errors.New("This email is already registered. Please sign in instead.")
	ErrNotVerified        = errors.New("Please verify your email before signing in.")
	ErrInvalidCode        = errors.New("Invalid verification code. Please try again.")
	ErrInvalidResetToken  = errors.New("This password reset link is invalid or has expired.")
)

// ValidationError reports the first failing rule for a submission. The
// operation is never attempted against the database once one is raised.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
