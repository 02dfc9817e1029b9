package repositories

import (
	"context"

	"buckeyeborrow/internal/models"
)

// PreferencesRepository defines data access for per-user preference rows.
type PreferencesRepository interface {
	// GetByUser returns ErrNotFound when the user has no row yet; the
	// service layer creates the defaults lazily.
	GetByUser(ctx context.Context, userID string) (*models.UserPreferences, error)
	Create(ctx context.Context, prefs *models.UserPreferences) error
	Update(ctx context.Context, prefs *models.UserPreferences) error
}
