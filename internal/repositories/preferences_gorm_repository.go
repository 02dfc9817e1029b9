package repositories

import (
	"context"
	"errors"
	"fmt"

	"buckeyeborrow/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMPreferencesRepository is a GORM implementation of PreferencesRepository.
type GORMPreferencesRepository struct {
	db *gorm.DB
}

// NewGORMPreferencesRepository creates a new instance of GORMPreferencesRepository.
func NewGORMPreferencesRepository(db *gorm.DB) *GORMPreferencesRepository {
	return &GORMPreferencesRepository{db: db}
}

// GetByUser retrieves the user's preferences row, ErrNotFound when absent.
func (r *GORMPreferencesRepository) GetByUser(ctx context.Context, userID string) (*models.UserPreferences, error) {
	var prefs models.UserPreferences
	if err := r.db.WithContext(ctx).First(&prefs, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get preferences for user %s: %w", userID, err)
	}
	return &prefs, nil
}

// Create inserts the user's single preferences row.
func (r *GORMPreferencesRepository) Create(ctx context.Context, prefs *models.UserPreferences) error {
	if prefs.ID == "" {
		prefs.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(prefs).Error; err != nil {
		return fmt.Errorf("failed to create preferences for user %s: %w", prefs.UserID, err)
	}
	return nil
}

// Update saves the preferences row in place.
func (r *GORMPreferencesRepository) Update(ctx context.Context, prefs *models.UserPreferences) error {
	res := r.db.WithContext(ctx).Save(prefs)
	if res.Error != nil {
		return fmt.Errorf("failed to update preferences for user %s: %w", prefs.UserID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
