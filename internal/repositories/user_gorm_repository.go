package repositories

import (
	"context"
	"errors"
	"fmt"

	"buckeyeborrow/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{db: db}
}

// CreateUser persists the account and its profile row in one transaction so
// a half-created account can never exist.
func (r *GORMUserRepository) CreateUser(ctx context.Context, user *models.User, profile *models.Profile) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	profile.ID = user.ID
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		if err := tx.Create(profile).Error; err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		return nil
	})
}

// GetUserByEmail retrieves a user by their email address.
func (r *GORMUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by their ID.
func (r *GORMUserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// MarkVerified flips the account to verified after the emailed code checks out.
func (r *GORMUserRepository) MarkVerified(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("verified", true)
	if res.Error != nil {
		return fmt.Errorf("failed to mark user %s verified: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePassword stores a new password hash.
func (r *GORMUserRepository) UpdatePassword(ctx context.Context, id, hashedPassword string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password", hashedPassword)
	if res.Error != nil {
		return fmt.Errorf("failed to update password for user %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetProfile retrieves a profile by the owning user's ID.
func (r *GORMUserRepository) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile %s: %w", id, err)
	}
	return &profile, nil
}

// UpdateProfile saves the profile row in place.
func (r *GORMUserRepository) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	res := r.db.WithContext(ctx).Save(profile)
	if res.Error != nil {
		return fmt.Errorf("failed to update profile %s: %w", profile.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
