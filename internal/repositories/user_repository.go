package repositories

import (
	"context"

	"buckeyeborrow/internal/models"
)

// UserRepository defines data access for accounts and their profiles.
type UserRepository interface {
	// CreateUser persists the account and its profile row together.
	CreateUser(ctx context.Context, user *models.User, profile *models.Profile) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	MarkVerified(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, hashedPassword string) error

	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, profile *models.Profile) error
}
