package repositories

import (
	"context"

	"buckeyeborrow/internal/models"
)

// ItemRepository defines data access for catalog items. Implementations
// assign the unique item number at creation time; callers never supply it.
type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, id string) (*models.Item, error)
	// ListAll returns the full snapshot ordered by creation time descending.
	ListAll(ctx context.Context) ([]models.Item, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Item, error)
	UpdateStatus(ctx context.Context, id, status string) error
	UpdatePhotoURL(ctx context.Context, id, url string) error
	Delete(ctx context.Context, id string) error
}
