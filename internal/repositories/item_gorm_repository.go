package repositories

import (
	"context"
	"errors"
	"fmt"

	"buckeyeborrow/internal/models"
	"buckeyeborrow/pkg/shortcode"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// numberAttempts bounds the retries when a freshly generated short code
// collides with an existing row. 32^5 codes make more than one retry rare.
const numberAttempts = 5

// GORMItemRepository is a GORM implementation of ItemRepository.
type GORMItemRepository struct {
	db *gorm.DB
}

// NewGORMItemRepository creates a new instance of GORMItemRepository.
func NewGORMItemRepository(db *gorm.DB) *GORMItemRepository {
	return &GORMItemRepository{db: db}
}

// Create inserts the item, assigning the id and the unique item number.
func (r *GORMItemRepository) Create(ctx context.Context, item *models.Item) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.Status == "" {
		item.Status = models.ItemStatusAvailable
	}
	for attempt := 0; attempt < numberAttempts; attempt++ {
		item.ItemNumber = shortcode.New(shortcode.Length)
		err := r.db.WithContext(ctx).Create(item).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("failed to create item: %w", err)
		}
	}
	return fmt.Errorf("failed to assign a unique item number after %d attempts", numberAttempts)
}

// GetByID retrieves a single item by its ID.
func (r *GORMItemRepository) GetByID(ctx context.Context, id string) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get item by ID %s: %w", id, err)
	}
	return &item, nil
}

// ListAll returns every item, newest first.
func (r *GORMItemRepository) ListAll(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

// ListByOwner returns one owner's items, newest first.
func (r *GORMItemRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Item, error) {
	var items []models.Item
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list items for owner %s: %w", ownerID, err)
	}
	return items, nil
}

// UpdateStatus flips the two-state availability flag.
func (r *GORMItemRepository) UpdateStatus(ctx context.Context, id, status string) error {
	res := r.db.WithContext(ctx).Model(&models.Item{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update status for item %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePhotoURL records where the listing photo now lives.
func (r *GORMItemRepository) UpdatePhotoURL(ctx context.Context, id, url string) error {
	res := r.db.WithContext(ctx).Model(&models.Item{}).Where("id = ?", id).Update("photo_url", url)
	if res.Error != nil {
		return fmt.Errorf("failed to update photo for item %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an item permanently.
func (r *GORMItemRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Item{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete item %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
