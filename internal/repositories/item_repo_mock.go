package repositories

import (
	"context"
	"sync"
	"time"

	"buckeyeborrow/internal/models"
	"buckeyeborrow/pkg/shortcode"

	"github.com/google/uuid"
)

// MockItemRepository is an in-memory implementation of ItemRepository.
// Insertion order stands in for creation time so listings stay
// deterministic in tests even when timestamps collide.
type MockItemRepository struct {
	items map[string]models.Item
	order []string // ids, oldest first
	mu    sync.RWMutex
}

// NewMockItemRepository creates a new instance of MockItemRepository.
func NewMockItemRepository() *MockItemRepository {
	return &MockItemRepository{items: make(map[string]models.Item)}
}

// Create adds a new item, assigning id, number and timestamps.
func (r *MockItemRepository) Create(_ context.Context, item *models.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.Status == "" {
		item.Status = models.ItemStatusAvailable
	}
	for {
		item.ItemNumber = shortcode.New(shortcode.Length)
		if !r.numberTaken(item.ItemNumber) {
			break
		}
	}
	now := time.Now()
	item.CreatedAt, item.UpdatedAt = now, now
	r.items[item.ID] = *item
	r.order = append(r.order, item.ID)
	return nil
}

func (r *MockItemRepository) numberTaken(number string) bool {
	for _, it := range r.items {
		if it.ItemNumber == number {
			return true
		}
	}
	return false
}

// GetByID returns an item by its id.
func (r *MockItemRepository) GetByID(_ context.Context, id string) (*models.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &item, nil
}

// ListAll returns every item, newest first.
func (r *MockItemRepository) ListAll(_ context.Context) ([]models.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]models.Item, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		if item, ok := r.items[r.order[i]]; ok {
			items = append(items, item)
		}
	}
	return items, nil
}

// ListByOwner returns one owner's items, newest first.
func (r *MockItemRepository) ListByOwner(_ context.Context, ownerID string) ([]models.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []models.Item
	for i := len(r.order) - 1; i >= 0; i-- {
		if item, ok := r.items[r.order[i]]; ok && item.OwnerID == ownerID {
			items = append(items, item)
		}
	}
	return items, nil
}

// UpdateStatus flips the availability flag.
func (r *MockItemRepository) UpdateStatus(_ context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return ErrNotFound
	}
	item.Status = status
	item.UpdatedAt = time.Now()
	r.items[id] = item
	return nil
}

// UpdatePhotoURL records the photo location.
func (r *MockItemRepository) UpdatePhotoURL(_ context.Context, id, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return ErrNotFound
	}
	item.PhotoURL = &url
	item.UpdatedAt = time.Now()
	r.items[id] = item
	return nil
}

// Delete removes an item.
func (r *MockItemRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}
