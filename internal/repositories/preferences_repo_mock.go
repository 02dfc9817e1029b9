package repositories

import (
	"context"
	"sync"
	"time"

	"buckeyeborrow/internal/models"

	"github.com/google/uuid"
)

// MockPreferencesRepository is an in-memory implementation of PreferencesRepository.
type MockPreferencesRepository struct {
	rows map[string]models.UserPreferences // keyed by user id
	mu   sync.RWMutex
}

// NewMockPreferencesRepository creates a new instance of MockPreferencesRepository.
func NewMockPreferencesRepository() *MockPreferencesRepository {
	return &MockPreferencesRepository{rows: make(map[string]models.UserPreferences)}
}

// GetByUser returns the user's row, ErrNotFound when absent.
func (r *MockPreferencesRepository) GetByUser(_ context.Context, userID string) (*models.UserPreferences, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prefs, ok := r.rows[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &prefs, nil
}

// Create inserts the user's row.
func (r *MockPreferencesRepository) Create(_ context.Context, prefs *models.UserPreferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prefs.ID == "" {
		prefs.ID = uuid.New().String()
	}
	now := time.Now()
	prefs.CreatedAt, prefs.UpdatedAt = now, now
	r.rows[prefs.UserID] = *prefs
	return nil
}

// Update replaces the stored row.
func (r *MockPreferencesRepository) Update(_ context.Context, prefs *models.UserPreferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[prefs.UserID]; !ok {
		return ErrNotFound
	}
	prefs.UpdatedAt = time.Now()
	r.rows[prefs.UserID] = *prefs
	return nil
}

// RowCount reports how many preference rows exist, for tests asserting the
// upsert never duplicates a user's row.
func (r *MockPreferencesRepository) RowCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows)
}
