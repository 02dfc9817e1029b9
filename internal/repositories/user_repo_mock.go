package repositories

import (
	"context"
	"sync"
	"time"

	"buckeyeborrow/internal/models"

	"github.com/google/uuid"
)

// MockUserRepository is an in-memory implementation of UserRepository.
type MockUserRepository struct {
	users    map[string]models.User    // keyed by id
	profiles map[string]models.Profile // keyed by id
	mu       sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:    make(map[string]models.User),
		profiles: make(map[string]models.Profile),
	}
}

// CreateUser adds the account and profile together.
func (r *MockUserRepository) CreateUser(_ context.Context, user *models.User, profile *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	profile.ID = user.ID
	profile.CreatedAt, profile.UpdatedAt = now, now
	r.users[user.ID] = *user
	r.profiles[profile.ID] = *profile
	return nil
}

// GetUserByEmail returns the user with the given email.
func (r *MockUserRepository) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

// GetUserByID returns the user with the given id.
func (r *MockUserRepository) GetUserByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

// MarkVerified flips the verified flag.
func (r *MockUserRepository) MarkVerified(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Verified = true
	u.UpdatedAt = time.Now()
	r.users[id] = u
	return nil
}

// UpdatePassword stores a new hash.
func (r *MockUserRepository) UpdatePassword(_ context.Context, id, hashedPassword string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Password = hashedPassword
	u.UpdatedAt = time.Now()
	r.users[id] = u
	return nil
}

// GetProfile returns the profile with the given id.
func (r *MockUserRepository) GetProfile(_ context.Context, id string) (*models.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

// UpdateProfile replaces the stored profile.
func (r *MockUserRepository) UpdateProfile(_ context.Context, profile *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[profile.ID]; !ok {
		return ErrNotFound
	}
	profile.UpdatedAt = time.Now()
	r.profiles[profile.ID] = *profile
	return nil
}
