package repositories

import (
	"context"
	"sync"
	"time"

	"buckeyeborrow/internal/models"

	"github.com/google/uuid"
)

// MockBorrowRequestRepository is an in-memory implementation of
// BorrowRequestRepository.
type MockBorrowRequestRepository struct {
	requests map[string]models.BorrowRequest
	order    []string
	mu       sync.RWMutex
}

// NewMockBorrowRequestRepository creates a new instance of MockBorrowRequestRepository.
func NewMockBorrowRequestRepository() *MockBorrowRequestRepository {
	return &MockBorrowRequestRepository{requests: make(map[string]models.BorrowRequest)}
}

// Create adds a new borrow request.
func (r *MockBorrowRequestRepository) Create(_ context.Context, req *models.BorrowRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	if req.Status == "" {
		req.Status = models.BorrowRequestPending
	}
	now := time.Now()
	req.CreatedAt, req.UpdatedAt = now, now
	r.requests[req.ID] = *req
	r.order = append(r.order, req.ID)
	return nil
}

// ListByItem returns requests against one item, newest first.
func (r *MockBorrowRequestRepository) ListByItem(_ context.Context, itemID string) ([]models.BorrowRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var reqs []models.BorrowRequest
	for i := len(r.order) - 1; i >= 0; i-- {
		if req, ok := r.requests[r.order[i]]; ok && req.ItemID == itemID {
			reqs = append(reqs, req)
		}
	}
	return reqs, nil
}

// ListByRequester returns one user's requests, newest first.
func (r *MockBorrowRequestRepository) ListByRequester(_ context.Context, requesterID string) ([]models.BorrowRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var reqs []models.BorrowRequest
	for i := len(r.order) - 1; i >= 0; i-- {
		if req, ok := r.requests[r.order[i]]; ok && req.RequesterID == requesterID {
			reqs = append(reqs, req)
		}
	}
	return reqs, nil
}

// CountPendingByItems groups pending requests by item id.
func (r *MockBorrowRequestRepository) CountPendingByItems(_ context.Context, itemIDs []string) (map[string]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[string]bool, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = true
	}
	counts := make(map[string]int64, len(itemIDs))
	for _, req := range r.requests {
		if wanted[req.ItemID] && req.Status == models.BorrowRequestPending {
			counts[req.ItemID]++
		}
	}
	return counts, nil
}
