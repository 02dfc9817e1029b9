package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"buckeyeborrow/internal/models"
	"buckeyeborrow/pkg/shortcode"

	"github.com/google/uuid"
)

// MockCommunityRequestRepository is an in-memory implementation of
// CommunityRequestRepository.
type MockCommunityRequestRepository struct {
	requests map[string]models.CommunityRequest
	order    []string
	comments map[string][]models.RequestComment // keyed by request id
	mu       sync.RWMutex
}

// NewMockCommunityRequestRepository creates a new instance of MockCommunityRequestRepository.
func NewMockCommunityRequestRepository() *MockCommunityRequestRepository {
	return &MockCommunityRequestRepository{
		requests: make(map[string]models.CommunityRequest),
		comments: make(map[string][]models.RequestComment),
	}
}

// CreateRequest adds a new request, assigning id and number.
func (r *MockCommunityRequestRepository) CreateRequest(_ context.Context, req *models.CommunityRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	if req.Status == "" {
		req.Status = models.RequestStatusOpen
	}
	for {
		req.RequestNumber = shortcode.New(shortcode.Length)
		if !r.numberTaken(req.RequestNumber) {
			break
		}
	}
	now := time.Now()
	req.CreatedAt, req.UpdatedAt = now, now
	r.requests[req.ID] = *req
	r.order = append(r.order, req.ID)
	return nil
}

func (r *MockCommunityRequestRepository) numberTaken(number string) bool {
	for _, req := range r.requests {
		if req.RequestNumber == number {
			return true
		}
	}
	return false
}

// GetRequestByID returns a request by id.
func (r *MockCommunityRequestRepository) GetRequestByID(_ context.Context, id string) (*models.CommunityRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &req, nil
}

// ListOpen returns open requests, newest first.
func (r *MockCommunityRequestRepository) ListOpen(_ context.Context) ([]models.CommunityRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var reqs []models.CommunityRequest
	for i := len(r.order) - 1; i >= 0; i-- {
		if req, ok := r.requests[r.order[i]]; ok && req.Status == models.RequestStatusOpen {
			reqs = append(reqs, req)
		}
	}
	return reqs, nil
}

// UpdateRequestStatus transitions a request.
func (r *MockCommunityRequestRepository) UpdateRequestStatus(_ context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.requests[id]
	if !ok {
		return ErrNotFound
	}
	req.Status = status
	req.UpdatedAt = time.Now()
	r.requests[id] = req
	return nil
}

// CreateComment appends a comment to its request.
func (r *MockCommunityRequestRepository) CreateComment(_ context.Context, comment *models.RequestComment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	r.comments[comment.RequestID] = append(r.comments[comment.RequestID], *comment)
	return nil
}

// ListComments returns a request's comments oldest first, ties broken by id.
func (r *MockCommunityRequestRepository) ListComments(_ context.Context, requestID string) ([]models.RequestComment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	comments := make([]models.RequestComment, len(r.comments[requestID]))
	copy(comments, r.comments[requestID])
	sort.SliceStable(comments, func(i, j int) bool {
		if comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].ID < comments[j].ID
		}
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}
