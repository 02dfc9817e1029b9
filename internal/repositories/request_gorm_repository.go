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

// GORMCommunityRequestRepository is a GORM implementation of CommunityRequestRepository.
type GORMCommunityRequestRepository struct {
	db *gorm.DB
}

// NewGORMCommunityRequestRepository creates a new instance of GORMCommunityRequestRepository.
func NewGORMCommunityRequestRepository(db *gorm.DB) *GORMCommunityRequestRepository {
	return &GORMCommunityRequestRepository{db: db}
}

// CreateRequest inserts the request, assigning the id and the unique
// request number.
func (r *GORMCommunityRequestRepository) CreateRequest(ctx context.Context, req *models.CommunityRequest) error {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	if req.Status == "" {
		req.Status = models.RequestStatusOpen
	}
	for attempt := 0; attempt < numberAttempts; attempt++ {
		req.RequestNumber = shortcode.New(shortcode.Length)
		err := r.db.WithContext(ctx).Create(req).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("failed to create community request: %w", err)
		}
	}
	return fmt.Errorf("failed to assign a unique request number after %d attempts", numberAttempts)
}

// GetRequestByID retrieves a single community request.
func (r *GORMCommunityRequestRepository) GetRequestByID(ctx context.Context, id string) (*models.CommunityRequest, error) {
	var req models.CommunityRequest
	if err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get community request %s: %w", id, err)
	}
	return &req, nil
}

// ListOpen returns open requests, newest first.
func (r *GORMCommunityRequestRepository) ListOpen(ctx context.Context) ([]models.CommunityRequest, error) {
	var reqs []models.CommunityRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", models.RequestStatusOpen).
		Order("created_at DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list open community requests: %w", err)
	}
	return reqs, nil
}

// UpdateRequestStatus transitions a request, e.g. open to closed.
func (r *GORMCommunityRequestRepository) UpdateRequestStatus(ctx context.Context, id, status string) error {
	res := r.db.WithContext(ctx).Model(&models.CommunityRequest{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update status for community request %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateComment appends a comment. Comments are never edited or deleted.
func (r *GORMCommunityRequestRepository) CreateComment(ctx context.Context, comment *models.RequestComment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// ListComments returns a request's comments oldest first, ties broken by id
// so every reader converges on the same order.
func (r *GORMCommunityRequestRepository) ListComments(ctx context.Context, requestID string) ([]models.RequestComment, error) {
	var comments []models.RequestComment
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments for request %s: %w", requestID, err)
	}
	return comments, nil
}
