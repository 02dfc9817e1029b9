package repositories

import (
	"context"

	"buckeyeborrow/internal/models"
)

// CommunityRequestRepository defines data access for the community request
// board and its comments. Request numbers are assigned at creation time.
type CommunityRequestRepository interface {
	CreateRequest(ctx context.Context, req *models.CommunityRequest) error
	GetRequestByID(ctx context.Context, id string) (*models.CommunityRequest, error)
	// ListOpen returns open requests ordered by creation time descending.
	ListOpen(ctx context.Context) ([]models.CommunityRequest, error)
	UpdateRequestStatus(ctx context.Context, id, status string) error

	CreateComment(ctx context.Context, comment *models.RequestComment) error
	// ListComments returns comments ordered by creation time ascending.
	ListComments(ctx context.Context, requestID string) ([]models.RequestComment, error)
}
