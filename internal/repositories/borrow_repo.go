package repositories

import (
	"context"

	"buckeyeborrow/internal/models"
)

// BorrowRequestRepository defines data access for borrow requests.
type BorrowRequestRepository interface {
	Create(ctx context.Context, req *models.BorrowRequest) error
	ListByItem(ctx context.Context, itemID string) ([]models.BorrowRequest, error)
	ListByRequester(ctx context.Context, requesterID string) ([]models.BorrowRequest, error)
	// CountPendingByItems groups pending requests by item id. Items with no
	// pending requests are absent from the map.
	CountPendingByItems(ctx context.Context, itemIDs []string) (map[string]int64, error)
}
