package repositories

import (
	"context"
	"fmt"

	"buckeyeborrow/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMBorrowRequestRepository is a GORM implementation of BorrowRequestRepository.
type GORMBorrowRequestRepository struct {
	db *gorm.DB
}

// NewGORMBorrowRequestRepository creates a new instance of GORMBorrowRequestRepository.
func NewGORMBorrowRequestRepository(db *gorm.DB) *GORMBorrowRequestRepository {
	return &GORMBorrowRequestRepository{db: db}
}

// Create inserts a new borrow request. Rows start pending.
func (r *GORMBorrowRequestRepository) Create(ctx context.Context, req *models.BorrowRequest) error {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	if req.Status == "" {
		req.Status = models.BorrowRequestPending
	}
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return fmt.Errorf("failed to create borrow request: %w", err)
	}
	return nil
}

// ListByItem returns every request against one item, newest first.
func (r *GORMBorrowRequestRepository) ListByItem(ctx context.Context, itemID string) ([]models.BorrowRequest, error) {
	var reqs []models.BorrowRequest
	if err := r.db.WithContext(ctx).Where("item_id = ?", itemID).Order("created_at DESC").Find(&reqs).Error; err != nil {
		return nil, fmt.Errorf("failed to list borrow requests for item %s: %w", itemID, err)
	}
	return reqs, nil
}

// ListByRequester returns a requester's own requests, newest first.
func (r *GORMBorrowRequestRepository) ListByRequester(ctx context.Context, requesterID string) ([]models.BorrowRequest, error) {
	var reqs []models.BorrowRequest
	if err := r.db.WithContext(ctx).Where("requester_id = ?", requesterID).Order("created_at DESC").Find(&reqs).Error; err != nil {
		return nil, fmt.Errorf("failed to list borrow requests for requester %s: %w", requesterID, err)
	}
	return reqs, nil
}

// CountPendingByItems groups pending requests by item id.
func (r *GORMBorrowRequestRepository) CountPendingByItems(ctx context.Context, itemIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(itemIDs))
	if len(itemIDs) == 0 {
		return counts, nil
	}
	type row struct {
		ItemID string
		N      int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&models.BorrowRequest{}).
		Select("item_id, COUNT(*) AS n").
		Where("item_id IN ? AND status = ?", itemIDs, models.BorrowRequestPending).
		Group("item_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count pending borrow requests: %w", err)
	}
	for _, rw := range rows {
		counts[rw.ItemID] = rw.N
	}
	return counts, nil
}
