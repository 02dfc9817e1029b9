package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"buckeyeborrow/internal/models"
	"buckeyeborrow/internal/repositories"
	"buckeyeborrow/pkg/rabbitmq"
)

// fallbackDisplayName is shown when a requester's profile row cannot be
// resolved.
const fallbackDisplayName = "OSU Student"

// BorrowService owns the borrow-request workflow. Requests are created
// pending and stay pending; there is no accept or decline transition.
type BorrowService struct {
	borrowRepo repositories.BorrowRequestRepository
	itemRepo   repositories.ItemRepository
	userRepo   repositories.UserRepository
	events     EventPublisher
}

// NewBorrowService creates a new BorrowService.
func NewBorrowService(borrowRepo repositories.BorrowRequestRepository, itemRepo repositories.ItemRepository, userRepo repositories.UserRepository, events EventPublisher) *BorrowService {
	return &BorrowService{borrowRepo: borrowRepo, itemRepo: itemRepo, userRepo: userRepo, events: events}
}

// BorrowRequestInput is the request form. Dates arrive as YYYY-MM-DD.
type BorrowRequestInput struct {
	NeededFrom         string `json:"needed_from"`
	NeededUntil        string `json:"needed_until"`
	Purpose            string `json:"purpose"`
	ContactPhone       string `json:"contact_phone"`
	AgreedToGuidelines bool   `json:"agreed_to_guidelines"`
}

// ValidPhone reports whether s looks like a phone number: at least ten
// digits, an optional leading +, and only digits, spaces, hyphens and
// parentheses otherwise.
func ValidPhone(s string) bool {
	digits := 0
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+':
			if i != 0 {
				return false
			}
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits >= 10
}

// CreateRequest validates the form in a fixed order, first failure wins,
// and persists a pending request. Multiple pending requests against the
// same item may coexist.
func (s *BorrowService) CreateRequest(ctx context.Context, requesterID, itemID string, in BorrowRequestInput) (*models.BorrowRequest, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	in.Purpose = strings.TrimSpace(in.Purpose)
	in.ContactPhone = strings.TrimSpace(in.ContactPhone)

	if in.NeededFrom == "" || in.NeededUntil == "" || in.Purpose == "" || in.ContactPhone == "" {
		return nil, newValidationError("form", "Please fill in all required fields")
	}
	if !in.AgreedToGuidelines {
		return nil, newValidationError("agreed_to_guidelines", "You must agree to the community guidelines")
	}
	if !ValidPhone(in.ContactPhone) {
		return nil, newValidationError("contact_phone", "Please enter a valid phone number")
	}

	from, err := time.Parse("2006-01-02", in.NeededFrom)
	if err != nil {
		return nil, newValidationError("needed_from", "Dates must use the YYYY-MM-DD format")
	}
	until, err := time.Parse("2006-01-02", in.NeededUntil)
	if err != nil {
		return nil, newValidationError("needed_until", "Dates must use the YYYY-MM-DD format")
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if from.Before(today) {
		return nil, newValidationError("needed_from", "Start date cannot be in the past")
	}
	if !until.After(from) {
		return nil, newValidationError("needed_until", "End date must be after the start date")
	}

	req := &models.BorrowRequest{
		ItemID:             item.ID,
		RequesterID:        requesterID,
		NeededFrom:         from,
		NeededUntil:        until,
		Purpose:            in.Purpose,
		ContactPhone:       in.ContactPhone,
		AgreedToGuidelines: true,
		Status:             models.BorrowRequestPending,
	}
	if err := s.borrowRepo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create borrow request: %w", err)
	}

	s.publishCreated(req, item)
	return req, nil
}

// ListForItem returns an item's requests, owner only, each enriched with
// the requester's display name.
func (s *BorrowService) ListForItem(ctx context.Context, userID, itemID string) ([]models.BorrowRequestView, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != userID {
		return nil, ErrForbidden
	}

	reqs, err := s.borrowRepo.ListByItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list borrow requests: %w", err)
	}

	views := make([]models.BorrowRequestView, 0, len(reqs))
	for _, req := range reqs {
		views = append(views, models.BorrowRequestView{
			BorrowRequest: req,
			RequesterName: s.displayName(ctx, req.RequesterID),
		})
	}
	return views, nil
}

// ListOwn returns the user's own requests, newest first.
func (s *BorrowService) ListOwn(ctx context.Context, requesterID string) ([]models.BorrowRequest, error) {
	reqs, err := s.borrowRepo.ListByRequester(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list borrow requests: %w", err)
	}
	return reqs, nil
}

// PendingCounts returns a map of item id to its pending-request count.
// Items without pending requests are reported as zero.
func (s *BorrowService) PendingCounts(ctx context.Context, itemIDs []string) (map[string]int64, error) {
	counts, err := s.borrowRepo.CountPendingByItems(ctx, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending requests: %w", err)
	}
	for _, id := range itemIDs {
		if _, ok := counts[id]; !ok {
			counts[id] = 0
		}
	}
	return counts, nil
}

func (s *BorrowService) displayName(ctx context.Context, userID string) string {
	profile, err := s.userRepo.GetProfile(ctx, userID)
	if err != nil || profile.FullName == "" {
		return fallbackDisplayName
	}
	return profile.FullName
}

func (s *BorrowService) publishCreated(req *models.BorrowRequest, item *models.Item) {
	if s.events == nil {
		return
	}
	payload := map[string]any{
		"request_id":   req.ID,
		"item_id":      item.ID,
		"item_name":    item.ItemName,
		"owner_id":     item.OwnerID,
		"requester_id": req.RequesterID,
		"needed_from":  req.NeededFrom.Format("2006-01-02"),
		"needed_until": req.NeededUntil.Format("2006-01-02"),
	}
	if err := s.events.Publish(rabbitmq.EventBorrowRequested, payload); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", rabbitmq.EventBorrowRequested, err)
	}
}
