package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"buckeyeborrow/internal/models"
	"buckeyeborrow/internal/repositories"
	"buckeyeborrow/pkg/shortcode"
)

// CommentPublisher fans a freshly stored comment out to live viewers of
// its request. Publish failures never fail the write.
type CommentPublisher interface {
	PublishComment(ctx context.Context, requestID string, comment models.RequestCommentView) error
}

// CommunityService owns the request board: open "I need X" posts and
// their append-only comment threads.
type CommunityService struct {
	requestRepo repositories.CommunityRequestRepository
	userRepo    repositories.UserRepository
	publisher   CommentPublisher
}

// NewCommunityService creates a new CommunityService.
func NewCommunityService(requestRepo repositories.CommunityRequestRepository, userRepo repositories.UserRepository, publisher CommentPublisher) *CommunityService {
	return &CommunityService{requestRepo: requestRepo, userRepo: userRepo, publisher: publisher}
}

// CreateRequestInput is the request-board post form.
type CreateRequestInput struct {
	ItemName          string  `json:"item_name"`
	NeededByDate      string  `json:"needed_by_date"`
	Purpose           string  `json:"purpose"`
	AdditionalDetails *string `json:"additional_details"`
}

// CreateRequest validates and persists a new open request.
func (s *CommunityService) CreateRequest(ctx context.Context, requesterID string, in CreateRequestInput) (*models.CommunityRequest, error) {
	in.ItemName = strings.TrimSpace(in.ItemName)
	in.Purpose = strings.TrimSpace(in.Purpose)
	if in.ItemName == "" {
		return nil, newValidationError("item_name", "Item name is required")
	}
	if in.Purpose == "" {
		return nil, newValidationError("purpose", "Purpose is required")
	}
	neededBy, err := time.Parse("2006-01-02", in.NeededByDate)
	if err != nil {
		return nil, newValidationError("needed_by_date", "Dates must use the YYYY-MM-DD format")
	}

	req := &models.CommunityRequest{
		RequesterID:       requesterID,
		ItemName:          in.ItemName,
		NeededByDate:      neededBy,
		Purpose:           in.Purpose,
		AdditionalDetails: in.AdditionalDetails,
		Status:            models.RequestStatusOpen,
	}
	if err := s.requestRepo.CreateRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return req, nil
}

// ListOpen returns open requests newest first, enriched with requester
// names. A non-empty query narrows by item name, request number or
// purpose, case-insensitively.
func (s *CommunityService) ListOpen(ctx context.Context, query string) ([]models.CommunityRequestView, error) {
	reqs, err := s.requestRepo.ListOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}

	query = strings.ToLower(strings.TrimSpace(query))
	views := make([]models.CommunityRequestView, 0, len(reqs))
	for _, req := range reqs {
		if query != "" && !requestMatches(req, query) {
			continue
		}
		views = append(views, models.CommunityRequestView{
			CommunityRequest: req,
			RequesterName:    s.displayName(ctx, req.RequesterID),
		})
	}
	return views, nil
}

// CloseRequest marks a request closed. Only its owner may do it.
func (s *CommunityService) CloseRequest(ctx context.Context, userID, requestID string) error {
	req, err := s.requestRepo.GetRequestByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.RequesterID != userID {
		return ErrForbidden
	}
	if err := s.requestRepo.UpdateRequestStatus(ctx, requestID, models.RequestStatusClosed); err != nil {
		return fmt.Errorf("failed to close request: %w", err)
	}
	return nil
}

// CommentInput is the reply form. ListingNumber optionally points a
// requester at an existing listing by its short code; it is stored as
// free text.
type CommentInput struct {
	CommentText   string  `json:"comment_text"`
	ListingNumber *string `json:"listing_number"`
}

// AddComment appends a comment to a request's thread and fans it out to
// live viewers.
func (s *CommunityService) AddComment(ctx context.Context, commenterID, requestID string, in CommentInput) (*models.RequestCommentView, error) {
	if _, err := s.requestRepo.GetRequestByID(ctx, requestID); err != nil {
		return nil, err
	}

	in.CommentText = strings.TrimSpace(in.CommentText)
	if in.CommentText == "" {
		return nil, newValidationError("comment_text", "Comment text is required")
	}
	if in.ListingNumber != nil {
		trimmed := strings.TrimSpace(*in.ListingNumber)
		if len(trimmed) > shortcode.Length {
			return nil, newValidationError("listing_number", fmt.Sprintf("Listing numbers are at most %d characters", shortcode.Length))
		}
		if trimmed == "" {
			in.ListingNumber = nil
		} else {
			in.ListingNumber = &trimmed
		}
	}

	comment := &models.RequestComment{
		RequestID:     requestID,
		CommenterID:   commenterID,
		CommentText:   in.CommentText,
		ListingNumber: in.ListingNumber,
	}
	if err := s.requestRepo.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	view := models.RequestCommentView{
		RequestComment: *comment,
		CommenterName:  s.displayName(ctx, commenterID),
	}
	if s.publisher != nil {
		if err := s.publisher.PublishComment(ctx, requestID, view); err != nil {
			log.Printf("Warning: failed to publish comment %s to live feed: %v", comment.ID, err)
		}
	}
	return &view, nil
}

// ListComments returns a request's thread oldest first, enriched with
// commenter names.
func (s *CommunityService) ListComments(ctx context.Context, requestID string) ([]models.RequestCommentView, error) {
	if _, err := s.requestRepo.GetRequestByID(ctx, requestID); err != nil {
		return nil, err
	}
	comments, err := s.requestRepo.ListComments(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	views := make([]models.RequestCommentView, 0, len(comments))
	for _, comment := range comments {
		views = append(views, models.RequestCommentView{
			RequestComment: comment,
			CommenterName:  s.displayName(ctx, comment.CommenterID),
		})
	}
	return views, nil
}

// GetRequest returns a single request by id.
func (s *CommunityService) GetRequest(ctx context.Context, id string) (*models.CommunityRequest, error) {
	return s.requestRepo.GetRequestByID(ctx, id)
}

func (s *CommunityService) displayName(ctx context.Context, userID string) string {
	profile, err := s.userRepo.GetProfile(ctx, userID)
	if err != nil || profile.FullName == "" {
		return fallbackDisplayName
	}
	return profile.FullName
}

func requestMatches(req models.CommunityRequest, query string) bool {
	return strings.Contains(strings.ToLower(req.ItemName), query) ||
		strings.Contains(strings.ToLower(req.RequestNumber), query) ||
		strings.Contains(strings.ToLower(req.Purpose), query)
}
