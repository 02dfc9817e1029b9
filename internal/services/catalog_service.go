package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"buckeyeborrow/internal/models"
	"buckeyeborrow/internal/repositories"
	"buckeyeborrow/pkg/storage"

	"github.com/google/uuid"
)

// Filter sentinels. The browse UI sends these to mean "no filter".
const (
	FilterAll           = "all"
	FilterAllCategories = "All Items"
)

const maxPhotoSize = 5 << 20 // 5 MiB

// ItemFilter narrows a catalog listing. Zero values and the sentinels
// above leave the corresponding dimension unfiltered.
type ItemFilter struct {
	Category    string
	CostType    string
	CampusArea  string
	Status      string
	MaxDuration string
	Search      string
}

// CatalogService owns item listings: creation, browsing, status flips
// and removal. All mutations are restricted to the item's owner.
type CatalogService struct {
	itemRepo repositories.ItemRepository
	store    storage.Storage
	bucket   string
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(itemRepo repositories.ItemRepository, store storage.Storage, bucket string) *CatalogService {
	return &CatalogService{itemRepo: itemRepo, store: store, bucket: bucket}
}

// CreateItemInput is the listing form.
type CreateItemInput struct {
	ItemName             string  `json:"item_name"`
	Category             string  `json:"category"`
	CampusArea           string  `json:"campus_area"`
	PickupLocation       string  `json:"pickup_location"`
	PickupTimeWindow     string  `json:"pickup_time_window"`
	MaxBorrowDuration    string  `json:"max_borrow_duration"`
	CostType             string  `json:"cost_type"`
	ConditionNotes       *string `json:"condition_notes"`
	BorrowerExpectations *string `json:"borrower_expectations"`
	ContactMethod        string  `json:"contact_method"`
	PhotoURL             *string `json:"photo_url"`
}

// CreateItem validates the form and persists a new available listing
// owned by ownerID. The item number is assigned by the repository.
func (s *CatalogService) CreateItem(ctx context.Context, ownerID string, in CreateItemInput) (*models.Item, error) {
	in.ItemName = strings.TrimSpace(in.ItemName)
	if in.ItemName == "" {
		return nil, newValidationError("item_name", "Item name is required")
	}
	if !contains(models.Categories(), in.Category) {
		return nil, newValidationError("category", "Please choose a valid category")
	}
	// Campus area stays free text; the well-known areas are only the
	// suggested values.
	in.CampusArea = strings.TrimSpace(in.CampusArea)
	if in.CampusArea == "" {
		return nil, newValidationError("campus_area", "Campus area is required")
	}
	if strings.TrimSpace(in.PickupLocation) == "" {
		return nil, newValidationError("pickup_location", "Pickup location is required")
	}
	if strings.TrimSpace(in.PickupTimeWindow) == "" {
		return nil, newValidationError("pickup_time_window", "Pickup time window is required")
	}
	if !contains(models.BorrowDurations(), in.MaxBorrowDuration) {
		return nil, newValidationError("max_borrow_duration", "Please choose a valid borrow duration")
	}
	switch in.CostType {
	case models.CostTypeFree, models.CostTypeFavor:
	case models.CostTypeToken:
		return nil, newValidationError("cost_type", "Token payments are not available yet")
	default:
		return nil, newValidationError("cost_type", "Please choose a valid cost type")
	}
	switch in.ContactMethod {
	case models.ContactEmail, models.ContactPhone:
	case models.ContactInApp:
		return nil, newValidationError("contact_method", "In-app messaging is not available yet")
	default:
		return nil, newValidationError("contact_method", "Please choose a valid contact method")
	}

	if in.PhotoURL != nil && strings.TrimSpace(*in.PhotoURL) == "" {
		in.PhotoURL = nil
	}

	item := &models.Item{
		OwnerID:              ownerID,
		ItemName:             in.ItemName,
		PhotoURL:             in.PhotoURL,
		Category:             in.Category,
		CampusArea:           in.CampusArea,
		PickupLocation:       strings.TrimSpace(in.PickupLocation),
		PickupTimeWindow:     strings.TrimSpace(in.PickupTimeWindow),
		MaxBorrowDuration:    in.MaxBorrowDuration,
		CostType:             in.CostType,
		ConditionNotes:       in.ConditionNotes,
		BorrowerExpectations: in.BorrowerExpectations,
		ContactMethod:        in.ContactMethod,
		Status:               models.ItemStatusAvailable,
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	return item, nil
}

// ListItems returns the catalog narrowed by the filter, newest first.
// Filtering happens after the fetch so every dimension composes the
// same way regardless of backing store.
func (s *CatalogService) ListItems(ctx context.Context, filter ItemFilter) ([]models.Item, error) {
	items, err := s.itemRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return filterItems(items, filter), nil
}

// ListOwnItems returns every item the user has listed, newest first.
func (s *CatalogService) ListOwnItems(ctx context.Context, ownerID string) ([]models.Item, error) {
	items, err := s.itemRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

// GetItem returns a single listing by id.
func (s *CatalogService) GetItem(ctx context.Context, id string) (*models.Item, error) {
	return s.itemRepo.GetByID(ctx, id)
}

// SetItemStatus flips a listing between available and borrowed. Only the
// owner may do it.
func (s *CatalogService) SetItemStatus(ctx context.Context, userID, itemID, status string) (*models.Item, error) {
	if status != models.ItemStatusAvailable && status != models.ItemStatusBorrowed {
		return nil, newValidationError("status", "Status must be available or borrowed")
	}
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != userID {
		return nil, ErrForbidden
	}
	if err := s.itemRepo.UpdateStatus(ctx, itemID, status); err != nil {
		return nil, fmt.Errorf("failed to update item status: %w", err)
	}
	item.Status = status
	return item, nil
}

// DeleteItem removes a listing and, best effort, its stored photo.
func (s *CatalogService) DeleteItem(ctx context.Context, userID, itemID string) error {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item.OwnerID != userID {
		return ErrForbidden
	}
	if err := s.itemRepo.Delete(ctx, itemID); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if item.PhotoURL != nil && s.store != nil {
		if key, ok := storage.KeyFromURL(s.bucket, *item.PhotoURL); ok {
			if err := s.store.Delete(ctx, s.bucket, key); err != nil {
				log.Printf("Warning: failed to delete photo for item %s: %v", itemID, err)
			}
		}
	}
	return nil
}

// UploadPhoto stores a photo ahead of listing creation and returns its
// public URL, which the create form then carries as photo_url.
func (s *CatalogService) UploadPhoto(ctx context.Context, ownerID string, file *multipart.FileHeader) (string, error) {
	return s.savePhoto(ctx, ownerID, file)
}

// AttachPhoto stores an uploaded photo and records its URL on the item.
// A previous photo, if any, is removed best effort.
func (s *CatalogService) AttachPhoto(ctx context.Context, userID, itemID string, file *multipart.FileHeader) (*models.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != userID {
		return nil, ErrForbidden
	}

	url, err := s.savePhoto(ctx, userID, file)
	if err != nil {
		return nil, err
	}

	old := item.PhotoURL
	if err := s.itemRepo.UpdatePhotoURL(ctx, itemID, url); err != nil {
		return nil, fmt.Errorf("failed to record photo: %w", err)
	}
	item.PhotoURL = &url
	if old != nil && s.store != nil {
		if key, ok := storage.KeyFromURL(s.bucket, *old); ok {
			if err := s.store.Delete(ctx, s.bucket, key); err != nil {
				log.Printf("Warning: failed to delete replaced photo for item %s: %v", itemID, err)
			}
		}
	}
	return item, nil
}

func (s *CatalogService) savePhoto(ctx context.Context, ownerID string, file *multipart.FileHeader) (string, error) {
	if s.store == nil {
		return "", errors.New("photo storage is not configured")
	}
	if file.Size > maxPhotoSize {
		return "", newValidationError("photo", "Photo must be 5MB or smaller")
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return "", newValidationError("photo", "Photo must be a JPEG, PNG or WebP image")
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	key := fmt.Sprintf("%s/%s%s", ownerID, uuid.New().String(), ext)
	contentType := file.Header.Get("Content-Type")
	url, err := s.store.Save(ctx, s.bucket, key, io.LimitReader(src, maxPhotoSize), contentType)
	if err != nil {
		return "", fmt.Errorf("failed to store photo: %w", err)
	}
	return url, nil
}

func filterItems(items []models.Item, f ItemFilter) []models.Item {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]models.Item, 0, len(items))
	for _, item := range items {
		if !matchesDimension(f.Category, item.Category) {
			continue
		}
		if !matchesDimension(f.CostType, item.CostType) {
			continue
		}
		if !matchesDimension(f.CampusArea, item.CampusArea) {
			continue
		}
		if !matchesDimension(f.Status, item.Status) {
			continue
		}
		if !matchesDimension(f.MaxDuration, item.MaxBorrowDuration) {
			continue
		}
		if search != "" && !itemSearchMatch(item, search) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func itemSearchMatch(item models.Item, search string) bool {
	for _, field := range []string{item.ItemName, item.ItemNumber, item.Category, item.CampusArea} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

func matchesDimension(want, have string) bool {
	if want == "" || want == FilterAll || want == FilterAllCategories {
		return true
	}
	return want == have
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
