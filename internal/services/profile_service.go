package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"strings"

	"buckeyeborrow/internal/models"
	"buckeyeborrow/internal/repositories"
	"buckeyeborrow/pkg/storage"

	"github.com/google/uuid"
)

// ProfileService owns profiles, profile photos and the per-user
// preference row.
type ProfileService struct {
	userRepo  repositories.UserRepository
	prefsRepo repositories.PreferencesRepository
	store     storage.Storage
	bucket    string
}

// NewProfileService creates a new ProfileService.
func NewProfileService(userRepo repositories.UserRepository, prefsRepo repositories.PreferencesRepository, store storage.Storage, bucket string) *ProfileService {
	return &ProfileService{userRepo: userRepo, prefsRepo: prefsRepo, store: store, bucket: bucket}
}

// ProfileView is a profile as served to clients. Email is present only
// when the subject allows it, or when the viewer is the subject.
type ProfileView struct {
	models.Profile
	Email *string `json:"email,omitempty"`
}

// GetOwnProfile returns the caller's profile, email included.
func (s *ProfileService) GetOwnProfile(ctx context.Context, userID string) (*ProfileView, error) {
	profile, err := s.userRepo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ProfileView{Profile: *profile, Email: &user.Email}, nil
}

// GetProfile returns someone else's profile. A subject whose
// profile_visibility preference is off reads as not found; their email is
// included only when show_email is on.
func (s *ProfileService) GetProfile(ctx context.Context, viewerID, subjectID string) (*ProfileView, error) {
	if viewerID == subjectID {
		return s.GetOwnProfile(ctx, subjectID)
	}
	profile, err := s.userRepo.GetProfile(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	prefs, err := s.preferences(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if !prefs.ProfileVisibility {
		return nil, repositories.ErrNotFound
	}

	view := &ProfileView{Profile: *profile}
	if prefs.ShowEmail {
		if user, err := s.userRepo.GetUserByID(ctx, subjectID); err == nil {
			view.Email = &user.Email
		}
	}
	return view, nil
}

// UpdateProfileInput is the profile edit form. Nil fields are left as-is.
type UpdateProfileInput struct {
	FullName *string `json:"full_name"`
	Bio      *string `json:"bio"`
	DormArea *string `json:"dorm_area"`
}

// UpdateProfile applies the non-nil fields to the caller's profile.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*models.Profile, error) {
	profile, err := s.userRepo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.FullName != nil {
		name := strings.TrimSpace(*in.FullName)
		if name == "" {
			return nil, newValidationError("full_name", "Full name cannot be empty")
		}
		profile.FullName = name
	}
	if in.Bio != nil {
		profile.Bio = in.Bio
	}
	if in.DormArea != nil {
		// Dorm area is free text like an item's campus area.
		if area := strings.TrimSpace(*in.DormArea); area == "" {
			profile.DormArea = nil
		} else {
			profile.DormArea = &area
		}
	}

	if err := s.userRepo.UpdateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}

// SetPhoto stores a new profile photo and removes the previous one best
// effort.
func (s *ProfileService) SetPhoto(ctx context.Context, userID string, file *multipart.FileHeader) (*models.Profile, error) {
	if s.store == nil {
		return nil, errors.New("photo storage is not configured")
	}
	profile, err := s.userRepo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if file.Size > maxPhotoSize {
		return nil, newValidationError("photo", "Photo must be 5MB or smaller")
	}
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	key := fmt.Sprintf("%s/%s", userID, uuid.New().String())
	url, err := s.store.Save(ctx, s.bucket, key, src, file.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("failed to store photo: %w", err)
	}

	old := profile.ProfilePhotoURL
	profile.ProfilePhotoURL = &url
	if err := s.userRepo.UpdateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if old != nil {
		if oldKey, ok := storage.KeyFromURL(s.bucket, *old); ok {
			if err := s.store.Delete(ctx, s.bucket, oldKey); err != nil {
				log.Printf("Warning: failed to delete replaced profile photo for %s: %v", userID, err)
			}
		}
	}
	return profile, nil
}

// GetPreferences returns the caller's preference row, creating the
// defaults on first read.
func (s *ProfileService) GetPreferences(ctx context.Context, userID string) (*models.UserPreferences, error) {
	return s.preferences(ctx, userID)
}

// UpdatePreferencesInput toggles individual preferences. Nil fields are
// left as-is.
type UpdatePreferencesInput struct {
	EmailNotifications         *bool `json:"email_notifications"`
	BorrowRequestNotifications *bool `json:"borrow_request_notifications"`
	ReturnReminders            *bool `json:"return_reminders"`
	ProfileVisibility          *bool `json:"profile_visibility"`
	ShowEmail                  *bool `json:"show_email"`
}

// UpdatePreferences upserts the caller's preference row: an existing row
// is updated in place, otherwise defaults merged with the changed keys
// are inserted. The user never ends up with more than one row.
func (s *ProfileService) UpdatePreferences(ctx context.Context, userID string, in UpdatePreferencesInput) (*models.UserPreferences, error) {
	prefs, err := s.prefsRepo.GetByUser(ctx, userID)
	create := false
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("failed to load preferences: %w", err)
		}
		defaults := models.DefaultPreferences(userID)
		prefs = &defaults
		create = true
	}

	if in.EmailNotifications != nil {
		prefs.EmailNotifications = *in.EmailNotifications
	}
	if in.BorrowRequestNotifications != nil {
		prefs.BorrowRequestNotifications = *in.BorrowRequestNotifications
	}
	if in.ReturnReminders != nil {
		prefs.ReturnReminders = *in.ReturnReminders
	}
	if in.ProfileVisibility != nil {
		prefs.ProfileVisibility = *in.ProfileVisibility
	}
	if in.ShowEmail != nil {
		prefs.ShowEmail = *in.ShowEmail
	}

	if create {
		if err := s.prefsRepo.Create(ctx, prefs); err != nil {
			return nil, fmt.Errorf("failed to create preferences: %w", err)
		}
	} else if err := s.prefsRepo.Update(ctx, prefs); err != nil {
		return nil, fmt.Errorf("failed to update preferences: %w", err)
	}
	return prefs, nil
}

func (s *ProfileService) preferences(ctx context.Context, userID string) (*models.UserPreferences, error) {
	prefs, err := s.prefsRepo.GetByUser(ctx, userID)
	if err == nil {
		return prefs, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}
	defaults := models.DefaultPreferences(userID)
	if err := s.prefsRepo.Create(ctx, &defaults); err != nil {
		return nil, fmt.Errorf("failed to create preferences: %w", err)
	}
	return &defaults, nil
}
