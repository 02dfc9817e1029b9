package models

import "time"

// Community request statuses.
const (
	RequestStatusOpen   = "open"
	RequestStatusClosed = "closed"
)

// CommunityRequest is a public "I need X" post inviting comments and
// offers. RequestNumber is server-generated like an item number.
type CommunityRequest struct {
	ID                string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	RequestNumber     string    `json:"request_number" gorm:"uniqueIndex;type:varchar(8);not null"`
	RequesterID       string    `json:"requester_id" gorm:"index;type:varchar(36);not null"`
	ItemName          string    `json:"item_name" gorm:"type:varchar(200);not null" validate:"required,max=200"`
	NeededByDate      time.Time `json:"needed_by_date" gorm:"not null"`
	Purpose           string    `json:"purpose" gorm:"type:text;not null" validate:"required"`
	AdditionalDetails *string   `json:"additional_details,omitempty" gorm:"type:text"`
	Status            string    `json:"status" gorm:"type:varchar(20);not null;default:'open'"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// CommunityRequestView carries the requester's display name for listings.
type CommunityRequestView struct {
	CommunityRequest
	RequesterName string `json:"requester_name"`
}

// RequestComment is an append-only reply on a community request.
// ListingNumber is a weak reference: a free-text hint that may point at an
// item's number, with no referential-integrity guarantee.
type RequestComment struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	RequestID     string    `json:"request_id" gorm:"index;type:varchar(36);not null"`
	CommenterID   string    `json:"commenter_id" gorm:"type:varchar(36);not null"`
	CommentText   string    `json:"comment_text" gorm:"type:text;not null" validate:"required"`
	ListingNumber *string   `json:"listing_number,omitempty" gorm:"type:varchar(8)"`
	CreatedAt     time.Time `json:"created_at"`
}

// RequestCommentView carries the commenter's display name; this is the
// shape fanned out on the live feed.
type RequestCommentView struct {
	RequestComment
	CommenterName string `json:"commenter_name"`
}
