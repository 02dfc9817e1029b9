package models

import "time"

// BorrowRequestPending is the only status this service ever writes. The
// owner-side accept/decline transition is not implemented; the column is
// free-form so those states can be added without a migration.
const BorrowRequestPending = "pending"

// BorrowRequest is a requester's ask to borrow a specific item for a date
// range. Rows are immutable after creation except for status.
type BorrowRequest struct {
	ID                 string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	ItemID             string    `json:"item_id" gorm:"index;type:varchar(36);not null"`
	RequesterID        string    `json:"requester_id" gorm:"index;type:varchar(36);not null"`
	NeededFrom         time.Time `json:"needed_from" gorm:"not null"`
	NeededUntil        time.Time `json:"needed_until" gorm:"not null"`
	Purpose            string    `json:"purpose" gorm:"type:text;not null"`
	ContactPhone       string    `json:"contact_phone" gorm:"type:varchar(30);not null"`
	AgreedToGuidelines bool      `json:"agreed_to_guidelines" gorm:"not null;default:false"`
	Status             string    `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// BorrowRequestView is a BorrowRequest enriched with the requester's
// display name, resolved via a secondary profile lookup for the item owner.
type BorrowRequestView struct {
	BorrowRequest
	RequesterName string `json:"requester_name"`
}
