package models

import "time"

// Item statuses. The status column stays free-form in the database so a
// fuller loan lifecycle can land later without a migration.
const (
	ItemStatusAvailable = "available"
	ItemStatusBorrowed  = "borrowed"
)

// Cost types. "token" is reserved and rejected at creation time.
const (
	CostTypeFree  = "free"
	CostTypeFavor = "favor"
	CostTypeToken = "token"
)

// Contact methods. "In-App" is reserved and rejected at creation time.
const (
	ContactEmail = "OSU Email"
	ContactPhone = "Phone"
	ContactInApp = "In-App"
)

// Categories returns the categories an item may be listed under.
func Categories() []string {
	return []string{"Tech", "School Supplies", "Tools / Fix-It", "Event / Tailgate", "Lifestyle"}
}

// BorrowDurations returns the allowed max-borrow-duration values.
func BorrowDurations() []string {
	return []string{"1 day", "3 days", "1 week"}
}

// CampusAreas returns the campus areas an item or profile may reference.
func CampusAreas() []string {
	return []string{"North Campus", "South Campus", "West Campus", "Off-Campus Nearby"}
}

// Item is a physical object a user offers to lend. ItemNumber is a short
// server-generated code meant to be shared out of band; it is immutable
// once assigned.
type Item struct {
	ID                   string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	ItemNumber           string    `json:"item_number" gorm:"uniqueIndex;type:varchar(8);not null"`
	OwnerID              string    `json:"owner_id" gorm:"index;type:varchar(36);not null"`
	ItemName             string    `json:"item_name" gorm:"type:varchar(200);not null" validate:"required,max=200"`
	Category             string    `json:"category" gorm:"type:varchar(50);not null" validate:"required"`
	PhotoURL             *string   `json:"photo_url,omitempty" gorm:"type:varchar(512)"`
	CampusArea           string    `json:"campus_area" gorm:"type:varchar(100);not null" validate:"required"`
	PickupLocation       string    `json:"pickup_location" gorm:"type:varchar(255);not null" validate:"required"`
	PickupTimeWindow     string    `json:"pickup_time_window" gorm:"type:varchar(255);not null" validate:"required"`
	MaxBorrowDuration    string    `json:"max_borrow_duration" gorm:"type:varchar(20);not null" validate:"required"`
	CostType             string    `json:"cost_type" gorm:"type:varchar(20);not null" validate:"required"`
	ConditionNotes       *string   `json:"condition_notes,omitempty" gorm:"type:text"`
	BorrowerExpectations *string   `json:"borrower_expectations,omitempty" gorm:"type:text"`
	ContactMethod        string    `json:"contact_method" gorm:"type:varchar(30);not null" validate:"required"`
	Status               string    `json:"status" gorm:"type:varchar(20);not null;default:'available'"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}
