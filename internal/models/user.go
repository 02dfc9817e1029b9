package models

import "time"

// User is an account on the platform. Sign-up is gated to the university
// email domain and the account stays unverified until the emailed code is
// confirmed.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password  string    `json:"-" gorm:"type:varchar(255)" validate:"required,min=6"`
	Verified  bool      `json:"verified" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Profile holds the user-editable public fields, one row per account.
// The row is created at sign-up and never hard-deleted.
type Profile struct {
	ID              string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	FullName        string    `json:"full_name" gorm:"type:varchar(255);not null" validate:"required,max=255"`
	Bio             *string   `json:"bio,omitempty" gorm:"type:text"`
	DormArea        *string   `json:"dorm_area,omitempty" gorm:"type:varchar(255)"`
	ProfilePhotoURL *string   `json:"profile_photo_url,omitempty" gorm:"type:varchar(512)"`
	Rating          float64   `json:"rating" gorm:"not null;default:0"`
	TotalRatings    int       `json:"total_ratings" gorm:"not null;default:0"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
