package models

import "time"

// UserPreferences is one row per user, created lazily on first read.
type UserPreferences struct {
	ID                         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID                     string    `json:"user_id" gorm:"uniqueIndex;type:varchar(36);not null"`
	EmailNotifications         bool      `json:"email_notifications" gorm:"not null;default:true"`
	BorrowRequestNotifications bool      `json:"borrow_request_notifications" gorm:"not null;default:true"`
	ReturnReminders            bool      `json:"return_reminders" gorm:"not null;default:true"`
	ProfileVisibility          bool      `json:"profile_visibility" gorm:"not null;default:true"`
	ShowEmail                  bool      `json:"show_email" gorm:"not null;default:false"`
	CreatedAt                  time.Time `json:"created_at"`
	UpdatedAt                  time.Time `json:"updated_at"`
}

// DefaultPreferences returns the defaults applied when no row exists yet.
func DefaultPreferences(userID string) UserPreferences {
	return UserPreferences{
		UserID:                     userID,
		EmailNotifications:         true,
		BorrowRequestNotifications: true,
		ReturnReminders:            true,
		ProfileVisibility:          true,
		ShowEmail:                  false,
	}
}
