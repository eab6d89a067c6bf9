package models

import "time"

// User is the local projection of an externally authenticated account.
// Only the id is required by the quiz flows; the rest is kept for display.
type User struct {
	ID       string `json:"id" gorm:"primaryKey;size:255"`
	FullName string `json:"full_name" gorm:"size:100"`
	Email    string `json:"email" gorm:"size:255;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
