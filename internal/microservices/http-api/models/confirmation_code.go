package models

import (
	"time"
)

// ConfirmationCode holds the bcrypt hash of the last code issued to a user.
// One row per user; issuing a new code replaces the previous one.
type ConfirmationCode struct {
	UserID    string    `gorm:"primaryKey;type:uuid" json:"user_id"`
	CodeHash  string    `gorm:"not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
}

func (ConfirmationCode) TableName() string {
	return "confirmation_codes"
}
