package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role values stored in users.role
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// Roles lists every accepted role value in ascending authority
var Roles = []string{RoleUser, RoleModerator, RoleAdmin}

type User struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	Username    string    `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email       string    `gorm:"uniqueIndex;size:254;not null" json:"email"`
	FirstName   string    `gorm:"size:150" json:"first_name"`
	LastName    string    `gorm:"size:150" json:"last_name"`
	Bio         string    `gorm:"type:text" json:"bio"`
	Role        string    `gorm:"size:10;default:'user';not null" json:"role"` // default after signup is "user"
	IsSuperuser bool      `gorm:"default:false;not null" json:"-"`
	IsStaff     bool      `gorm:"default:false;not null" json:"-"`
	DateJoined  time.Time `gorm:"autoCreateTime" json:"date_joined"`
	UpdatedAt   time.Time `json:"-"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	// If the ID is not already set, generate a new one.
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = RoleUser
	}
	return
}

func (User) TableName() string {
	return "users"
}

// IsAdmin reports admin-equivalent authority. The superuser and staff flags
// escalate regardless of the role field. Every admin check goes through here.
func IsAdmin(user *User) bool {
	if user == nil {
		return false
	}
	return user.Role == RoleAdmin || user.IsSuperuser || user.IsStaff
}

// IsModerator reports whether the user holds the moderator role.
func IsModerator(user *User) bool {
	return user != nil && user.Role == RoleModerator
}

// ValidRole reports whether role is one of Roles
func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}
