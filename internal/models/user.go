// Package models contains data structures for the application's domain models.
package models

import (
	"net/url"
	"time"
)

// User represents an account on the Q&A board.
// Deleting an account only clears IsActive; the row and its content remain.
type User struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	Username  string       `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email     string       `gorm:"uniqueIndex;size:254;not null" json:"email"`
	Password  string       `gorm:"not null" json:"-"`
	FirstName string       `gorm:"size:150" json:"first_name"`
	LastName  string       `gorm:"size:150" json:"last_name"`
	IsActive  bool         `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Profile   *UserProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

// OwnerID makes every user the owner of their own account.
func (u *User) OwnerID() uint { return u.ID }

// UserProfile extends a User with the city captured at registration.
type UserProfile struct {
	ID     uint    `gorm:"primaryKey" json:"id"`
	UserID uint    `gorm:"uniqueIndex;not null" json:"user_id"`
	City   *string `gorm:"size:100" json:"city"`
}

// TableName returns the database table name for UserProfile.
func (UserProfile) TableName() string {
	return "user_profiles"
}

// TopAsker is one row of the monthly question ranking.
type TopAsker struct {
	UserID        uint   `json:"user_id"`
	Username      string `json:"username"`
	QuestionCount int64  `json:"question_count"`
}

// UserDetailPath is the API path of a user's profile page.
func UserDetailPath(username string) string {
	return "/api/users/" + url.PathEscape(username)
}
