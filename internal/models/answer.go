package models

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Answer is a user's answer to a question.
// The combination of UserID and QuestionID must be unique.
type Answer struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;uniqueIndex:idx_answers_user_question" json:"user_id"`
	QuestionID uint       `gorm:"not null;uniqueIndex:idx_answers_user_question;index" json:"question_id"`
	Text       string     `gorm:"type:text;not null" json:"text"`
	Visibility Visibility `gorm:"not null;default:0" json:"visibility"`
	Rating     int        `gorm:"not null" json:"rating"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Question *Question `gorm:"foreignKey:QuestionID" json:"-"`

	VoteCount int64 `gorm:"->;-:migration" json:"vote_count"`
}

// OwnerID returns the author of the answer.
func (a *Answer) OwnerID() uint { return a.UserID }
