package models

import (
	"fmt"
	"time"
)

// Visibility controls whether a question or answer is shown on its author's public profile.
type Visibility int

const (
	VisibilityPublic  Visibility = 0
	VisibilityPrivate Visibility = 1
)

// Valid reports whether v is a known visibility level.
func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

func (v Visibility) String() string {
	switch v {
	case VisibilityPublic:
		return "public"
	case VisibilityPrivate:
		return "private"
	default:
		return fmt.Sprintf("visibility(%d)", int(v))
	}
}

// Question is a question asked by a user.
type Question struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"index;not null" json:"user_id"`
	Title       string     `gorm:"size:300;not null" json:"title"`
	Description string     `gorm:"type:text;not null" json:"description"`
	Visibility  Visibility `gorm:"not null;default:0" json:"visibility"`
	ImageURL    string     `gorm:"size:500" json:"image_url,omitempty"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Answers []Answer `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`

	VoteCount   int64 `gorm:"->;-:migration" json:"vote_count"`
	AnswerCount int64 `gorm:"->;-:migration" json:"answer_count"`
}

// OwnerID returns the author of the question.
func (q *Question) OwnerID() uint { return q.UserID }

// DetailPath is the API path of the question detail view.
func (q *Question) DetailPath() string {
	return QuestionDetailPath(q.ID)
}

// QuestionDetailPath is the API path of a question detail view.
func QuestionDetailPath(id uint) string {
	return fmt.Sprintf("/api/questions/%d", id)
}

// QuestionListPath is the API path of the question list.
const QuestionListPath = "/api/questions"
