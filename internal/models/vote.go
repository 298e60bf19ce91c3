package models

import (
	"fmt"
	"time"
)

// Vote is a user's vote on exactly one question or one answer.
// A user holds at most one vote per target.
type Vote struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_votes_user_question;uniqueIndex:idx_votes_user_answer" json:"user_id"`
	QuestionID *uint     `gorm:"uniqueIndex:idx_votes_user_question;index" json:"question_id,omitempty"`
	AnswerID   *uint     `gorm:"uniqueIndex:idx_votes_user_answer;index" json:"answer_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// VoteTargetKind discriminates what a vote points at.
type VoteTargetKind string

const (
	VoteTargetQuestion VoteTargetKind = "question"
	VoteTargetAnswer   VoteTargetKind = "answer"
)

// VoteTarget identifies the record a vote toggle applies to.
type VoteTarget struct {
	Kind VoteTargetKind `json:"kind"`
	ID   uint           `json:"id"`
}

// QuestionTarget targets the question with the given id.
func QuestionTarget(id uint) VoteTarget {
	return VoteTarget{Kind: VoteTargetQuestion, ID: id}
}

// AnswerTarget targets the answer with the given id.
func AnswerTarget(id uint) VoteTarget {
	return VoteTarget{Kind: VoteTargetAnswer, ID: id}
}

// Validate reports an error for unknown kinds or a zero id.
func (t VoteTarget) Validate() error {
	if t.ID == 0 {
		return NewValidationError("Vote target id is required")
	}
	switch t.Kind {
	case VoteTargetQuestion, VoteTargetAnswer:
		return nil
	default:
		return NewValidationError(fmt.Sprintf("Unknown vote target %q", t.Kind))
	}
}

// Column is the votes column holding the target id.
func (t VoteTarget) Column() string {
	if t.Kind == VoteTargetAnswer {
		return "answer_id"
	}
	return "question_id"
}

// NewVote builds the vote row for userID on this target.
func (t VoteTarget) NewVote(userID uint) *Vote {
	id := t.ID
	v := &Vote{UserID: userID}
	if t.Kind == VoteTargetAnswer {
		v.AnswerID = &id
	} else {
		v.QuestionID = &id
	}
	return v
}

// VoteResult is the outcome of a vote toggle.
type VoteResult struct {
	Target     VoteTarget `json:"target"`
	Voted      bool       `json:"voted"`
	VoteCount  int64      `json:"vote_count"`
	QuestionID uint       `json:"question_id"`
	Redirect   string     `json:"redirect"`
}
