// Package repository implements the data access layer for the application.
package repository

import (
	"errors"
	"strings"

	"quorum/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// isUniqueViolation reports whether err is a unique constraint violation on
// Postgres (SQLSTATE 23505) or SQLite.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// notFoundOr maps gorm.ErrRecordNotFound to a NOT_FOUND AppError and wraps
// anything else as internal.
func notFoundOr(err error, resource string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

const (
	questionVoteCountSQL   = "(SELECT COUNT(*) FROM votes WHERE votes.question_id = questions.id) AS vote_count"
	questionAnswerCountSQL = "(SELECT COUNT(*) FROM answers WHERE answers.question_id = questions.id) AS answer_count"
	answerVoteCountSQL     = "(SELECT COUNT(*) FROM votes WHERE votes.answer_id = answers.id) AS vote_count"
)
