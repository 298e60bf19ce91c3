// Package service holds business rules between HTTP handlers and repositories.
package service

import (
	"quorum/internal/authz"
	"quorum/internal/observability"
)

// QuestionsPerPage is the page size of question listings.
const QuestionsPerPage = 5

// authorize applies the ownership check and counts denials per resource kind.
func authorize(actorID uint, resource authz.Owned, kind string) error {
	if err := authz.Authorize(actorID, resource); err != nil {
		observability.PermissionDenials.WithLabelValues(kind).Inc()
		return err
	}
	return nil
}

// pageOffset clamps page to >= 1 and returns the row offset.
func pageOffset(page int) (int, int) {
	if page < 1 {
		page = 1
	}
	return page, (page - 1) * QuestionsPerPage
}

func totalPages(total int64) int {
	if total == 0 {
		return 1
	}
	return int((total + QuestionsPerPage - 1) / QuestionsPerPage)
}
