// Package authz holds the ownership check applied before any update or delete.
package authz

import (
	"fmt"

	"quorum/internal/models"
)

// Owned is implemented by every record that belongs to a single user.
type Owned interface {
	OwnerID() uint
}

// Authorize allows actor to mutate resource only when actor owns it.
// A zero actor or a nil resource is always denied.
func Authorize(actorID uint, resource Owned) error {
	if actorID == 0 || resource == nil {
		return models.NewForbiddenError("Permission denied")
	}
	if resource.OwnerID() != actorID {
		return models.NewForbiddenError(fmt.Sprintf("You can only modify your own %s", describe(resource)))
	}
	return nil
}

func describe(resource Owned) string {
	switch resource.(type) {
	case *models.Question:
		return "questions"
	case *models.Answer:
		return "answers"
	case *models.User:
		return "account"
	default:
		return "records"
	}
}
