package authz

import (
	"testing"

	"quorum/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name     string
		actor    uint
		resource Owned
		allowed  bool
	}{
		{"question owner", 1, &models.Question{ID: 10, UserID: 1}, true},
		{"question stranger", 2, &models.Question{ID: 10, UserID: 1}, false},
		{"answer owner", 3, &models.Answer{ID: 5, UserID: 3}, true},
		{"answer stranger", 1, &models.Answer{ID: 5, UserID: 3}, false},
		{"self", 4, &models.User{ID: 4}, true},
		{"other user", 4, &models.User{ID: 5}, false},
		{"anonymous", 0, &models.Question{UserID: 0}, false},
		{"nil resource", 1, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.actor, tt.resource)
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, models.CodeForbidden, models.ErrorCode(err))
		})
	}
}

func TestAuthorize_MessageNamesResource(t *testing.T) {
	err := Authorize(2, &models.Answer{UserID: 1})
	assert.EqualError(t, err, "You can only modify your own answers")
}
