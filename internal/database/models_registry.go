package database

import "quorum/internal/models"

// PersistentModels returns every schema-managed GORM model in dependency order.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.UserProfile{},
		&models.Question{},
		&models.Answer{},
		&models.Vote{},
	}
}
