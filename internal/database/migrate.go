package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/hearthplan/backend/internal/models"
)

// AutoMigrate creates or updates the schema for every entity. On Postgres
// it first installs the pgvector extension required by the meal embedding
// column.
func AutoMigrate(db *gorm.DB) error {
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector;").Error; err != nil {
			return fmt.Errorf("failed to install pgvector extension: %w", err)
		}
	}

	return db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Meal{},
		&models.MealPlan{},
		&models.Activity{},
		&models.ShoppingList{},
		&models.ShoppingItem{},
	)
}
