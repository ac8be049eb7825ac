package db

import (
	"fmt"

	"github.com/brewshelf/brewshelf/internal/models"
	"gorm.io/gorm"
)

// AllModels returns every GORM model the remote store persists.
func AllModels() []interface{} {
	return []interface{}{
		&models.Beer{},
		&models.CustomBrew{},
	}
}

// AutoMigrate creates or updates the beers and custom_brews tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}
