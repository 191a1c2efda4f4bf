package postgres

import (
	"github.com/yoockh/recruitdesk/internal/models"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the tables backing projects, profiles and publications.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Project{}, &models.Profile{}, &models.Publication{})
}
