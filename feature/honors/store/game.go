package store

import (
	"time"

	"honor-sync/feature/honors/models"
)

// Game is one game record with its embedded honors.
type Game struct {
	ExternalID  string                  `gorm:"column:external_id;primaryKey;size:64"`
	Name        string                  `gorm:"column:name;size:255"`
	Provisional bool                    `gorm:"column:provisional;not null;default:false"`
	Honors      []models.CanonicalHonor `gorm:"column:honors;type:text;serializer:json"`
	CreatedAt   time.Time               `gorm:"column:created_at"`
	UpdatedAt   time.Time               `gorm:"column:updated_at"`
}

// TableName overrides the table name.
func (Game) TableName() string {
	return "games"
}

// requiredColumns are checked after migration.
var requiredColumns = []string{"external_id", "name", "provisional", "honors"}
