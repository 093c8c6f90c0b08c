package db

import (
	"fmt"

	"gorm.io/gorm"

	models "showgrounds/paddock/internal/models/gorm"
)

// Partial and ordered indexes that struct tags cannot express. The entry pair
// is the two-tier uniqueness: with a provider class id the key is
// (horse, show, class), without one it is (horse, show). The class pair does
// the same for a missing class_number.
var indexStatements = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_shows_farm_api_show ON shows (farm_id, api_show_id) WHERE api_show_id IS NOT NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_classes_unique ON classes (farm_id, name, class_number) WHERE class_number IS NOT NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_classes_unique_no_number ON classes (farm_id, name) WHERE class_number IS NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_entries_unique ON entries (horse_id, show_id, api_class_id) WHERE api_class_id IS NOT NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_entries_unique_no_class ON entries (horse_id, show_id) WHERE api_class_id IS NULL`,
	`CREATE INDEX IF NOT EXISTS idx_entries_show_date ON entries (show_id, scheduled_date)`,
	`CREATE INDEX IF NOT EXISTS idx_notification_log_farm_created ON notification_log (farm_id, created_at DESC)`,
}

// Migrate creates or updates every table and index the pipeline relies on.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Farm{},
		&models.Horse{},
		&models.Rider{},
		&models.Show{},
		&models.Event{},
		&models.ShowClass{},
		&models.Entry{},
		&models.NotificationLog{},
		&models.SyncHistory{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	for _, stmt := range indexStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}
