package gorm

import (
	"time"

	"gorm.io/datatypes"
)

// SyncHistory tracks the last run of each flow per farm
type SyncHistory struct {
	ID         string         `gorm:"column:id;primaryKey;type:uuid"`
	FarmID     string         `gorm:"column:farm_id;type:uuid;not null;uniqueIndex:idx_sync_history_farm_event"`
	Event      string         `gorm:"column:event;type:varchar(50);not null;uniqueIndex:idx_sync_history_farm_event"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime"`
	LastSyncAt *time.Time     `gorm:"column:last_sync_at"`
	Summary    datatypes.JSON `gorm:"column:summary"`

	// Relationships
	Farm *Farm `gorm:"foreignKey:FarmID"`
}

// TableName specifies the table name for GORM
func (SyncHistory) TableName() string {
	return "sync_history"
}
