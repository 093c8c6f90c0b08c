package gorm

import (
	"time"

	"gorm.io/datatypes"
)

// NotificationLog is an append-only ledger row. Rows are never updated.
type NotificationLog struct {
	ID               string         `gorm:"column:id;primaryKey;type:uuid"`
	FarmID           string         `gorm:"column:farm_id;type:uuid;not null;index:idx_notification_log_farm_id"`
	Source           string         `gorm:"column:source;type:varchar(50);not null"`
	NotificationType string         `gorm:"column:notification_type;type:varchar(50);not null"`
	Message          string         `gorm:"column:message;type:text;not null"`
	Payload          datatypes.JSON `gorm:"column:payload"`
	EntryID          *string        `gorm:"column:entry_id;type:uuid"`
	CreatedAt        time.Time      `gorm:"column:created_at;autoCreateTime"`

	Farm  *Farm  `gorm:"foreignKey:FarmID"`
	Entry *Entry `gorm:"foreignKey:EntryID;constraint:OnDelete:SET NULL"`
}

// TableName specifies the table name for GORM
func (NotificationLog) TableName() string {
	return "notification_log"
}
