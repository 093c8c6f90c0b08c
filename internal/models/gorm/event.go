package gorm

import "time"

// Event is a ring (arena) within a farm
type Event struct {
	ID          string    `gorm:"column:id;primaryKey;type:uuid"`
	FarmID      string    `gorm:"column:farm_id;type:uuid;not null;uniqueIndex:idx_events_farm_name"`
	Name        string    `gorm:"column:name;type:varchar(255);not null;uniqueIndex:idx_events_farm_name"`
	RingNumber  *int      `gorm:"column:ring_number"`
	Description *string   `gorm:"column:description;type:text"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Farm *Farm `gorm:"foreignKey:FarmID"`
}

// TableName specifies the table name for GORM
func (Event) TableName() string {
	return "events"
}
