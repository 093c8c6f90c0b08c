package gorm

import (
	"time"

	"gorm.io/datatypes"
)

type Rider struct {
	ID        string         `gorm:"column:id;primaryKey;type:uuid"`
	FarmID    string         `gorm:"column:farm_id;type:uuid;not null;uniqueIndex:idx_riders_farm_name"`
	Name      string         `gorm:"column:name;type:varchar(255);not null;uniqueIndex:idx_riders_farm_name"`
	Country   *string        `gorm:"column:country;type:varchar(100)"`
	Metadata  datatypes.JSON `gorm:"column:metadata"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`

	Farm *Farm `gorm:"foreignKey:FarmID"`
}

// TableName specifies the table name for GORM
func (Rider) TableName() string {
	return "riders"
}
