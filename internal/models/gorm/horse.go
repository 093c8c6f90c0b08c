package gorm

import (
	"time"

	"gorm.io/datatypes"
)

// Horse is matched by exact name within a farm; provider horse ids change per show.
type Horse struct {
	ID        string         `gorm:"column:id;primaryKey;type:uuid"`
	FarmID    string         `gorm:"column:farm_id;type:uuid;not null;uniqueIndex:idx_horses_farm_name"`
	Name      string         `gorm:"column:name;type:varchar(255);not null;uniqueIndex:idx_horses_farm_name"`
	Status    string         `gorm:"column:status;type:varchar(50);default:active"`
	Metadata  datatypes.JSON `gorm:"column:metadata"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`

	Farm *Farm `gorm:"foreignKey:FarmID"`
}

// TableName specifies the table name for GORM
func (Horse) TableName() string {
	return "horses"
}
