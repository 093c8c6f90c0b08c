package gorm

import (
	"time"

	"gorm.io/datatypes"
)

// Farm is the tenant root. Everything else hangs off a farm.
type Farm struct {
	ID         string         `gorm:"column:id;primaryKey;type:uuid"`
	Name       string         `gorm:"column:name;type:varchar(255);not null;uniqueIndex:idx_farms_name_customer"`
	CustomerID *int           `gorm:"column:customer_id;uniqueIndex:idx_farms_name_customer"`
	Settings   datatypes.JSON `gorm:"column:settings"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Farm) TableName() string {
	return "farms"
}
