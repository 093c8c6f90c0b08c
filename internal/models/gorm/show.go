package gorm

import (
	"time"

	"gorm.io/datatypes"
)

// Show is the only entity keyed by a provider id; (farm_id, api_show_id) is
// unique through a partial index created by the migration.
type Show struct {
	ID        string          `gorm:"column:id;primaryKey;type:uuid"`
	FarmID    string          `gorm:"column:farm_id;type:uuid;not null;index"`
	APIShowID *int            `gorm:"column:api_show_id"`
	Name      string          `gorm:"column:name;type:varchar(500);not null"`
	StartDate *datatypes.Date `gorm:"column:start_date"`
	EndDate   *datatypes.Date `gorm:"column:end_date"`
	Venue     *string         `gorm:"column:venue;type:varchar(255)"`
	IsActive  bool            `gorm:"column:is_active;default:true"`
	Metadata  datatypes.JSON  `gorm:"column:metadata"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`

	Farm *Farm `gorm:"foreignKey:FarmID"`
}

// TableName specifies the table name for GORM
func (Show) TableName() string {
	return "shows"
}
