package gorm

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ShowClass is a named competition class. Uniqueness is (farm_id, name,
// class_number), split into two partial indexes by the migration so a null
// class_number is still unique per name.
type ShowClass struct {
	ID          string              `gorm:"column:id;primaryKey;type:uuid"`
	FarmID      string              `gorm:"column:farm_id;type:uuid;not null;index"`
	Name        string              `gorm:"column:name;type:varchar(500);not null"`
	ClassNumber *string             `gorm:"column:class_number;type:varchar(50)"`
	Sponsor     *string             `gorm:"column:sponsor;type:varchar(255)"`
	PrizeMoney  decimal.NullDecimal `gorm:"column:prize_money;type:numeric(10,2)"`
	ClassType   *string             `gorm:"column:class_type;type:varchar(100)"`
	JumperTable *string             `gorm:"column:jumper_table;type:varchar(100)"`
	Metadata    datatypes.JSON      `gorm:"column:metadata"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`

	Farm *Farm `gorm:"foreignKey:FarmID"`
}

// TableName specifies the table name for GORM
func (ShowClass) TableName() string {
	return "classes"
}
