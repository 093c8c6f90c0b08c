package gorm

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"showgrounds/paddock/internal/constants"
)

// Entry is one horse's participation in one class at one show.
//
// Linkage columns (horse, rider, show, event, class and the api_* ids) and
// coarse scheduling (scheduled_date, estimated_start) are written by the
// morning sync. Everything under "live state" is written by class monitoring.
// Class-level live fields (class_status, trips, times) are copied onto every
// sibling entry of the same class.
type Entry struct {
	ID      string  `gorm:"column:id;primaryKey;type:uuid"`
	HorseID string  `gorm:"column:horse_id;type:uuid;not null;index"`
	RiderID *string `gorm:"column:rider_id;type:uuid"`
	ShowID  *string `gorm:"column:show_id;type:uuid;index"`
	EventID *string `gorm:"column:event_id;type:uuid"`
	ClassID *string `gorm:"column:class_id;type:uuid"`

	APIEntryID   *int    `gorm:"column:api_entry_id"`
	APIHorseID   *int    `gorm:"column:api_horse_id"`
	APIRiderID   *int    `gorm:"column:api_rider_id"`
	APIClassID   *int    `gorm:"column:api_class_id"`
	APIRingID    *int    `gorm:"column:api_ring_id"`
	APITripID    *int    `gorm:"column:api_trip_id"`
	APITrainerID *int    `gorm:"column:api_trainer_id"`
	BackNumber   *string `gorm:"column:back_number;type:varchar(50)"`

	ScheduledDate  *datatypes.Date `gorm:"column:scheduled_date;index"`
	EstimatedStart *string         `gorm:"column:estimated_start;type:varchar(50)"`

	// live state
	Status          constants.EntryStatus `gorm:"column:status;type:varchar(50);default:active"`
	OrderOfGo       *int                  `gorm:"column:order_of_go"`
	OrderTotal      *int                  `gorm:"column:order_total"`
	ScratchTrip     bool                  `gorm:"column:scratch_trip;default:false"`
	GoneIn          bool                  `gorm:"column:gone_in;default:false"`
	ActualStart     *string               `gorm:"column:actual_start;type:varchar(50)"`
	ClassStatus     *string               `gorm:"column:class_status;type:varchar(50)"`
	RingStatus      *string               `gorm:"column:ring_status;type:varchar(100)"`
	TotalTrips      *int                  `gorm:"column:total_trips"`
	CompletedTrips  *int                  `gorm:"column:completed_trips"`
	RemainingTrips  *int                  `gorm:"column:remaining_trips"`
	Placing         *int                  `gorm:"column:placing"`
	PointsEarned    decimal.NullDecimal   `gorm:"column:points_earned;type:numeric(5,2)"`
	TotalPrizeMoney decimal.NullDecimal   `gorm:"column:total_prize_money;type:numeric(10,2)"`

	FaultsOne           decimal.NullDecimal `gorm:"column:faults_one;type:numeric(6,2)"`
	TimeOne             decimal.NullDecimal `gorm:"column:time_one;type:numeric(8,3)"`
	TimeFaultOne        decimal.NullDecimal `gorm:"column:time_fault_one;type:numeric(6,2)"`
	DisqualifyStatusOne *string             `gorm:"column:disqualify_status_one;type:varchar(50)"`
	FaultsTwo           decimal.NullDecimal `gorm:"column:faults_two;type:numeric(6,2)"`
	TimeTwo             decimal.NullDecimal `gorm:"column:time_two;type:numeric(8,3)"`
	TimeFaultTwo        decimal.NullDecimal `gorm:"column:time_fault_two;type:numeric(6,2)"`
	DisqualifyStatusTwo *string             `gorm:"column:disqualify_status_two;type:varchar(50)"`

	Score1 decimal.NullDecimal `gorm:"column:score1;type:numeric(5,2)"`
	Score2 decimal.NullDecimal `gorm:"column:score2;type:numeric(5,2)"`
	Score3 decimal.NullDecimal `gorm:"column:score3;type:numeric(5,2)"`
	Score4 decimal.NullDecimal `gorm:"column:score4;type:numeric(5,2)"`
	Score5 decimal.NullDecimal `gorm:"column:score5;type:numeric(5,2)"`
	Score6 decimal.NullDecimal `gorm:"column:score6;type:numeric(5,2)"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	Horse *Horse     `gorm:"foreignKey:HorseID"`
	Rider *Rider     `gorm:"foreignKey:RiderID"`
	Show  *Show      `gorm:"foreignKey:ShowID"`
	Event *Event     `gorm:"foreignKey:EventID"`
	Class *ShowClass `gorm:"foreignKey:ClassID"`
}

// TableName specifies the table name for GORM
func (Entry) TableName() string {
	return "entries"
}
