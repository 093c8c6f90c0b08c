package responses

import "github.com/shopspring/decimal"

type HorseView struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type RiderView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type EntryView struct {
	ID         string     `json:"id"`
	Horse      HorseView  `json:"horse"`
	Rider      *RiderView `json:"rider"`
	BackNumber *string    `json:"back_number"`
	OrderOfGo  *int       `json:"order_of_go"`
	OrderTotal *int       `json:"order_total"`
	Status     string     `json:"status"`

	ScratchTrip    bool    `json:"scratch_trip"`
	GoneIn         bool    `json:"gone_in"`
	EstimatedStart *string `json:"estimated_start"`
	ActualStart    *string `json:"actual_start"`
	ScheduledDate  *string `json:"scheduled_date"`
	ClassStatus    *string `json:"class_status"`
	RingStatus     *string `json:"ring_status"`
	TotalTrips     *int    `json:"total_trips"`
	CompletedTrips *int    `json:"completed_trips"`
	RemainingTrips *int    `json:"remaining_trips"`

	Placing             *int                `json:"placing"`
	PointsEarned        decimal.NullDecimal `json:"points_earned"`
	TotalPrizeMoney     decimal.NullDecimal `json:"total_prize_money"`
	FaultsOne           decimal.NullDecimal `json:"faults_one"`
	TimeOne             decimal.NullDecimal `json:"time_one"`
	DisqualifyStatusOne *string             `json:"disqualify_status_one"`
	FaultsTwo           decimal.NullDecimal `json:"faults_two"`
	TimeTwo             decimal.NullDecimal `json:"time_two"`
	DisqualifyStatusTwo *string             `json:"disqualify_status_two"`
	Score1              decimal.NullDecimal `json:"score1"`
	Score2              decimal.NullDecimal `json:"score2"`
	Score3              decimal.NullDecimal `json:"score3"`
	Score4              decimal.NullDecimal `json:"score4"`
	Score5              decimal.NullDecimal `json:"score5"`
	Score6              decimal.NullDecimal `json:"score6"`
}

type ClassView struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	ClassNumber *string             `json:"class_number"`
	Sponsor     *string             `json:"sponsor"`
	PrizeMoney  decimal.NullDecimal `json:"prize_money"`
	ClassType   *string             `json:"class_type"`
	Entries     []EntryView         `json:"entries"`
}

type EventView struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	RingNumber *int        `json:"ring_number"`
	Classes    []ClassView `json:"classes"`
}

type ScheduleViewResponse struct {
	Date     string      `json:"date"`
	ShowName *string     `json:"show_name"`
	ShowID   *string     `json:"show_id"`
	Events   []EventView `json:"events"`
}
