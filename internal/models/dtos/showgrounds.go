package dtos

// -------- auth ---------------------------------------------------------------

type LoginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe string `json:"remember_me"`
	CompanyID  string `json:"company_id"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// -------- GET /schedule -------------------------------------------------------

type ScheduleResponse struct {
	Show  ScheduleShow   `json:"show"`
	Rings []ScheduleRing `json:"rings"`
}

type ScheduleShow struct {
	ShowID    FlexInt    `json:"show_id"`
	ShowName  FlexString `json:"show_name"`
	StartDate FlexString `json:"start_date"`
	EndDate   FlexString `json:"end_date"`
}

type ScheduleRing struct {
	RingName   FlexString      `json:"ring_name"`
	RingNumber FlexInt         `json:"ring_number"`
	Classes    []ScheduleClass `json:"classes"`
}

type ScheduleClass struct {
	ClassID     FlexInt     `json:"class_id"`
	ClassName   FlexString  `json:"class_name"`
	ClassNumber FlexString  `json:"class_number"`
	TotalTrips  FlexInt     `json:"total_trips"`
	Sponsor     FlexString  `json:"sponsor"`
	PrizeMoney  FlexDecimal `json:"prize_money"`
	ClassType   FlexString  `json:"class_type"`
}

// -------- GET /entries/my -----------------------------------------------------

type MyEntriesResponse struct {
	Entries []EntrySummary `json:"entries"`
}

type EntrySummary struct {
	EntryID FlexInt    `json:"entry_id"`
	Horse   FlexString `json:"horse"`
	Number  FlexString `json:"number"`
}

// -------- GET /entries/{id} ---------------------------------------------------

type EntryDetailResponse struct {
	Entry       EntryInfo    `json:"entry"`
	Classes     []EntryClass `json:"classes"`
	EntryRiders []EntryRider `json:"entry_riders"`
}

type EntryInfo struct {
	EntryID   FlexInt    `json:"entry_id"`
	HorseID   FlexInt    `json:"horse_id"`
	Horse     FlexString `json:"horse"`
	Number    FlexString `json:"number"`
	TrainerID FlexInt    `json:"trainer_id"`
}

type EntryClass struct {
	ClassID           FlexInt    `json:"class_id"`
	Name              FlexString `json:"name"`
	ClassNumber       FlexString `json:"class_number"`
	RiderName         FlexString `json:"rider_name"`
	RiderID           FlexInt    `json:"rider_id"`
	Ring              FlexInt    `json:"ring"`
	ScheduledDate     FlexString `json:"scheduled_date"`
	ScheduleStartTime FlexString `json:"schedule_starttime"`
}

type EntryRider struct {
	RiderName FlexString `json:"rider_name"`
	RiderID   FlexInt    `json:"rider_id"`
}

// -------- GET /classes/{id} ---------------------------------------------------

type ClassStateResponse struct {
	ClassRelatedData ClassRelatedData `json:"class_related_data"`
	Trips            []Trip           `json:"trips"`
}

type ClassRelatedData struct {
	Status         FlexString `json:"status"`
	EstimatedTime  FlexString `json:"estimated_time"`
	ActualTime     FlexString `json:"actual_time"`
	TotalTrips     FlexInt    `json:"total_trips"`
	CompletedTrips FlexInt    `json:"completed_trips"`
	RemainingTrips FlexInt    `json:"remaining_trips"`
}

// Trip is the live per-entry result record of a class
type Trip struct {
	EntryID             FlexInt     `json:"entry_id"`
	TripID              FlexInt     `json:"trip_id"`
	OrderOfGo           FlexInt     `json:"order_of_go"`
	Placing             FlexInt     `json:"placing"`
	TotalPrizeMoney     FlexDecimal `json:"total_prize_money"`
	PointsEarned        FlexDecimal `json:"points_earned"`
	GoneIn              FlexInt     `json:"gone_in"`
	ScratchTrip         FlexInt     `json:"scratch_trip"`
	FaultsOne           FlexDecimal `json:"faults_one"`
	TimeOne             FlexDecimal `json:"time_one"`
	TimeFaultOne        FlexDecimal `json:"time_fault_one"`
	DisqualifyStatusOne FlexString  `json:"disqualify_status_one"`
	FaultsTwo           FlexDecimal `json:"faults_two"`
	TimeTwo             FlexDecimal `json:"time_two"`
	TimeFaultTwo        FlexDecimal `json:"time_fault_two"`
	DisqualifyStatusTwo FlexString  `json:"disqualify_status_two"`
	Score1              FlexDecimal `json:"score1"`
	Score2              FlexDecimal `json:"score2"`
	Score3              FlexDecimal `json:"score3"`
	Score4              FlexDecimal `json:"score4"`
	Score5              FlexDecimal `json:"score5"`
	Score6              FlexDecimal `json:"score6"`
}
