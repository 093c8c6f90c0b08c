package requests

// NotificationQuery holds the ledger read filters from the query string
type NotificationQuery struct {
	Limit     int    `validate:"min=1,max=500"`
	Offset    int    `validate:"min=0"`
	Source    string `validate:"omitempty,oneof=class_monitoring horse_availability"`
	Type      string `validate:"omitempty,oneof=STATUS_CHANGE TIME_CHANGE PROGRESS_UPDATE RESULT HORSE_COMPLETED SCRATCHED"`
	Date      string `validate:"omitempty,datetime=2006-01-02"`
	HorseName string `validate:"max=255"`
	ClassName string `validate:"max=500"`
}

// DateQuery is an optional YYYY-MM-DD override
type DateQuery struct {
	Date string `validate:"omitempty,datetime=2006-01-02"`
}
