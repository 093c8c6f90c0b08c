package constants

const (
	MsgSuccess          = "success"
	MsgInvalidAPIKey    = "Invalid or missing API key."
	MsgInvalidDate      = "date must be YYYY-MM-DD"
	MsgInvalidQuery     = "Invalid query parameters"
	MsgSyncFailed       = "Morning sync failed"
	MsgMonitorFailed    = "Class monitoring failed"
	MsgRunInProgress    = "A run of this flow is already in progress"
	MsgUpstreamFailure  = "Show data provider request failed"
	MsgNotificationRead = "Failed to read notifications"
	MsgRateLimited      = "Too many requests"
	MsgScheduleRead     = "Failed to read schedule"
	MsgJobsStatus       = "Failed to read job status"
	MsgNotFound         = "Not found"
)
