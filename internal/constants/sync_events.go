package constants

// Sync event types for sync_history table
const (
	SyncEventMorningSync     = "morning_sync"
	SyncEventClassMonitoring = "class_monitoring"
)
