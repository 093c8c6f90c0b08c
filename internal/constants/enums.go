package constants

import (
	"database/sql/driver"
	"fmt"
)

// EntryStatus is the coarse status of one horse-in-class entry
type EntryStatus string

const (
	EntryStatusActive    EntryStatus = "active"
	EntryStatusCompleted EntryStatus = "completed"
	EntryStatusScratched EntryStatus = "scratched"
	EntryStatusInactive  EntryStatus = "inactive"
)

func (s EntryStatus) String() string { return string(s) }

// Scan implements the sql.Scanner interface
func (s *EntryStatus) Scan(src interface{}) error {
	if src == nil {
		*s = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*s = EntryStatus(v)
	case []byte:
		*s = EntryStatus(v)
	default:
		return fmt.Errorf("EntryStatus: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (s EntryStatus) Value() (driver.Value, error) { return string(s), nil }

// DeriveEntryStatus: scratched wins over completed, completed over active.
func DeriveEntryStatus(scratched, goneIn bool) EntryStatus {
	switch {
	case scratched:
		return EntryStatusScratched
	case goneIn:
		return EntryStatusCompleted
	default:
		return EntryStatusActive
	}
}

// Class status values reported by the provider
const (
	ClassStatusNotStarted = "Not Started"
	ClassStatusUnderway   = "Underway"
	ClassStatusInProgress = "In Progress"
	ClassStatusCompleted  = "Completed"
)

// NotificationSource identifies which flow wrote a ledger row
type NotificationSource string

const (
	SourceClassMonitoring   NotificationSource = "class_monitoring"
	SourceHorseAvailability NotificationSource = "horse_availability"
)

// NotificationType is the change event kind
type NotificationType string

const (
	NotificationStatusChange   NotificationType = "STATUS_CHANGE"
	NotificationTimeChange     NotificationType = "TIME_CHANGE"
	NotificationProgressUpdate NotificationType = "PROGRESS_UPDATE"
	NotificationResult         NotificationType = "RESULT"
	NotificationHorseCompleted NotificationType = "HORSE_COMPLETED"
	NotificationScratched      NotificationType = "SCRATCHED"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationStatusChange, NotificationTimeChange, NotificationProgressUpdate,
		NotificationResult, NotificationHorseCompleted, NotificationScratched:
		return true
	}
	return false
}

// Run response markers
const (
	TaskCompleted = "completed"
	TriggerDaily  = "daily"
	TriggerManual = "manual"
)

// UnplacedPlacing is the provider's "no placing assigned" value.
const UnplacedPlacing = 100000

// Display placeholders
const (
	UnknownShow  = "Unknown Show"
	UnknownClass = "Unknown Class"
	UnknownRing  = "Unknown Ring"
	UnknownHorse = "Unknown"
	NoValue      = "—"
)
