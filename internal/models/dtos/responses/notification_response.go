package responses

import (
	"encoding/json"
	"time"
)

type NotificationView struct {
	ID               string          `json:"id"`
	Source           string          `json:"source"`
	NotificationType string          `json:"notification_type"`
	Message          string          `json:"message"`
	Payload          json.RawMessage `json:"payload"`
	EntryID          *string         `json:"entry_id"`
	CreatedAt        time.Time       `json:"created_at"`
}

type NotificationListResponse struct {
	Items  []NotificationView `json:"items"`
	Count  int                `json:"count"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}
