package responses

import (
	"encoding/json"
	"time"
)

type JobStatus struct {
	Event      string          `json:"event"`
	LastRunAt  *time.Time      `json:"last_run_at"`
	LastRunFmt *string         `json:"last_run_display"`
	Running    bool            `json:"running"`
	Summary    json.RawMessage `json:"summary,omitempty"`
}

type JobsStatusResponse struct {
	FarmID string      `json:"farm_id,omitempty"`
	Jobs   []JobStatus `json:"jobs"`
}
