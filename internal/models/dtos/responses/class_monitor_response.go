package responses

type ClassMonitorSummary struct {
	Date           string `json:"date"`
	ClassesChecked int    `json:"classes_checked"`
	ClassesFailed  int    `json:"classes_failed"`
	EntriesUpdated int    `json:"entries_updated"`
	TotalChanges   int    `json:"total_changes"`
	TotalAlerts    int    `json:"total_alerts"`
	LastRunAt      string `json:"last_run_at"`
}

// Alert is a rendered, ready-to-forward change message
type Alert struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type ClassMonitorResponse struct {
	Summary      ClassMonitorSummary      `json:"summary"`
	Changes      []map[string]interface{} `json:"changes"`
	Alerts       []Alert                  `json:"alerts"`
	Availability []map[string]interface{} `json:"availability"`
}
