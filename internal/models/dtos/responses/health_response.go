package responses

import "time"

// DependencyHealth is the result of pinging one backing service
type DependencyHealth struct {
	State     string `json:"state"` // "up" | "down"
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms"`
}

type HealthCheckResponse struct {
	Status        string                      `json:"status"`
	Dependencies  map[string]DependencyHealth `json:"dependencies"`
	UpSince       time.Time                   `json:"up_since"`
	UptimeSeconds int64                       `json:"uptime_seconds"`
}
