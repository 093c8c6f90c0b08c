package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"showgrounds/paddock/internal/models/dtos/responses"
)

// Pinger is satisfied by *sqlx.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingerFunc adapts a plain ping function, e.g. a Redis client's
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

// HealthCheckHandler handles GET /healthCheck
//
// Pings every dependency; any failure marks the service degraded and
// answers 503.
func HealthCheckHandler(deps map[string]Pinger, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		resp := responses.HealthCheckResponse{
			Status:        "ok",
			Dependencies:  make(map[string]responses.DependencyHealth, len(deps)),
			UpSince:       upSince.UTC(),
			UptimeSeconds: int64(time.Since(upSince) / time.Second),
		}
		for name, dep := range deps {
			started := time.Now()
			err := dep.PingContext(ctx)
			health := responses.DependencyHealth{State: "up", LatencyMs: time.Since(started).Milliseconds()}
			if err != nil {
				health.State = "down"
				health.Error = err.Error()
				resp.Status = "degraded"
			}
			resp.Dependencies[name] = health
		}

		code := http.StatusOK
		if resp.Status != "ok" {
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
