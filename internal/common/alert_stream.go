package common

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// StreamAlert is one alert handed to downstream consumers
type StreamAlert struct {
	FarmID  string `json:"farm_id"`
	Type    string `json:"type"`
	Message string `json:"message"`
	At      string `json:"at"`
}

// AlertStream appends alerts to a Redis stream. Delivery to chat or push
// channels is left to whoever consumes the stream.
type AlertStream struct {
	client redis.UniversalClient
	stream string
	maxLen int64
}

func NewAlertStream(client redis.UniversalClient, stream string) *AlertStream {
	return &AlertStream{client: client, stream: stream, maxLen: 10000}
}

// Publish adds every alert in one pipeline
// XADD stream MAXLEN ~ n * data <json>
func (s *AlertStream) Publish(ctx context.Context, alerts []StreamAlert) error {
	if len(alerts) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, alert := range alerts {
		data, err := json.Marshal(alert)
		if err != nil {
			return fmt.Errorf("failed to marshal alert: %w", err)
		}
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: s.stream,
			MaxLen: s.maxLen,
			Approx: true,
			Values: map[string]interface{}{"data": string(data)},
		})
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish alerts: %w", err)
	}
	return nil
}

// Len returns the stream length
func (s *AlertStream) Len(ctx context.Context) (int64, error) {
	return s.client.XLen(ctx, s.stream).Result()
}
