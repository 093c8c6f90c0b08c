package responses

import (
	"time"

	"showgrounds/paddock/internal/constants"
)

// APIResponse is the envelope every endpoint answers with
type APIResponse[T any] struct {
	Status    constants.APIStatus `json:"status"`
	Message   string              `json:"message"`
	Timestamp time.Time           `json:"timestamp"`
	Data      *T                  `json:"data,omitempty"`
}
