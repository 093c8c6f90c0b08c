package providers

import (
	"errors"
	"fmt"

	"showgrounds/paddock/internal/constants"
)

// ProviderError represents a show data provider failure
type ProviderError struct {
	Code       string
	Message    string
	Details    string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsAuthError reports whether err carries an authentication failure
func IsAuthError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Code == constants.ErrCodeAuthenticationFailed
}

// ErrorCode returns the provider error code of err, or "" when err did not
// come from the provider.
func ErrorCode(err error) string {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}
