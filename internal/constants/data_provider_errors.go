package constants

// Show data provider error codes

// Credential-related errors
const (
	ErrCodeAuthenticationFailed = "AUTHENTICATION_FAILED"
	ErrCodeMissingCredentials   = "MISSING_CREDENTIALS"
	ErrCodeRateLimited          = "RATE_LIMITED"
	ErrCodeNetworkError         = "NETWORK_ERROR"
)

// Payload errors
const (
	ErrCodeResourceNotFound  = "RESOURCE_NOT_FOUND"
	ErrCodeInvalidDataFormat = "INVALID_DATA_FORMAT"
	ErrCodeMissingShowID     = "MISSING_SHOW_ID"
	ErrCodeUpstreamError     = "UPSTREAM_ERROR"
)

var DataProviderErrorMessages = map[string]string{
	ErrCodeAuthenticationFailed: "Authentication with the show data provider failed",
	ErrCodeMissingCredentials:   "Show data provider username or password is not configured",
	ErrCodeRateLimited:          "Rate limit exceeded. Please try again later",
	ErrCodeNetworkError:         "Unable to reach the show data provider",

	ErrCodeResourceNotFound:  "The requested show resource was not found",
	ErrCodeInvalidDataFormat: "The show data provider returned an unexpected payload",
	ErrCodeMissingShowID:     "Schedule response has no show id",
	ErrCodeUpstreamError:     "The show data provider returned an error",
}

// GetErrorMessage returns the human-readable message for a code
func GetErrorMessage(code string) string {
	if msg, ok := DataProviderErrorMessages[code]; ok {
		return msg
	}
	return "An unknown error occurred"
}
