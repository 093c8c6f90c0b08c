package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"showgrounds/paddock/internal/config"
	"showgrounds/paddock/internal/constants"
	"showgrounds/paddock/internal/metrics"
	"showgrounds/paddock/internal/models/dtos"
)

// ShowgroundsProvider talks to the ShowGroundsLive API. Every call carries
// the Origin the provider enforces; all but login carry a bearer token.
type ShowgroundsProvider struct {
	BaseURL  string
	Origin   string
	Username string
	Password string
	Client   *http.Client

	limiter *rate.Limiter
	metrics *metrics.MetricsRegistry
}

// NewShowgroundsProvider creates a provider from configuration
func NewShowgroundsProvider(cfg config.ShowgroundsConfig) *ShowgroundsProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	p := &ShowgroundsProvider{
		BaseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		Origin:   cfg.Origin,
		Username: cfg.Username,
		Password: cfg.Password,
		Client: &http.Client{
			Timeout: timeout,
		},
	}
	if cfg.RPS > 0 {
		burst := int(cfg.RPS)
		if burst < 1 {
			burst = 1
		}
		p.limiter = rate.NewLimiter(rate.Limit(cfg.RPS), burst)
	}
	return p
}

// WithMetrics counts every call by operation and outcome on m
func (p *ShowgroundsProvider) WithMetrics(m *metrics.MetricsRegistry) *ShowgroundsProvider {
	p.metrics = m
	return p
}

// GetProviderType returns the provider type identifier
func (p *ShowgroundsProvider) GetProviderType() string {
	return "showgroundslive_api"
}

// ============================================================================
// Auth
// ============================================================================

// Login exchanges the configured credentials for an access token
func (p *ShowgroundsProvider) Login(ctx context.Context, customerID string) (string, int, error) {
	if p.Username == "" || p.Password == "" {
		return "", 0, &ProviderError{
			Code:    constants.ErrCodeMissingCredentials,
			Message: constants.GetErrorMessage(constants.ErrCodeMissingCredentials),
		}
	}

	reqBody := dtos.LoginRequest{
		Username:   p.Username,
		Password:   p.Password,
		RememberMe: "yes",
		CompanyID:  customerID,
	}

	var result dtos.LoginResponse
	status, err := p.doPost(ctx, "/auth/login", reqBody, &result)
	if err != nil {
		return "", status, err
	}

	if result.AccessToken == "" {
		return "", status, &ProviderError{
			Code:       constants.ErrCodeAuthenticationFailed,
			Message:    "Login response has no access_token",
			StatusCode: status,
		}
	}
	return result.AccessToken, status, nil
}

// ============================================================================
// Schedule and entries
// ============================================================================

// GetSchedule fetches the day's show, rings and class summaries
func (p *ShowgroundsProvider) GetSchedule(ctx context.Context, token string, date time.Time, customerID string) (*dtos.ScheduleResponse, int, error) {
	q := url.Values{}
	q.Set("date", date.Format(constants.DateLayout))
	q.Set("customer_id", customerID)

	var result dtos.ScheduleResponse
	status, err := p.doGET(ctx, token, "/schedule?"+q.Encode(), &result)
	if err != nil {
		return nil, status, err
	}
	return &result, status, nil
}

// GetMyEntries lists the caller's entries at a show
func (p *ShowgroundsProvider) GetMyEntries(ctx context.Context, token string, showID int, customerID string) (*dtos.MyEntriesResponse, int, error) {
	q := url.Values{}
	q.Set("show_id", fmt.Sprint(showID))
	q.Set("customer_id", customerID)

	var result dtos.MyEntriesResponse
	status, err := p.doGET(ctx, token, "/entries/my?"+q.Encode(), &result)
	if err != nil {
		return nil, status, err
	}
	return &result, status, nil
}

// GetEntryDetail fetches one entry with its classes and riders
func (p *ShowgroundsProvider) GetEntryDetail(ctx context.Context, token string, entryID, showID int, customerID string) (*dtos.EntryDetailResponse, int, error) {
	if entryID <= 0 {
		return nil, 0, &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: "Entry ID must be greater than 0",
		}
	}

	q := url.Values{}
	q.Set("eid", fmt.Sprint(entryID))
	q.Set("show_id", fmt.Sprint(showID))
	q.Set("customer_id", customerID)

	var result dtos.EntryDetailResponse
	status, err := p.doGET(ctx, token, fmt.Sprintf("/entries/%d?%s", entryID, q.Encode()), &result)
	if err != nil {
		return nil, status, err
	}
	return &result, status, nil
}

// GetClass fetches live class state and trips
func (p *ShowgroundsProvider) GetClass(ctx context.Context, token string, classID, showID int, customerID string) (*dtos.ClassStateResponse, int, error) {
	if classID <= 0 {
		return nil, 0, &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: "Class ID must be greater than 0",
		}
	}

	q := url.Values{}
	q.Set("show_id", fmt.Sprint(showID))
	q.Set("customer_id", customerID)

	var result dtos.ClassStateResponse
	status, err := p.doGET(ctx, token, fmt.Sprintf("/classes/%d?%s", classID, q.Encode()), &result)
	if err != nil {
		return nil, status, err
	}
	return &result, status, nil
}

// ============================================================================
// HTTP Helper Methods
// ============================================================================

func (p *ShowgroundsProvider) wait(ctx context.Context) error {
	if p.limiter == nil {
		return nil
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Request cancelled while waiting for rate limiter",
			Err:     err,
		}
	}
	return nil
}

// doGET performs an authenticated GET request
func (p *ShowgroundsProvider) doGET(ctx context.Context, token string, endpoint string, result interface{}) (int, error) {
	if token == "" {
		return 0, &ProviderError{
			Code:    constants.ErrCodeAuthenticationFailed,
			Message: "Access token is empty",
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+endpoint, nil)
	if err != nil {
		return 0, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to create request",
			Err:     err,
		}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	return p.do(req, endpoint, result)
}

// doPost performs an unauthenticated POST with a JSON body
func (p *ShowgroundsProvider) doPost(ctx context.Context, endpoint string, payload interface{}, result interface{}) (int, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return 0, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to marshal request body",
			Err:     err,
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+endpoint, bytes.NewReader(payloadBytes))
	if err != nil {
		return 0, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to create request",
			Err:     err,
		}
	}
	req.Header.Set("Content-Type", "application/json")

	return p.do(req, endpoint, result)
}

func (p *ShowgroundsProvider) do(req *http.Request, endpoint string, result interface{}) (int, error) {
	status, err := p.send(req, endpoint, result)
	if p.metrics != nil {
		outcome := "ok"
		if err != nil {
			outcome = strings.ToLower(ErrorCode(err))
		}
		p.metrics.ProviderRequestsTotal.WithLabelValues(operationOf(endpoint), outcome).Inc()
	}
	return status, err
}

// operationOf names a call by its first path segment: auth, schedule,
// entries or classes.
func operationOf(endpoint string) string {
	path := strings.TrimPrefix(endpoint, "/")
	if i := strings.IndexAny(path, "/?"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "unknown"
	}
	return path
}

func (p *ShowgroundsProvider) send(req *http.Request, endpoint string, result interface{}) (int, error) {
	if err := p.wait(req.Context()); err != nil {
		return 0, err
	}

	req.Header.Set("Accept", "application/json")
	if p.Origin != "" {
		req.Header.Set("Origin", p.Origin)
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return 0, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	// Read body for potential error messages
	bodyBytes, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return resp.StatusCode, &ProviderError{
			Code:       constants.ErrCodeNetworkError,
			Message:    "Failed to read response body",
			StatusCode: resp.StatusCode,
			Err:        readErr,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, p.buildHTTPError(resp.StatusCode, endpoint, string(bodyBytes))
	}

	if err := json.Unmarshal(bodyBytes, result); err != nil {
		return resp.StatusCode, &ProviderError{
			Code:       constants.ErrCodeInvalidDataFormat,
			Message:    fmt.Sprintf("Failed to decode response from %s", endpoint),
			Details:    truncate(string(bodyBytes), 500),
			StatusCode: resp.StatusCode,
			Err:        err,
		}
	}

	return resp.StatusCode, nil
}

// buildHTTPError creates appropriate error based on status code
func (p *ShowgroundsProvider) buildHTTPError(statusCode int, endpoint string, body string) error {
	body = truncate(body, 500)
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &ProviderError{
			Code:       constants.ErrCodeAuthenticationFailed,
			Message:    fmt.Sprintf("Authentication failed for endpoint %s", endpoint),
			Details:    body,
			StatusCode: statusCode,
		}
	case http.StatusNotFound:
		return &ProviderError{
			Code:       constants.ErrCodeResourceNotFound,
			Message:    fmt.Sprintf("Resource not found: %s", endpoint),
			Details:    body,
			StatusCode: statusCode,
		}
	case http.StatusTooManyRequests:
		return &ProviderError{
			Code:       constants.ErrCodeRateLimited,
			Message:    constants.GetErrorMessage(constants.ErrCodeRateLimited),
			Details:    body,
			StatusCode: statusCode,
		}
	case http.StatusBadRequest:
		return &ProviderError{
			Code:       constants.ErrCodeInvalidDataFormat,
			Message:    fmt.Sprintf("Bad request to %s", endpoint),
			Details:    body,
			StatusCode: statusCode,
		}
	default:
		return &ProviderError{
			Code:       constants.ErrCodeUpstreamError,
			Message:    fmt.Sprintf("HTTP %d from %s", statusCode, endpoint),
			Details:    body,
			StatusCode: statusCode,
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
