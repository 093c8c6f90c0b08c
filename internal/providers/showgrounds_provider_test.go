package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"showgrounds/paddock/internal/common"
	"showgrounds/paddock/internal/constants"
)

const testOrigin = "https://www.example-showgrounds.test"

func newTestProvider(url string) *ShowgroundsProvider {
	return &ShowgroundsProvider{
		BaseURL:  url,
		Origin:   testOrigin,
		Username: "farm-user",
		Password: "secret",
		Client:   &http.Client{},
	}
}

func TestShowgroundsProvider_Login_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if r.URL.Path != "/auth/login" {
			t.Errorf("Expected path /auth/login, got %s", r.URL.Path)
		}
		if got := r.Header.Get("Origin"); got != testOrigin {
			t.Errorf("Expected Origin %s, got %s", testOrigin, got)
		}
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("Expected no Authorization header on login, got %s", got)
		}

		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["username"] != "farm-user" || body["company_id"] != "15" || body["remember_me"] != "yes" {
			t.Errorf("Unexpected login body: %v", body)
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-123"})
	}))
	defer server.Close()

	token, status, err := newTestProvider(server.URL).Login(context.Background(), "15")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if status != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", status)
	}
	if token != "tok-123" {
		t.Errorf("Expected token tok-123, got %s", token)
	}
}

func TestShowgroundsProvider_Login_MissingToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"message":"ok"}`))
	}))
	defer server.Close()

	_, _, err := newTestProvider(server.URL).Login(context.Background(), "15")
	if ErrorCode(err) != constants.ErrCodeAuthenticationFailed {
		t.Fatalf("Expected AUTHENTICATION_FAILED, got %v", err)
	}
}

func TestShowgroundsProvider_Login_MissingCredentials(t *testing.T) {
	p := &ShowgroundsProvider{BaseURL: "http://unused", Client: &http.Client{}}

	_, status, err := p.Login(context.Background(), "15")
	if ErrorCode(err) != constants.ErrCodeMissingCredentials {
		t.Fatalf("Expected MISSING_CREDENTIALS, got %v", err)
	}
	if status != 0 {
		t.Errorf("Expected status 0, got %d", status)
	}
}

func TestShowgroundsProvider_GetSchedule_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/schedule" {
			t.Errorf("Expected path /schedule, got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("date"); got != "2026-02-19" {
			t.Errorf("Expected date 2026-02-19, got %s", got)
		}
		if got := r.URL.Query().Get("customer_id"); got != "15" {
			t.Errorf("Expected customer_id 15, got %s", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Expected bearer token, got %s", got)
		}
		if got := r.Header.Get("Origin"); got != testOrigin {
			t.Errorf("Expected Origin %s, got %s", testOrigin, got)
		}

		w.Write([]byte(`{
			"show": {"show_id": "901", "show_name": "WEF 7", "start_date": "2026-02-17", "end_date": "2026-02-22"},
			"rings": [{"ring_name": "International Ring", "ring_number": 1, "classes": [
				{"class_id": 55, "class_name": "1.40m Open", "class_number": "212", "total_trips": 40, "prize_money": "25000"}
			]}]
		}`))
	}))
	defer server.Close()

	day := time.Date(2026, 2, 19, 0, 0, 0, 0, time.UTC)
	result, status, err := newTestProvider(server.URL).GetSchedule(context.Background(), "tok", day, "15")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if status != http.StatusOK {
		t.Errorf("Expected status 200, got %d", status)
	}
	if !result.Show.ShowID.Is(901) {
		t.Errorf("Expected show id 901, got %+v", result.Show.ShowID)
	}
	if len(result.Rings) != 1 || len(result.Rings[0].Classes) != 1 {
		t.Fatalf("Expected 1 ring with 1 class, got %+v", result.Rings)
	}
	if got := result.Rings[0].Classes[0].PrizeMoney.Display("0"); got != "25000" {
		t.Errorf("Expected prize 25000, got %s", got)
	}
}

func TestShowgroundsProvider_GetEntryDetail_Path(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/entries/777" {
			t.Errorf("Expected path /entries/777, got %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("eid") != "777" || q.Get("show_id") != "901" {
			t.Errorf("Unexpected query %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"entry": {"entry_id": 777, "horse": "Cassius"}, "classes": [], "entry_riders": [{"rider_name": "Ann Lee"}]}`))
	}))
	defer server.Close()

	result, _, err := newTestProvider(server.URL).GetEntryDetail(context.Background(), "tok", 777, 901, "15")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Entry.Horse.Value != "Cassius" {
		t.Errorf("Expected horse Cassius, got %s", result.Entry.Horse.Value)
	}
	if len(result.EntryRiders) != 1 {
		t.Errorf("Expected 1 rider, got %d", len(result.EntryRiders))
	}
}

func TestShowgroundsProvider_GetClass_InvalidID(t *testing.T) {
	_, status, err := newTestProvider("http://unused").GetClass(context.Background(), "tok", 0, 901, "15")
	if err == nil {
		t.Error("Expected error for class id 0")
	}
	if status != 0 {
		t.Errorf("Expected status 0, got %d", status)
	}
}

func TestShowgroundsProvider_HTTPErrors(t *testing.T) {
	tests := []struct {
		status int
		code   string
	}{
		{http.StatusUnauthorized, constants.ErrCodeAuthenticationFailed},
		{http.StatusNotFound, constants.ErrCodeResourceNotFound},
		{http.StatusTooManyRequests, constants.ErrCodeRateLimited},
		{http.StatusBadGateway, constants.ErrCodeUpstreamError},
	}

	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			w.Write([]byte(`{"error":"nope"}`))
		}))

		_, status, err := newTestProvider(server.URL).GetClass(context.Background(), "tok", 55, 901, "15")
		server.Close()

		if status != tt.status {
			t.Errorf("Expected status %d, got %d", tt.status, status)
		}
		if ErrorCode(err) != tt.code {
			t.Errorf("Status %d: expected code %s, got %v", tt.status, tt.code, err)
		}
	}
}

func TestShowgroundsProvider_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer server.Close()

	_, _, err := newTestProvider(server.URL).GetMyEntries(context.Background(), "tok", 901, "15")
	if ErrorCode(err) != constants.ErrCodeInvalidDataFormat {
		t.Fatalf("Expected INVALID_DATA_FORMAT, got %v", err)
	}
}

func TestTokenCache_ReusesTokenUntilInvalidated(t *testing.T) {
	logins := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logins++
		json.NewEncoder(w).Encode(map[string]string{"access_token": "opaque-token"})
	}))
	defer server.Close()

	tc := NewTokenCache(newTestProvider(server.URL), common.NewMemoryCache(time.Minute, time.Minute), "15")

	for i := 0; i < 3; i++ {
		token, err := tc.Token(context.Background())
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if token != "opaque-token" {
			t.Errorf("Expected opaque-token, got %s", token)
		}
	}
	if logins != 1 {
		t.Errorf("Expected 1 login, got %d", logins)
	}

	tc.Invalidate()
	if _, err := tc.Token(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if logins != 2 {
		t.Errorf("Expected 2 logins after invalidate, got %d", logins)
	}
}

func TestTokenTTL(t *testing.T) {
	now := time.Date(2026, 2, 19, 12, 0, 0, 0, time.UTC)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": now.Add(2 * time.Hour).Unix(),
	}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if got := tokenTTL(signed, now); got != 2*time.Hour-time.Minute {
		t.Errorf("Expected 1h59m, got %s", got)
	}
	if got := tokenTTL("not-a-jwt", now); got != defaultTokenTTL {
		t.Errorf("Expected default TTL for opaque token, got %s", got)
	}
}

func TestOperationOf(t *testing.T) {
	tests := map[string]string{
		"/auth/login":               "auth",
		"/schedule?date=2026-02-19": "schedule",
		"/entries/my?show_id=1":     "entries",
		"/entries/11?eid=11":        "entries",
		"/classes/9001?show_id=501": "classes",
		"":                          "unknown",
	}
	for endpoint, want := range tests {
		if got := operationOf(endpoint); got != want {
			t.Errorf("operationOf(%q): expected %s, got %s", endpoint, want, got)
		}
	}
}
