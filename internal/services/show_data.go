package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"showgrounds/paddock/internal/models/dtos"
)

// ShowDataSource is the slice of the show data provider the flows consume.
// providers.ShowgroundsProvider satisfies it.
type ShowDataSource interface {
	GetSchedule(ctx context.Context, token string, date time.Time, customerID string) (*dtos.ScheduleResponse, int, error)
	GetMyEntries(ctx context.Context, token string, showID int, customerID string) (*dtos.MyEntriesResponse, int, error)
	GetEntryDetail(ctx context.Context, token string, entryID, showID int, customerID string) (*dtos.EntryDetailResponse, int, error)
	GetClass(ctx context.Context, token string, classID, showID int, customerID string) (*dtos.ClassStateResponse, int, error)
}

// TokenSource hands out provider bearer tokens
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Invalidate()
}

// Tenant identifies the farm a run works for. It is resolved at the edge
// and passed into every flow.
type Tenant struct {
	FarmName   string
	CustomerID string
}

// CustomerIDValue returns the customer id as stored on the farm row, nil
// when it is blank or not numeric.
func (t Tenant) CustomerIDValue() *int {
	s := strings.TrimSpace(t.CustomerID)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// Clock returns the current instant. Flows take one so tests can pin time.
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}
