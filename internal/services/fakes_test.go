package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"showgrounds/paddock/internal/db/dbtest"
	"showgrounds/paddock/internal/db/repositories"
	"showgrounds/paddock/internal/models/dtos"

	gormlib "gorm.io/gorm"
)

type fakeSource struct {
	GetScheduleFn    func(ctx context.Context, date time.Time) (*dtos.ScheduleResponse, error)
	GetMyEntriesFn   func(ctx context.Context, showID int) (*dtos.MyEntriesResponse, error)
	GetEntryDetailFn func(ctx context.Context, entryID, showID int) (*dtos.EntryDetailResponse, error)
	GetClassFn       func(ctx context.Context, classID, showID int) (*dtos.ClassStateResponse, error)

	mu         sync.Mutex
	classCalls int
}

func (f *fakeSource) GetSchedule(ctx context.Context, token string, date time.Time, customerID string) (*dtos.ScheduleResponse, int, error) {
	r, err := f.GetScheduleFn(ctx, date)
	return r, 200, err
}

func (f *fakeSource) GetMyEntries(ctx context.Context, token string, showID int, customerID string) (*dtos.MyEntriesResponse, int, error) {
	r, err := f.GetMyEntriesFn(ctx, showID)
	return r, 200, err
}

func (f *fakeSource) GetEntryDetail(ctx context.Context, token string, entryID, showID int, customerID string) (*dtos.EntryDetailResponse, int, error) {
	r, err := f.GetEntryDetailFn(ctx, entryID, showID)
	return r, 200, err
}

func (f *fakeSource) GetClass(ctx context.Context, token string, classID, showID int, customerID string) (*dtos.ClassStateResponse, int, error) {
	f.mu.Lock()
	f.classCalls++
	f.mu.Unlock()
	r, err := f.GetClassFn(ctx, classID, showID)
	return r, 200, err
}

type fakeTokens struct {
	err         error
	invalidated int
}

func (f *fakeTokens) Token(ctx context.Context) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "test-token", nil
}

func (f *fakeTokens) Invalidate() { f.invalidated++ }

var (
	testTenant = Tenant{FarmName: "Hollow Creek Farm", CustomerID: "15"}
	testNow    = time.Date(2026, 2, 19, 12, 0, 0, 0, time.UTC)
)

func fixedClock() time.Time { return testNow }

func decode[T any](t *testing.T, raw string) *T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("Failed to decode fixture: %v", err)
	}
	return &v
}

func openStore(t *testing.T) (*repositories.Store, *gormlib.DB) {
	t.Helper()
	gdb, _ := dbtest.Open(t)
	return repositories.NewStore(gdb), gdb
}

// failCreates makes every insert into table fail while match accepts the
// row being written. match may be nil.
func failCreates(t *testing.T, gdb *gormlib.DB, table string, match func(dest interface{}) bool) {
	t.Helper()
	name := "test:fail_" + table
	err := gdb.Callback().Create().Before("gorm:create").Register(name, func(tx *gormlib.DB) {
		if tx.Statement.Table != table {
			return
		}
		if match == nil || match(tx.Statement.Dest) {
			_ = tx.AddError(fmt.Errorf("%s insert rejected", table))
		}
	})
	if err != nil {
		t.Fatalf("Failed to register callback: %v", err)
	}
}

func countRows(t *testing.T, gdb *gormlib.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := gdb.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	return n
}

const scheduleJSON = `{
  "show": {"show_id": 501, "show_name": "Winter Equestrian Festival", "start_date": "2026-02-18", "end_date": "2026-02-22"},
  "rings": [
    {"ring_name": "International Ring", "ring_number": 1, "classes": [
      {"class_id": 9001, "class_name": "1.20m Jumper", "class_number": "120", "total_trips": 30, "sponsor": "Acme", "prize_money": "2500.00"},
      {"class_id": 9001, "class_name": "1.20m Jumper duplicate", "class_number": "120", "total_trips": 30},
      {"class_id": 9002, "class_name": "1.30m Classic", "class_number": " 130 ", "total_trips": 25},
      {"class_id": 9003, "class_name": "", "total_trips": 10},
      {"class_id": 9004, "class_name": "Cancelled Hunter", "total_trips": 0}
    ]},
    {"ring_name": "Grand Prix Ring", "ring_number": 2, "classes": []}
  ]
}`

const entriesJSON = `{"entries": [{"entry_id": 11, "horse": "Cassini", "number": "101"}, {"entry_id": 12, "horse": "Bellamy", "number": "102"}]}`

// entry 11 jumps two classes, entry 12 one
func entryDetailJSON(entryID int) string {
	switch entryID {
	case 11:
		return `{
  "entry": {"entry_id": 11, "horse_id": 701, "horse": "Cassini", "number": "101", "trainer_id": 55},
  "classes": [
    {"class_id": 9001, "name": "1.20m Jumper", "class_number": "120", "rider_name": "Ann Rider", "rider_id": 801, "ring": 1, "scheduled_date": "2026-02-19", "schedule_starttime": "08:00:00"},
    {"class_id": 9002, "name": "1.30m Classic", "class_number": "130", "rider_name": "Ann Rider", "rider_id": 801, "ring": 1, "scheduled_date": "2026-02-19", "schedule_starttime": "14:30:00.000"}
  ],
  "entry_riders": [{"rider_name": "Ann Rider", "rider_id": 801}]
}`
	case 12:
		return `{
  "entry": {"entry_id": 12, "horse_id": 702, "horse": "Bellamy", "number": "102"},
  "classes": [
    {"class_id": 9001, "name": "1.20m Jumper", "class_number": "120", "rider_name": "", "ring": 1, "scheduled_date": "2026-02-19", "schedule_starttime": "08:00:00"}
  ],
  "entry_riders": [{"rider_name": "Bo Rider", "rider_id": 802}]
}`
	}
	return fmt.Sprintf(`{"entry": {"entry_id": %d, "horse": "Spare %d"}, "classes": [], "entry_riders": []}`, entryID, entryID)
}

func newShowSource(t *testing.T) *fakeSource {
	return &fakeSource{
		GetScheduleFn: func(ctx context.Context, date time.Time) (*dtos.ScheduleResponse, error) {
			return decode[dtos.ScheduleResponse](t, scheduleJSON), nil
		},
		GetMyEntriesFn: func(ctx context.Context, showID int) (*dtos.MyEntriesResponse, error) {
			if showID != 501 {
				return nil, errors.New("unexpected show id")
			}
			return decode[dtos.MyEntriesResponse](t, entriesJSON), nil
		},
		GetEntryDetailFn: func(ctx context.Context, entryID, showID int) (*dtos.EntryDetailResponse, error) {
			return decode[dtos.EntryDetailResponse](t, entryDetailJSON(entryID)), nil
		},
	}
}

// classState renders a class state payload. trips is a raw JSON array; a
// negative completed count is sent as null.
func classState(t *testing.T, status, estimated string, completed int, trips string) *dtos.ClassStateResponse {
	t.Helper()
	completedJSON, remainingJSON := "null", "null"
	if completed >= 0 {
		completedJSON, remainingJSON = fmt.Sprint(completed), fmt.Sprint(30-completed)
	}
	raw := fmt.Sprintf(`{
  "class_related_data": {"status": %q, "estimated_time": %q, "actual_time": null, "total_trips": 30, "completed_trips": %s, "remaining_trips": %s},
  "trips": %s
}`, status, estimated, completedJSON, remainingJSON, trips)
	return decode[dtos.ClassStateResponse](t, raw)
}
