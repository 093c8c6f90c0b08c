package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"showgrounds/paddock/internal/constants"
	"showgrounds/paddock/internal/models/dtos"
	"showgrounds/paddock/internal/models/gorm"
	"showgrounds/paddock/internal/providers"
)

func TestMorningSync_FullShow(t *testing.T) {
	store, gdb := openStore(t)
	svc := NewMorningSyncService(store, newShowSource(t), &fakeTokens{}, nil).WithClock(fixedClock)

	resp, err := svc.Run(context.Background(), testTenant, "", constants.TriggerManual)
	require.NoError(t, err)

	assert.Equal(t, constants.TaskCompleted, resp.Task)
	assert.Equal(t, constants.TriggerManual, resp.Trigger)

	s := resp.Summary
	assert.Equal(t, "2026-02-19", s.Date)
	assert.Equal(t, "Winter Equestrian Festival", s.ShowName)
	assert.Equal(t, 2, s.UniqueHorseCount)
	assert.Equal(t, 2, s.UniqueClassCount)
	assert.Equal(t, 3, s.TotalSyncedEntries)
	assert.Equal(t, s.TotalSyncedEntries, s.TotalClassEntries)
	assert.Equal(t, 1, s.UniqueRingCount)
	require.NotNil(t, s.FirstClass)
	require.NotNil(t, s.LastClass)
	assert.Equal(t, "2026-02-19 08:00:00", s.FirstClass.Time)
	assert.Equal(t, "International Ring", s.FirstClass.RingName)
	assert.Equal(t, "2026-02-19 14:30:00", s.LastClass.Time)

	c := s.Counts
	assert.Equal(t, 1, c.Show.Inserted)
	assert.Equal(t, 2, c.Rings.FromAPI)
	assert.Equal(t, 2, c.Rings.Inserted)
	assert.Equal(t, 2, c.Classes.FromAPI, "duplicate, unnamed and empty classes are skipped")
	assert.Equal(t, 2, c.Horses.Inserted)
	assert.Equal(t, 2, c.Riders.Inserted)
	assert.Equal(t, 2, c.Entries.FromAPI)
	assert.Equal(t, 3, c.Entries.Inserted)
	assert.Equal(t, 0, c.Entries.UnresolvedHorses)

	assert.EqualValues(t, 1, countRows(t, gdb, &gorm.Farm{}))
	assert.EqualValues(t, 1, countRows(t, gdb, &gorm.Show{}))
	assert.EqualValues(t, 2, countRows(t, gdb, &gorm.Event{}))
	assert.EqualValues(t, 2, countRows(t, gdb, &gorm.ShowClass{}))
	assert.EqualValues(t, 3, countRows(t, gdb, &gorm.Entry{}))

	var bellamy gorm.Entry
	require.NoError(t, gdb.Preload("Rider").Preload("Horse").Preload("Class").Preload("Event").
		Joins("JOIN horses ON horses.id = entries.horse_id").
		Where("horses.name = ?", "Bellamy").First(&bellamy).Error)
	require.NotNil(t, bellamy.Rider)
	assert.Equal(t, "Bo Rider", bellamy.Rider.Name, "class without rider_name falls back to the first entry rider")
	assert.Equal(t, "1.20m Jumper", bellamy.Class.Name)
	assert.Equal(t, "International Ring", bellamy.Event.Name)
	assert.Equal(t, constants.EntryStatusActive, bellamy.Status)
	require.NotNil(t, bellamy.EstimatedStart)
	assert.Equal(t, "2026-02-19 08:00:00", *bellamy.EstimatedStart)
	require.NotNil(t, bellamy.BackNumber)
	assert.Equal(t, "102", *bellamy.BackNumber)

	last, err := store.SyncHistory.GetLast(context.Background(), bellamy.Horse.FarmID, constants.SyncEventMorningSync)
	require.NoError(t, err)
	require.NotNil(t, last)
}

func TestMorningSync_Idempotent(t *testing.T) {
	store, gdb := openStore(t)
	svc := NewMorningSyncService(store, newShowSource(t), &fakeTokens{}, nil).WithClock(fixedClock)
	ctx := context.Background()

	_, err := svc.Run(ctx, testTenant, "2026-02-19", constants.TriggerDaily)
	require.NoError(t, err)

	var before []gorm.Entry
	require.NoError(t, gdb.Order("id").Find(&before).Error)

	resp, err := svc.Run(ctx, testTenant, "2026-02-19", constants.TriggerDaily)
	require.NoError(t, err)

	c := resp.Summary.Counts
	assert.Equal(t, 0, c.Show.Inserted)
	assert.Equal(t, 1, c.Show.Updated)
	assert.Equal(t, 0, c.Rings.Inserted)
	assert.Equal(t, 0, c.Classes.Inserted)
	assert.Equal(t, 0, c.Horses.Inserted)
	assert.Equal(t, 0, c.Riders.Inserted)
	assert.Equal(t, 0, c.Entries.Inserted)
	assert.Equal(t, 3, c.Entries.Updated)
	assert.EqualValues(t, 0, c.Entries.Pruned)

	var after []gorm.Entry
	require.NoError(t, gdb.Order("id").Find(&after).Error)
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
		assert.Equal(t, before[i].HorseID, after[i].HorseID)
		assert.Equal(t, before[i].ClassID, after[i].ClassID)
		assert.Equal(t, before[i].APIClassID, after[i].APIClassID)
	}
}

func TestMorningSync_OneClassTwoHorses(t *testing.T) {
	store, gdb := openStore(t)
	src := newShowSource(t)
	src.GetScheduleFn = func(ctx context.Context, date time.Time) (*dtos.ScheduleResponse, error) {
		return decode[dtos.ScheduleResponse](t, `{
  "show": {"show_id": 501, "show_name": "Spring Classic"},
  "rings": [{"ring_name": "Ring 1", "ring_number": 1, "classes": [
    {"class_id": 9001, "class_name": "1.20m Jumper", "class_number": "120", "total_trips": 12}
  ]}]
}`), nil
	}
	src.GetEntryDetailFn = func(ctx context.Context, entryID, showID int) (*dtos.EntryDetailResponse, error) {
		horse := map[int]string{11: "Cassini", 12: "Bellamy"}[entryID]
		return decode[dtos.EntryDetailResponse](t, `{
  "entry": {"entry_id": 1, "horse": "`+horse+`"},
  "classes": [{"class_id": 9001, "name": "1.20m Jumper", "class_number": "120", "rider_name": "Ann Rider", "ring": 1, "scheduled_date": "2026-02-19", "schedule_starttime": "09:00:00"}],
  "entry_riders": [{"rider_name": "Ann Rider"}]
}`), nil
	}

	resp, err := NewMorningSyncService(store, src, &fakeTokens{}, nil).WithClock(fixedClock).
		Run(context.Background(), testTenant, "", constants.TriggerManual)
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Summary.TotalSyncedEntries)
	assert.EqualValues(t, 1, countRows(t, gdb, &gorm.Show{}))
	assert.EqualValues(t, 1, countRows(t, gdb, &gorm.Event{}))
	assert.EqualValues(t, 1, countRows(t, gdb, &gorm.ShowClass{}))
	assert.EqualValues(t, 2, countRows(t, gdb, &gorm.Horse{}))
	assert.LessOrEqual(t, countRows(t, gdb, &gorm.Rider{}), int64(2))
	assert.EqualValues(t, 2, countRows(t, gdb, &gorm.Entry{}))
}

func TestMorningSync_EntryWithoutClassesIsInactive(t *testing.T) {
	store, gdb := openStore(t)
	src := newShowSource(t)
	src.GetMyEntriesFn = func(ctx context.Context, showID int) (*dtos.MyEntriesResponse, error) {
		return decode[dtos.MyEntriesResponse](t, `{"entries": [{"entry_id": 40}]}`), nil
	}

	_, err := NewMorningSyncService(store, src, &fakeTokens{}, nil).WithClock(fixedClock).
		Run(context.Background(), testTenant, "", constants.TriggerManual)
	require.NoError(t, err)

	var rows []gorm.Entry
	require.NoError(t, gdb.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, constants.EntryStatusInactive, rows[0].Status)
	assert.Nil(t, rows[0].ClassID)
	assert.Nil(t, rows[0].APIClassID)
	require.NotNil(t, rows[0].ScheduledDate)
	assert.Equal(t, "2026-02-19", time.Time(*rows[0].ScheduledDate).Format(constants.DateLayout))
}

func TestMorningSync_MissingShowID(t *testing.T) {
	store, gdb := openStore(t)
	src := newShowSource(t)
	src.GetScheduleFn = func(ctx context.Context, date time.Time) (*dtos.ScheduleResponse, error) {
		return decode[dtos.ScheduleResponse](t, `{"show": {"show_name": "No Id"}, "rings": []}`), nil
	}

	_, err := NewMorningSyncService(store, src, &fakeTokens{}, nil).WithClock(fixedClock).
		Run(context.Background(), testTenant, "", constants.TriggerManual)
	require.Error(t, err)
	assert.Equal(t, constants.ErrCodeMissingShowID, providers.ErrorCode(err))
	assert.EqualValues(t, 0, countRows(t, gdb, &gorm.Farm{}), "nothing is written before the network phase succeeds")
}

func TestMorningSync_EntryDetailFailureAbortsRun(t *testing.T) {
	store, gdb := openStore(t)
	src := newShowSource(t)
	src.GetEntryDetailFn = func(ctx context.Context, entryID, showID int) (*dtos.EntryDetailResponse, error) {
		if entryID == 12 {
			return nil, &providers.ProviderError{Code: constants.ErrCodeUpstreamError, StatusCode: 502}
		}
		return decode[dtos.EntryDetailResponse](t, entryDetailJSON(entryID)), nil
	}

	_, err := NewMorningSyncService(store, src, &fakeTokens{}, nil).WithClock(fixedClock).
		Run(context.Background(), testTenant, "", constants.TriggerManual)
	require.Error(t, err)
	assert.EqualValues(t, 0, countRows(t, gdb, &gorm.Show{}))
	assert.EqualValues(t, 0, countRows(t, gdb, &gorm.Entry{}))
}

func TestMorningSync_UnresolvedHorseIsDropped(t *testing.T) {
	store, gdb := openStore(t)
	src := newShowSource(t)
	src.GetEntryDetailFn = func(ctx context.Context, entryID, showID int) (*dtos.EntryDetailResponse, error) {
		raw := entryDetailJSON(entryID)
		if entryID == 12 {
			raw = strings.Replace(raw, `"horse": "Bellamy"`, `"horse": "  "`, 1)
		}
		return decode[dtos.EntryDetailResponse](t, raw), nil
	}

	resp, err := NewMorningSyncService(store, src, &fakeTokens{}, nil).WithClock(fixedClock).
		Run(context.Background(), testTenant, "", constants.TriggerManual)
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Summary.Counts.Entries.UnresolvedHorses)
	assert.Equal(t, 2, resp.Summary.TotalSyncedEntries)
	assert.EqualValues(t, 2, countRows(t, gdb, &gorm.Entry{}))

	var cassini int64
	require.NoError(t, gdb.Model(&gorm.Entry{}).
		Joins("JOIN horses ON horses.id = entries.horse_id").
		Where("horses.name = ?", "Cassini").Count(&cassini).Error)
	assert.EqualValues(t, 2, cassini, "the blank-named row is not attributed to another horse")
}

func TestMorningSync_WriteFailureRollsBackEverything(t *testing.T) {
	store, gdb := openStore(t)
	failCreates(t, gdb, "sync_history", nil)

	_, err := NewMorningSyncService(store, newShowSource(t), &fakeTokens{}, nil).WithClock(fixedClock).
		Run(context.Background(), testTenant, "", constants.TriggerManual)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sync_history insert rejected")

	assert.EqualValues(t, 0, countRows(t, gdb, &gorm.Show{}))
	assert.EqualValues(t, 0, countRows(t, gdb, &gorm.Event{}))
	assert.EqualValues(t, 0, countRows(t, gdb, &gorm.ShowClass{}))
	assert.EqualValues(t, 0, countRows(t, gdb, &gorm.Horse{}))
	assert.EqualValues(t, 0, countRows(t, gdb, &gorm.Entry{}))
}

func TestMorningSync_AuthFailureInvalidatesToken(t *testing.T) {
	store, _ := openStore(t)
	src := newShowSource(t)
	src.GetScheduleFn = func(ctx context.Context, date time.Time) (*dtos.ScheduleResponse, error) {
		return nil, &providers.ProviderError{Code: constants.ErrCodeAuthenticationFailed, StatusCode: 401}
	}
	tokens := &fakeTokens{}

	_, err := NewMorningSyncService(store, src, tokens, nil).WithClock(fixedClock).
		Run(context.Background(), testTenant, "", constants.TriggerManual)
	require.Error(t, err)
	assert.Equal(t, 1, tokens.invalidated)
}

func TestMorningSync_LoginFailure(t *testing.T) {
	store, _ := openStore(t)
	tokens := &fakeTokens{err: errors.New("connection refused")}

	_, err := NewMorningSyncService(store, newShowSource(t), tokens, nil).WithClock(fixedClock).
		Run(context.Background(), testTenant, "", constants.TriggerManual)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider login")
}

func TestMorningSync_PrunesDroppedEntries(t *testing.T) {
	store, gdb := openStore(t)
	src := newShowSource(t)
	svc := NewMorningSyncService(store, src, &fakeTokens{}, nil).WithClock(fixedClock)
	ctx := context.Background()

	_, err := svc.Run(ctx, testTenant, "", constants.TriggerManual)
	require.NoError(t, err)
	require.EqualValues(t, 3, countRows(t, gdb, &gorm.Entry{}))

	// Bellamy was withdrawn from the show
	src.GetMyEntriesFn = func(ctx context.Context, showID int) (*dtos.MyEntriesResponse, error) {
		return decode[dtos.MyEntriesResponse](t, `{"entries": [{"entry_id": 11}]}`), nil
	}
	resp, err := svc.Run(ctx, testTenant, "", constants.TriggerManual)
	require.NoError(t, err)

	assert.EqualValues(t, 1, resp.Summary.Counts.Entries.Pruned)
	assert.EqualValues(t, 2, countRows(t, gdb, &gorm.Entry{}))
}
