package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"showgrounds/paddock/internal/models/dtos/responses"
	"showgrounds/paddock/internal/models/gorm"
)

func TestScheduleView_GroupsByRingAndClass(t *testing.T) {
	f := newMonitorFixture(t)
	f.states[9001] = classState(t, "Underway", "08:00:00", 1, `[
		{"entry_id": 12, "order_of_go": 1},
		{"entry_id": 11, "order_of_go": 5}
	]`)
	f.run(t)

	view, err := NewScheduleViewService(f.store).WithClock(fixedClock).
		View(context.Background(), testTenant, ScheduleViewFilter{})
	require.NoError(t, err)

	assert.Equal(t, "2026-02-19", view.Date)
	require.NotNil(t, view.ShowName)
	assert.Equal(t, "Winter Equestrian Festival", *view.ShowName)

	require.Len(t, view.Events, 1)
	ring := view.Events[0]
	assert.Equal(t, "International Ring", ring.Name)
	require.Len(t, ring.Classes, 2)
	assert.Equal(t, "1.20m Jumper", ring.Classes[0].Name, "class 120 sorts before 130")
	assert.Equal(t, "1.30m Classic", ring.Classes[1].Name)

	jumper := ring.Classes[0]
	require.Len(t, jumper.Entries, 2)
	assert.Equal(t, "Bellamy", jumper.Entries[0].Horse.Name)
	assert.Equal(t, "Cassini", jumper.Entries[1].Horse.Name)
	require.NotNil(t, jumper.Entries[0].Rider)
	assert.Equal(t, "Bo Rider", jumper.Entries[0].Rider.Name)
	require.NotNil(t, jumper.Entries[0].ScheduledDate)
	assert.Equal(t, "2026-02-19", *jumper.Entries[0].ScheduledDate)
}

func TestScheduleView_Filters(t *testing.T) {
	f := newMonitorFixture(t)
	svc := NewScheduleViewService(f.store).WithClock(fixedClock)

	view, err := svc.View(context.Background(), testTenant, ScheduleViewFilter{HorseName: "cass", ClassName: "classic"})
	require.NoError(t, err)
	require.Len(t, view.Events, 1)
	require.Len(t, view.Events[0].Classes, 1)
	assert.Equal(t, "1.30m Classic", view.Events[0].Classes[0].Name)
}

func TestScheduleView_UnknownFarm(t *testing.T) {
	store, _ := openStore(t)

	view, err := NewScheduleViewService(store).WithClock(fixedClock).
		View(context.Background(), testTenant, ScheduleViewFilter{Date: "2026-03-01"})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", view.Date)
	assert.Empty(t, view.Events)
	assert.Nil(t, view.ShowID)
}

func TestBuildScheduleView_SortsRings(t *testing.T) {
	one, two := 1, 2
	class := &gorm.ShowClass{ID: "c1", Name: "Hunter"}
	horse := &gorm.Horse{ID: "h1", Name: "Cassini"}
	entries := []gorm.Entry{
		{ID: "e1", Horse: horse, Class: class, Event: &gorm.Event{ID: "ev-none", Name: "Annex"}},
		{ID: "e2", Horse: horse, Class: class, Event: &gorm.Event{ID: "ev-2", Name: "Main", RingNumber: &two}},
		{ID: "e3", Horse: horse, Class: class, Event: &gorm.Event{ID: "ev-1", Name: "Derby", RingNumber: &one}},
		{ID: "e4", Horse: horse, Class: class},
	}

	out := &responses.ScheduleViewResponse{}
	buildScheduleView(out, entries, ScheduleViewFilter{})

	got := []string{}
	for _, ev := range out.Events {
		got = append(got, ev.Name)
	}
	assert.Equal(t, []string{"Derby", "Main", "Annex"}, got, "numbered rings first, entries without a ring omitted")
}
