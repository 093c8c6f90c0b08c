package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"showgrounds/paddock/internal/constants"
	"showgrounds/paddock/internal/db/repositories"
	"showgrounds/paddock/internal/models/dtos/responses"
	"showgrounds/paddock/internal/models/gorm"
)

// ScheduleViewFilter narrows the day view. Empty fields match everything.
type ScheduleViewFilter struct {
	Date      string
	HorseName string
	ClassName string
}

// ScheduleViewService builds the ring → class → entry view of one day
type ScheduleViewService struct {
	store *repositories.Store
	now   Clock
}

func NewScheduleViewService(store *repositories.Store) *ScheduleViewService {
	return &ScheduleViewService{store: store, now: systemClock}
}

func (s *ScheduleViewService) WithClock(c Clock) *ScheduleViewService {
	s.now = c
	return s
}

func (s *ScheduleViewService) View(ctx context.Context, tenant Tenant, f ScheduleViewFilter) (*responses.ScheduleViewResponse, error) {
	day := ResolveRunDate(f.Date, s.now())
	out := &responses.ScheduleViewResponse{
		Date:   day.Format(constants.DateLayout),
		Events: []responses.EventView{},
	}

	farm, err := s.store.Farms.Find(ctx, tenant.FarmName, tenant.CustomerIDValue())
	if err != nil {
		return nil, err
	}
	if farm == nil {
		return out, nil
	}

	entries, err := s.store.Entries.ListForDay(ctx, farm.ID, day)
	if err != nil {
		return nil, err
	}
	buildScheduleView(out, entries, f)
	return out, nil
}

func containsFold(s, sub string) bool {
	sub = strings.TrimSpace(sub)
	return sub == "" || strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func buildScheduleView(out *responses.ScheduleViewResponse, entries []gorm.Entry, f ScheduleViewFilter) {
	type classBucket struct {
		view    responses.ClassView
		entries []*gorm.Entry
	}
	type eventBucket struct {
		view    responses.EventView
		classes map[string]*classBucket
	}
	events := make(map[string]*eventBucket)

	for i := range entries {
		e := &entries[i]
		if out.ShowID == nil && e.Show != nil {
			out.ShowID = strPtr(e.Show.ID)
			out.ShowName = strPtr(e.Show.Name)
		}
		if e.Event == nil || e.Class == nil {
			continue
		}
		if e.Horse == nil || !containsFold(e.Horse.Name, f.HorseName) || !containsFold(e.Class.Name, f.ClassName) {
			continue
		}

		eb, ok := events[e.Event.ID]
		if !ok {
			eb = &eventBucket{
				view: responses.EventView{
					ID:         e.Event.ID,
					Name:       e.Event.Name,
					RingNumber: e.Event.RingNumber,
				},
				classes: make(map[string]*classBucket),
			}
			events[e.Event.ID] = eb
		}
		cb, ok := eb.classes[e.Class.ID]
		if !ok {
			cb = &classBucket{view: responses.ClassView{
				ID:          e.Class.ID,
				Name:        e.Class.Name,
				ClassNumber: e.Class.ClassNumber,
				Sponsor:     e.Class.Sponsor,
				PrizeMoney:  e.Class.PrizeMoney,
				ClassType:   e.Class.ClassType,
			}}
			eb.classes[e.Class.ID] = cb
		}
		cb.entries = append(cb.entries, e)
	}

	for _, eb := range events {
		for _, cb := range eb.classes {
			sort.SliceStable(cb.entries, func(i, j int) bool {
				a, b := cb.entries[i].OrderOfGo, cb.entries[j].OrderOfGo
				if a == nil || b == nil {
					return a != nil && b == nil
				}
				return *a < *b
			})
			cb.view.Entries = make([]responses.EntryView, 0, len(cb.entries))
			for _, e := range cb.entries {
				cb.view.Entries = append(cb.view.Entries, entryView(e))
			}
			eb.view.Classes = append(eb.view.Classes, cb.view)
		}
		sort.SliceStable(eb.view.Classes, func(i, j int) bool {
			a, b := eb.view.Classes[i], eb.view.Classes[j]
			an, bn := strOr(a.ClassNumber, ""), strOr(b.ClassNumber, "")
			if an != bn {
				return an < bn
			}
			return a.Name < b.Name
		})
		out.Events = append(out.Events, eb.view)
	}

	sort.SliceStable(out.Events, func(i, j int) bool {
		a, b := out.Events[i], out.Events[j]
		switch {
		case a.RingNumber == nil && b.RingNumber != nil:
			return false
		case a.RingNumber != nil && b.RingNumber == nil:
			return true
		case a.RingNumber != nil && *a.RingNumber != *b.RingNumber:
			return *a.RingNumber < *b.RingNumber
		}
		return a.Name < b.Name
	})
}

func entryView(e *gorm.Entry) responses.EntryView {
	v := responses.EntryView{
		ID:                  e.ID,
		BackNumber:          e.BackNumber,
		OrderOfGo:           e.OrderOfGo,
		OrderTotal:          e.OrderTotal,
		Status:              string(e.Status),
		ScratchTrip:         e.ScratchTrip,
		GoneIn:              e.GoneIn,
		EstimatedStart:      e.EstimatedStart,
		ActualStart:         e.ActualStart,
		ClassStatus:         e.ClassStatus,
		RingStatus:          e.RingStatus,
		TotalTrips:          e.TotalTrips,
		CompletedTrips:      e.CompletedTrips,
		RemainingTrips:      e.RemainingTrips,
		Placing:             e.Placing,
		PointsEarned:        e.PointsEarned,
		TotalPrizeMoney:     e.TotalPrizeMoney,
		FaultsOne:           e.FaultsOne,
		TimeOne:             e.TimeOne,
		DisqualifyStatusOne: e.DisqualifyStatusOne,
		FaultsTwo:           e.FaultsTwo,
		TimeTwo:             e.TimeTwo,
		DisqualifyStatusTwo: e.DisqualifyStatusTwo,
		Score1:              e.Score1,
		Score2:              e.Score2,
		Score3:              e.Score3,
		Score4:              e.Score4,
		Score5:              e.Score5,
		Score6:              e.Score6,
	}
	if e.Horse != nil {
		v.Horse = responses.HorseView{ID: e.Horse.ID, Name: e.Horse.Name, Status: e.Horse.Status}
	}
	if e.Rider != nil {
		v.Rider = &responses.RiderView{ID: e.Rider.ID, Name: e.Rider.Name}
	}
	if e.ScheduledDate != nil {
		v.ScheduledDate = strPtr(time.Time(*e.ScheduledDate).Format(constants.DateLayout))
	}
	return v
}
