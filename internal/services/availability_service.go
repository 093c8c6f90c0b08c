package services

import (
	"context"
	"fmt"
	"time"

	"showgrounds/paddock/internal/constants"
	"showgrounds/paddock/internal/db/repositories"
	"showgrounds/paddock/internal/models/gorm"
)

// AvailabilityService works out when a horse that just finished a trip is
// needed next, and writes that to the notification ledger.
type AvailabilityService struct {
	venue *time.Location
	now   Clock
}

func NewAvailabilityService(venue *time.Location) *AvailabilityService {
	if venue == nil {
		venue = time.UTC
	}
	return &AvailabilityService{venue: venue, now: systemClock}
}

// WithClock replaces the time source
func (s *AvailabilityService) WithClock(c Clock) *AvailabilityService {
	s.now = c
	return s
}

// CompletedTrip identifies the entry whose trip just finished
type CompletedTrip struct {
	FarmID    string
	Entry     *gorm.Entry
	HorseName string
	ClassName string
	RingName  string
}

// Calculate looks up the horse's remaining entries for day and appends one
// horse_availability ledger row. It uses tx for every read and write; the
// caller decides how failures are contained.
func (s *AvailabilityService) Calculate(ctx context.Context, tx *repositories.Store, done CompletedTrip, day time.Time) (map[string]interface{}, error) {
	e := done.Entry
	showID := ""
	if e.ShowID != nil {
		showID = *e.ShowID
	}
	classID := ""
	if e.ClassID != nil {
		classID = *e.ClassID
	}

	remaining, err := tx.Entries.RemainingForHorse(ctx, e.HorseID, showID, e.ID, day)
	if err != nil {
		return nil, err
	}

	var next *NextClass
	if len(remaining) > 0 {
		next = s.nextClass(&remaining[0])
	}

	payload := map[string]interface{}{
		"horse_id":           e.HorseID,
		"horse_name":         done.HorseName,
		"completed_class_id": classID,
		"completed_entry_id": e.ID,
		"show_id":            showID,
		"has_next":           next != nil,
		"free_hours":         nil,
		"free_mins":          nil,
	}
	if next != nil {
		payload["free_hours"] = next.FreeHours
		payload["free_mins"] = next.FreeMins
		payload["next_class_name"] = next.ClassName
		payload["next_class_time"] = next.Time
		payload["next_ring_name"] = next.RingName
		payload["order_of_go"] = next.OrderOfGo
		payload["order_total"] = next.OrderTotal
	}

	msg := FormatAvailability(done.HorseName, done.ClassName, done.RingName, next)
	entryID := e.ID
	if _, err := tx.Notifications.Append(ctx, done.FarmID,
		constants.SourceHorseAvailability, constants.NotificationHorseCompleted,
		msg, payload, &entryID); err != nil {
		return nil, fmt.Errorf("log availability: %w", err)
	}

	payload["message"] = msg
	return payload, nil
}

func (s *AvailabilityService) nextClass(n *gorm.Entry) *NextClass {
	next := &NextClass{
		ClassName:  constants.UnknownClass,
		RingName:   constants.UnknownRing,
		OrderOfGo:  n.OrderOfGo,
		OrderTotal: n.OrderTotal,
	}
	if n.Class != nil && n.Class.Name != "" {
		next.ClassName = n.Class.Name
	}
	if n.Event != nil && n.Event.Name != "" {
		next.RingName = n.Event.Name
	}

	var scheduled *time.Time
	if n.ScheduledDate != nil {
		d := time.Time(*n.ScheduledDate)
		scheduled = &d
	}
	next.Time = formatTimeDisplay(n.EstimatedStart, scheduled)

	if at, ok := parseEstimatedStartLocal(n.EstimatedStart, scheduled, s.venue); ok {
		free := at.Sub(s.now())
		if free < 0 {
			free = 0
		}
		mins := int(free / time.Minute)
		h, m := mins/60, mins%60
		next.FreeHours = &h
		next.FreeMins = &m
	}
	return next
}
