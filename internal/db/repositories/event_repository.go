package repositories

import (
	"context"
	"fmt"
	"strings"

	"showgrounds/paddock/internal/models/gorm"

	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ring is one ring from the day's schedule
type Ring struct {
	Name   string
	Number *int
}

// EventRepo handles events (rings) table operations
type EventRepo struct {
	db *gormlib.DB
}

// NewEventRepo creates a new event repository
func NewEventRepo(db *gormlib.DB) *EventRepo {
	return &EventRepo{db: db}
}

// UpsertRings inserts rings not seen before for the farm.
// ON CONFLICT (farm_id, name) DO NOTHING, so a stored ring_number is never rewritten.
func (r *EventRepo) UpsertRings(ctx context.Context, farmID string, rings []Ring) (int64, error) {
	seen := make(map[string]struct{}, len(rings))
	rows := make([]gorm.Event, 0, len(rings))
	for _, ring := range rings {
		name := strings.TrimSpace(ring.Name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		rows = append(rows, gorm.Event{FarmID: farmID, Name: name, RingNumber: ring.Number})
	}
	if len(rows) == 0 {
		return 0, nil
	}

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   columns("farm_id", "name"),
			DoNothing: true,
		}).
		Create(&rows)
	if res.Error != nil {
		return 0, fmt.Errorf("upsert events: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// RingNumberMap maps today's ring numbers to event ids through the ring names
// reported alongside them.
func (r *EventRepo) RingNumberMap(ctx context.Context, farmID string, rings []Ring) (map[int]string, error) {
	names := make([]string, 0, len(rings))
	for _, ring := range rings {
		names = append(names, ring.Name)
	}
	byName, err := resolveNames(ctx, r.db, &gorm.Event{}, farmID, names)
	if err != nil {
		return nil, fmt.Errorf("resolve events: %w", err)
	}

	out := make(map[int]string, len(rings))
	for _, ring := range rings {
		if ring.Number == nil {
			continue
		}
		if id, ok := byName[strings.TrimSpace(ring.Name)]; ok {
			out[*ring.Number] = id
		}
	}
	return out, nil
}
