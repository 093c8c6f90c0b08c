package repositories

import (
	"context"
	"fmt"
	"time"

	"showgrounds/paddock/internal/constants"
	"showgrounds/paddock/internal/models/gorm"

	"gorm.io/datatypes"
	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EntryKey is the two-tier natural key of an entry: (horse, show, provider
// class id) when the class id is known, (horse, show) otherwise.
type EntryKey struct {
	HorseID    string
	ShowID     string
	APIClassID int
	HasClass   bool
}

// EntryKeyOf builds the natural key of an entry row
func EntryKeyOf(e *gorm.Entry) EntryKey {
	key := EntryKey{HorseID: e.HorseID}
	if e.ShowID != nil {
		key.ShowID = *e.ShowID
	}
	if e.APIClassID != nil {
		key.APIClassID = *e.APIClassID
		key.HasClass = true
	}
	return key
}

// Day normalizes t to a UTC calendar date for date-column comparisons
func Day(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// Columns the morning sync may refresh on an existing entry. Live state is
// owned by class monitoring and never appears here.
var entrySyncColumns = []string{
	"rider_id", "event_id", "class_id",
	"api_entry_id", "api_horse_id", "api_rider_id", "api_ring_id", "api_trainer_id",
	"back_number", "scheduled_date", "estimated_start", "updated_at",
}

// EntryRepo handles entries table operations
type EntryRepo struct {
	db *gormlib.DB
}

// NewEntryRepo creates a new entry repository
func NewEntryRepo(db *gormlib.DB) *EntryRepo {
	return &EntryRepo{db: db}
}

type entryKeyRow struct {
	ID         string  `gorm:"column:id"`
	HorseID    string  `gorm:"column:horse_id"`
	ShowID     *string `gorm:"column:show_id"`
	APIClassID *int    `gorm:"column:api_class_id"`
}

func (row entryKeyRow) key() EntryKey {
	return EntryKeyOf(&gorm.Entry{HorseID: row.HorseID, ShowID: row.ShowID, APIClassID: row.APIClassID})
}

// UpsertMany writes entries under the two-tier key. Each tier goes through
// its own partial unique index. Rows sharing a key collapse to the last one.
func (r *EntryRepo) UpsertMany(ctx context.Context, rows []gorm.Entry) (inserted, updated int, err error) {
	if len(rows) == 0 {
		return 0, 0, nil
	}

	latest := make(map[EntryKey]gorm.Entry, len(rows))
	var order []EntryKey
	showIDs := make(map[string]struct{})
	for _, row := range rows {
		key := EntryKeyOf(&row)
		if _, ok := latest[key]; !ok {
			order = append(order, key)
		}
		latest[key] = row
		showIDs[key.ShowID] = struct{}{}
	}

	existing, err := r.keysForShows(ctx, showIDs)
	if err != nil {
		return 0, 0, err
	}

	var withClass, withoutClass []gorm.Entry
	for _, key := range order {
		if key.HasClass {
			withClass = append(withClass, latest[key])
		} else {
			withoutClass = append(withoutClass, latest[key])
		}
		if _, ok := existing[key]; ok {
			updated++
		} else {
			inserted++
		}
	}

	if len(withClass) > 0 {
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:     columns("horse_id", "show_id", "api_class_id"),
				TargetWhere: partialTarget("api_class_id IS NOT NULL"),
				DoUpdates:   clause.AssignmentColumns(entrySyncColumns),
			}).
			Omit(clause.Associations).
			CreateInBatches(&withClass, 100).Error
		if err != nil {
			return 0, 0, fmt.Errorf("upsert class entries: %w", err)
		}
	}
	if len(withoutClass) > 0 {
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:     columns("horse_id", "show_id"),
				TargetWhere: partialTarget("api_class_id IS NULL"),
				DoUpdates:   clause.AssignmentColumns(entrySyncColumns),
			}).
			Omit(clause.Associations).
			CreateInBatches(&withoutClass, 100).Error
		if err != nil {
			return 0, 0, fmt.Errorf("upsert inactive entries: %w", err)
		}
	}
	return inserted, updated, nil
}

func (r *EntryRepo) keysForShows(ctx context.Context, showIDs map[string]struct{}) (map[EntryKey]string, error) {
	ids := make([]string, 0, len(showIDs))
	for id := range showIDs {
		if id != "" {
			ids = append(ids, id)
		}
	}

	out := make(map[EntryKey]string)
	for _, part := range chunk(ids, inChunk) {
		var rows []entryKeyRow
		err := r.db.WithContext(ctx).
			Model(&gorm.Entry{}).
			Select("id, horse_id, show_id, api_class_id").
			Where("show_id IN ?", part).
			Scan(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("load entry keys: %w", err)
		}
		for _, row := range rows {
			out[row.key()] = row.ID
		}
	}
	return out, nil
}

// Prune deletes entries of the show scheduled on one of days whose key is not
// in keep. Rows with no scheduled_date are never touched. Ledger rows that
// referenced a pruned entry keep their content and lose the reference.
func (r *EntryRepo) Prune(ctx context.Context, showID string, days []time.Time, keep map[EntryKey]struct{}) (int64, error) {
	if len(days) == 0 {
		return 0, nil
	}
	dates := make([]datatypes.Date, 0, len(days))
	for _, d := range days {
		dates = append(dates, Day(d))
	}

	var rows []entryKeyRow
	err := r.db.WithContext(ctx).
		Model(&gorm.Entry{}).
		Select("id, horse_id, show_id, api_class_id").
		Where("show_id = ? AND scheduled_date IN ?", showID, dates).
		Scan(&rows).Error
	if err != nil {
		return 0, fmt.Errorf("load entries to prune: %w", err)
	}

	var stale []string
	for _, row := range rows {
		if _, ok := keep[row.key()]; !ok {
			stale = append(stale, row.ID)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}

	var deleted int64
	for _, part := range chunk(stale, inChunk) {
		err := r.db.WithContext(ctx).
			Model(&gorm.NotificationLog{}).
			Where("entry_id IN ?", part).
			Update("entry_id", nil).Error
		if err != nil {
			return 0, fmt.Errorf("detach ledger rows: %w", err)
		}
		res := r.db.WithContext(ctx).Where("id IN ?", part).Delete(&gorm.Entry{})
		if res.Error != nil {
			return 0, fmt.Errorf("delete stale entries: %w", res.Error)
		}
		deleted += res.RowsAffected
	}
	return deleted, nil
}

func (r *EntryRepo) farmShows(farmID string) *gormlib.DB {
	return r.db.Session(&gormlib.Session{NewDB: true}).
		Model(&gorm.Show{}).
		Select("id").
		Where("farm_id = ?", farmID)
}

// ListMonitorable loads the farm's entries for day that have a provider class
// and whose class is not Completed, with horse, class, event and show loaded.
func (r *EntryRepo) ListMonitorable(ctx context.Context, farmID string, day time.Time) ([]gorm.Entry, error) {
	var entries []gorm.Entry

	err := r.db.WithContext(ctx).
		Preload("Horse").
		Preload("Class").
		Preload("Event").
		Preload("Show").
		Where("show_id IN (?)", r.farmShows(farmID)).
		Where("scheduled_date = ? AND api_class_id IS NOT NULL", Day(day)).
		Where("(class_status IS NULL OR class_status <> ?)", constants.ClassStatusCompleted).
		Order("created_at, id").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("load monitorable entries: %w", err)
	}
	return entries, nil
}

// UpdateLiveState overwrites the live columns of one entry
func (r *EntryRepo) UpdateLiveState(ctx context.Context, e *gorm.Entry) error {
	return r.db.WithContext(ctx).
		Model(&gorm.Entry{ID: e.ID}).
		Updates(map[string]interface{}{
			"class_status":          e.ClassStatus,
			"estimated_start":       e.EstimatedStart,
			"actual_start":          e.ActualStart,
			"total_trips":           e.TotalTrips,
			"completed_trips":       e.CompletedTrips,
			"remaining_trips":       e.RemainingTrips,
			"api_trip_id":           e.APITripID,
			"order_of_go":           e.OrderOfGo,
			"order_total":           e.OrderTotal,
			"placing":               e.Placing,
			"faults_one":            e.FaultsOne,
			"time_one":              e.TimeOne,
			"time_fault_one":        e.TimeFaultOne,
			"faults_two":            e.FaultsTwo,
			"time_two":              e.TimeTwo,
			"time_fault_two":        e.TimeFaultTwo,
			"total_prize_money":     e.TotalPrizeMoney,
			"points_earned":         e.PointsEarned,
			"gone_in":               e.GoneIn,
			"scratch_trip":          e.ScratchTrip,
			"disqualify_status_one": e.DisqualifyStatusOne,
			"disqualify_status_two": e.DisqualifyStatusTwo,
			"score1":                e.Score1,
			"score2":                e.Score2,
			"score3":                e.Score3,
			"score4":                e.Score4,
			"score5":                e.Score5,
			"score6":                e.Score6,
			"status":                e.Status,
			"updated_at":            e.UpdatedAt,
		}).Error
}

// RemainingForHorse returns the horse's other entries at the show on day that
// are not gone in and whose class is not Completed, earliest first with
// unknown start times last.
func (r *EntryRepo) RemainingForHorse(ctx context.Context, horseID, showID, excludeEntryID string, day time.Time) ([]gorm.Entry, error) {
	var entries []gorm.Entry

	err := r.db.WithContext(ctx).
		Preload("Class").
		Preload("Event").
		Where("horse_id = ? AND show_id = ? AND scheduled_date = ?", horseID, showID, Day(day)).
		Where("id <> ? AND gone_in = ?", excludeEntryID, false).
		Where("(class_status IS NULL OR class_status <> ?)", constants.ClassStatusCompleted).
		Order("CASE WHEN estimated_start IS NULL THEN 1 ELSE 0 END, estimated_start ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("load remaining entries: %w", err)
	}
	return entries, nil
}

// ListForDay loads every entry of the farm scheduled on day with all
// relationships, for the schedule view.
func (r *EntryRepo) ListForDay(ctx context.Context, farmID string, day time.Time) ([]gorm.Entry, error) {
	var entries []gorm.Entry

	err := r.db.WithContext(ctx).
		Preload("Horse").
		Preload("Rider").
		Preload("Class").
		Preload("Event").
		Preload("Show").
		Where("show_id IN (?)", r.farmShows(farmID)).
		Where("scheduled_date = ?", Day(day)).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("load entries for day: %w", err)
	}
	return entries, nil
}
