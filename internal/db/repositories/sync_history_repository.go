package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"showgrounds/paddock/internal/models/gorm"

	"gorm.io/datatypes"
	gormlib "gorm.io/gorm"
)

// SyncHistoryRepo handles sync history operations
type SyncHistoryRepo struct {
	db *gormlib.DB
}

// NewSyncHistoryRepo creates a new sync history repository
func NewSyncHistoryRepo(db *gormlib.DB) *SyncHistoryRepo {
	return &SyncHistoryRepo{db: db}
}

// RecordSync stores the time and summary of a finished run of event for a farm.
// One row per (farm, event); later runs overwrite it.
func (r *SyncHistoryRepo) RecordSync(ctx context.Context, farmID string, event string, at time.Time, summary interface{}) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	at = at.UTC()

	syncHistory := gorm.SyncHistory{
		FarmID:     farmID,
		Event:      event,
		LastSyncAt: &at,
		Summary:    datatypes.JSON(raw),
	}

	// Upsert: if record exists for this farm and event, update last_sync_at
	return r.db.WithContext(ctx).
		Where("farm_id = ? AND event = ?", farmID, event).
		Assign(gorm.SyncHistory{LastSyncAt: &at, Summary: datatypes.JSON(raw)}).
		FirstOrCreate(&syncHistory).Error
}

// GetLast returns nil, nil when the event never ran for the farm
func (r *SyncHistoryRepo) GetLast(ctx context.Context, farmID string, event string) (*gorm.SyncHistory, error) {
	var syncHistory gorm.SyncHistory

	err := r.db.WithContext(ctx).
		Where("farm_id = ? AND event = ?", farmID, event).
		First(&syncHistory).Error

	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &syncHistory, nil
}

// ListForFarm returns every recorded event for the farm, newest first
func (r *SyncHistoryRepo) ListForFarm(ctx context.Context, farmID string) ([]gorm.SyncHistory, error) {
	var rows []gorm.SyncHistory
	err := r.db.WithContext(ctx).
		Where("farm_id = ?", farmID).
		Order("last_sync_at DESC").
		Find(&rows).Error
	return rows, err
}
