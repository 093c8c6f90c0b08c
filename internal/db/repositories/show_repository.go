package repositories

import (
	"context"
	"errors"
	"fmt"

	"showgrounds/paddock/internal/models/gorm"

	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ShowRepo handles shows table operations
type ShowRepo struct {
	db *gormlib.DB
}

// NewShowRepo creates a new show repository
func NewShowRepo(db *gormlib.DB) *ShowRepo {
	return &ShowRepo{db: db}
}

// Upsert writes a show keyed by (farm_id, api_show_id).
// ON CONFLICT DO UPDATE name, start_date, end_date, updated_at. On return
// show.ID holds the stored row id; inserted reports whether it was new.
func (r *ShowRepo) Upsert(ctx context.Context, show *gorm.Show) (inserted bool, err error) {
	if show.APIShowID == nil {
		return false, fmt.Errorf("show api id is required")
	}

	existing, err := r.FindByAPIShowID(ctx, show.FarmID, *show.APIShowID)
	if err != nil {
		return false, err
	}

	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:     columns("farm_id", "api_show_id"),
			TargetWhere: partialTarget("api_show_id IS NOT NULL"),
			DoUpdates:   clause.AssignmentColumns([]string{"name", "start_date", "end_date", "updated_at"}),
		}).
		Omit(clause.Associations).
		Create(show).Error
	if err != nil {
		return false, fmt.Errorf("upsert show: %w", err)
	}

	stored, err := r.FindByAPIShowID(ctx, show.FarmID, *show.APIShowID)
	if err != nil {
		return false, err
	}
	if stored == nil {
		return false, fmt.Errorf("show %d missing after upsert", *show.APIShowID)
	}
	show.ID = stored.ID
	return existing == nil, nil
}

// FindByAPIShowID returns nil, nil when the show is unknown
func (r *ShowRepo) FindByAPIShowID(ctx context.Context, farmID string, apiShowID int) (*gorm.Show, error) {
	var show gorm.Show

	err := r.db.WithContext(ctx).
		Where("farm_id = ? AND api_show_id = ?", farmID, apiShowID).
		First(&show).Error

	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &show, nil
}
