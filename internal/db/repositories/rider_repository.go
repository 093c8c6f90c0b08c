package repositories

import (
	"context"
	"fmt"

	"showgrounds/paddock/internal/models/gorm"

	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RiderRepo handles riders table operations
type RiderRepo struct {
	db *gormlib.DB
}

// NewRiderRepo creates a new rider repository
func NewRiderRepo(db *gormlib.DB) *RiderRepo {
	return &RiderRepo{db: db}
}

// UpsertNames inserts riders that do not exist yet.
// ON CONFLICT (farm_id, name) DO NOTHING
func (r *RiderRepo) UpsertNames(ctx context.Context, farmID string, names []string) (int64, error) {
	names = uniqueNames(names)
	if len(names) == 0 {
		return 0, nil
	}

	rows := make([]gorm.Rider, 0, len(names))
	for _, n := range names {
		rows = append(rows, gorm.Rider{FarmID: farmID, Name: n})
	}

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   columns("farm_id", "name"),
			DoNothing: true,
		}).
		CreateInBatches(&rows, inChunk)
	if res.Error != nil {
		return 0, fmt.Errorf("upsert riders: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *RiderRepo) ResolveByNames(ctx context.Context, farmID string, names []string) (map[string]string, error) {
	return resolveNames(ctx, r.db, &gorm.Rider{}, farmID, names)
}
