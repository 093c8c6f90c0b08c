package repositories

import (
	"context"
	"fmt"

	"showgrounds/paddock/internal/models/gorm"

	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HorseRepo handles horses table operations
type HorseRepo struct {
	db *gormlib.DB
}

// NewHorseRepo creates a new horse repository
func NewHorseRepo(db *gormlib.DB) *HorseRepo {
	return &HorseRepo{db: db}
}

// UpsertNames inserts horses that do not exist yet.
// ON CONFLICT (farm_id, name) DO NOTHING; existing attributes are never touched.
func (r *HorseRepo) UpsertNames(ctx context.Context, farmID string, names []string) (int64, error) {
	names = uniqueNames(names)
	if len(names) == 0 {
		return 0, nil
	}

	rows := make([]gorm.Horse, 0, len(names))
	for _, n := range names {
		rows = append(rows, gorm.Horse{FarmID: farmID, Name: n, Status: "active"})
	}

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   columns("farm_id", "name"),
			DoNothing: true,
		}).
		CreateInBatches(&rows, inChunk)
	if res.Error != nil {
		return 0, fmt.Errorf("upsert horses: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// ResolveByNames returns name → id for the horses that exist
func (r *HorseRepo) ResolveByNames(ctx context.Context, farmID string, names []string) (map[string]string, error) {
	return resolveNames(ctx, r.db, &gorm.Horse{}, farmID, names)
}
