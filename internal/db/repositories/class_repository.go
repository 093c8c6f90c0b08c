package repositories

import (
	"context"
	"fmt"

	"showgrounds/paddock/internal/models/gorm"

	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ClassKey is the natural key of a class within a farm. An empty Number
// stands for a null class_number.
type ClassKey struct {
	Name   string
	Number string
}

// KeyOf builds the natural key of a class row
func KeyOf(c *gorm.ShowClass) ClassKey {
	key := ClassKey{Name: c.Name}
	if c.ClassNumber != nil {
		key.Number = *c.ClassNumber
	}
	return key
}

// ClassRepo handles classes table operations
type ClassRepo struct {
	db *gormlib.DB
}

// NewClassRepo creates a new class repository
func NewClassRepo(db *gormlib.DB) *ClassRepo {
	return &ClassRepo{db: db}
}

var classUpdateColumns = []string{"sponsor", "prize_money", "class_type", "updated_at"}

// UpsertMany writes classes keyed by (farm_id, name, class_number).
// ON CONFLICT DO UPDATE sponsor, prize_money, class_type, updated_at.
// Rows with the same key collapse to the last one.
func (r *ClassRepo) UpsertMany(ctx context.Context, farmID string, rows []gorm.ShowClass) (inserted, updated int, err error) {
	return r.write(ctx, farmID, rows, false)
}

// InsertMissing creates bare classes for keys that do not exist yet and
// leaves existing rows untouched.
func (r *ClassRepo) InsertMissing(ctx context.Context, farmID string, keys []ClassKey) (int, error) {
	rows := make([]gorm.ShowClass, 0, len(keys))
	for _, k := range keys {
		row := gorm.ShowClass{FarmID: farmID, Name: k.Name}
		if k.Number != "" {
			number := k.Number
			row.ClassNumber = &number
		}
		rows = append(rows, row)
	}
	inserted, _, err := r.write(ctx, farmID, rows, true)
	return inserted, err
}

func (r *ClassRepo) write(ctx context.Context, farmID string, rows []gorm.ShowClass, doNothing bool) (inserted, updated int, err error) {
	if len(rows) == 0 {
		return 0, 0, nil
	}

	// dedupe by key, last wins, first position kept
	var numbered, unnumbered []gorm.ShowClass
	var order []ClassKey
	latest := make(map[ClassKey]gorm.ShowClass, len(rows))
	for _, row := range rows {
		row.FarmID = farmID
		key := KeyOf(&row)
		if _, ok := latest[key]; !ok {
			order = append(order, key)
		}
		latest[key] = row
	}
	for _, key := range order {
		if key.Number != "" {
			numbered = append(numbered, latest[key])
		} else {
			unnumbered = append(unnumbered, latest[key])
		}
	}

	existing, err := r.ResolveKeys(ctx, farmID, order)
	if err != nil {
		return 0, 0, err
	}

	conflictNumbered := clause.OnConflict{
		Columns:     columns("farm_id", "name", "class_number"),
		TargetWhere: partialTarget("class_number IS NOT NULL"),
	}
	conflictUnnumbered := clause.OnConflict{
		Columns:     columns("farm_id", "name"),
		TargetWhere: partialTarget("class_number IS NULL"),
	}
	if doNothing {
		conflictNumbered.DoNothing = true
		conflictUnnumbered.DoNothing = true
	} else {
		conflictNumbered.DoUpdates = clause.AssignmentColumns(classUpdateColumns)
		conflictUnnumbered.DoUpdates = clause.AssignmentColumns(classUpdateColumns)
	}

	if len(numbered) > 0 {
		err := r.db.WithContext(ctx).Clauses(conflictNumbered).Omit(clause.Associations).CreateInBatches(&numbered, inChunk).Error
		if err != nil {
			return 0, 0, fmt.Errorf("upsert numbered classes: %w", err)
		}
	}
	if len(unnumbered) > 0 {
		err := r.db.WithContext(ctx).Clauses(conflictUnnumbered).Omit(clause.Associations).CreateInBatches(&unnumbered, inChunk).Error
		if err != nil {
			return 0, 0, fmt.Errorf("upsert unnumbered classes: %w", err)
		}
	}

	for _, key := range order {
		if _, ok := existing[key]; ok {
			if !doNothing {
				updated++
			}
		} else {
			inserted++
		}
	}
	return inserted, updated, nil
}

type classKeyRow struct {
	ID          string  `gorm:"column:id"`
	Name        string  `gorm:"column:name"`
	ClassNumber *string `gorm:"column:class_number"`
}

// ResolveKeys returns key → class id for the keys that exist
func (r *ClassRepo) ResolveKeys(ctx context.Context, farmID string, keys []ClassKey) (map[ClassKey]string, error) {
	wanted := make(map[ClassKey]struct{}, len(keys))
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		wanted[k] = struct{}{}
		names = append(names, k.Name)
	}

	out := make(map[ClassKey]string, len(keys))
	for _, part := range chunk(uniqueNames(names), inChunk) {
		var rows []classKeyRow
		err := r.db.WithContext(ctx).
			Model(&gorm.ShowClass{}).
			Select("id, name, class_number").
			Where("farm_id = ? AND name IN ?", farmID, part).
			Scan(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("resolve classes: %w", err)
		}
		for _, row := range rows {
			key := ClassKey{Name: row.Name}
			if row.ClassNumber != nil {
				key.Number = *row.ClassNumber
			}
			if _, ok := wanted[key]; ok {
				out[key] = row.ID
			}
		}
	}
	return out, nil
}
