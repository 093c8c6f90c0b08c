package repositories

import (
	"context"
	"sort"
	"strings"

	gormlib "gorm.io/gorm"
)

// uniqueNames trims, drops blanks and dedupes. The result is sorted so
// batches insert in a stable order.
func uniqueNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

type namedRow struct {
	ID   string `gorm:"column:id"`
	Name string `gorm:"column:name"`
}

// resolveNames maps exact names to ids for a farm-scoped, name-keyed table.
// Names with no row are absent from the result.
func resolveNames(ctx context.Context, db *gormlib.DB, model interface{}, farmID string, names []string) (map[string]string, error) {
	out := make(map[string]string, len(names))
	for _, part := range chunk(uniqueNames(names), inChunk) {
		var rows []namedRow
		err := db.WithContext(ctx).
			Model(model).
			Select("id, name").
			Where("farm_id = ? AND name IN ?", farmID, part).
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			out[row.Name] = row.ID
		}
	}
	return out, nil
}
