package repositories

import (
	"context"
	"errors"
	"fmt"

	"showgrounds/paddock/internal/models/gorm"

	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FarmRepo handles farms table operations
type FarmRepo struct {
	db *gormlib.DB
}

// NewFarmRepo creates a new farm repository
func NewFarmRepo(db *gormlib.DB) *FarmRepo {
	return &FarmRepo{db: db}
}

// GetOrCreate returns the farm matching (name, customer_id), creating it on first sight.
func (r *FarmRepo) GetOrCreate(ctx context.Context, name string, customerID *int) (*gorm.Farm, error) {
	if name == "" {
		return nil, fmt.Errorf("farm name is required")
	}

	farm, err := r.Find(ctx, name, customerID)
	if err != nil || farm != nil {
		return farm, err
	}

	created := gorm.Farm{Name: name, CustomerID: customerID}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&created).Error
	if err != nil {
		return nil, fmt.Errorf("insert farm: %w", err)
	}

	farm, err = r.Find(ctx, name, customerID)
	if err == nil && farm == nil {
		err = fmt.Errorf("farm %q missing after insert", name)
	}
	return farm, err
}

// Find returns nil, nil when no farm matches
func (r *FarmRepo) Find(ctx context.Context, name string, customerID *int) (*gorm.Farm, error) {
	var farm gorm.Farm

	query := r.db.WithContext(ctx).Where("name = ?", name)
	if customerID == nil {
		query = query.Where("customer_id IS NULL")
	} else {
		query = query.Where("customer_id = ?", *customerID)
	}

	err := query.Order("created_at").First(&farm).Error
	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &farm, nil
}
