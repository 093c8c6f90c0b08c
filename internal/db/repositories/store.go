package repositories

import (
	"context"

	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store bundles the identity store and ledger repositories over one
// connection or transaction.
type Store struct {
	db *gormlib.DB

	Farms         *FarmRepo
	Horses        *HorseRepo
	Riders        *RiderRepo
	Shows         *ShowRepo
	Events        *EventRepo
	Classes       *ClassRepo
	Entries       *EntryRepo
	Notifications *NotificationLogRepo
	SyncHistory   *SyncHistoryRepo
}

// NewStore wires every repository to db
func NewStore(db *gormlib.DB) *Store {
	return &Store{
		db:            db,
		Farms:         NewFarmRepo(db),
		Horses:        NewHorseRepo(db),
		Riders:        NewRiderRepo(db),
		Shows:         NewShowRepo(db),
		Events:        NewEventRepo(db),
		Classes:       NewClassRepo(db),
		Entries:       NewEntryRepo(db),
		Notifications: NewNotificationLogRepo(db),
		SyncHistory:   NewSyncHistoryRepo(db),
	}
}

// DB exposes the underlying handle
func (s *Store) DB() *gormlib.DB {
	return s.db
}

// Transaction runs fn against a Store bound to a transaction. Called on a
// Store that is already transactional it opens a savepoint, so a failing fn
// rolls back only its own writes.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gormlib.DB) error {
		return fn(NewStore(tx))
	})
}

func columns(names ...string) []clause.Column {
	cols := make([]clause.Column, len(names))
	for i, n := range names {
		cols[i] = clause.Column{Name: n}
	}
	return cols
}

// partialTarget is the WHERE predicate of a partial unique index, repeated in
// ON CONFLICT so the database can pick that index as the arbiter.
func partialTarget(predicate string) clause.Where {
	return clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: predicate}}}
}

const inChunk = 500

// chunk splits an IN list so no single statement carries too many parameters
func chunk[T any](items []T, size int) [][]T {
	var out [][]T
	for size < len(items) {
		items, out = items[size:], append(out, items[:size])
	}
	if len(items) > 0 {
		out = append(out, items)
	}
	return out
}
