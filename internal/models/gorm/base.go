package gorm

import (
	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
)

// newID fills an empty string primary key before insert. Keys are generated
// client-side so bulk upserts know the id they tried to write.
func newID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

func (f *Farm) BeforeCreate(tx *gormlib.DB) error {
	newID(&f.ID)
	return nil
}

func (h *Horse) BeforeCreate(tx *gormlib.DB) error {
	newID(&h.ID)
	return nil
}

func (r *Rider) BeforeCreate(tx *gormlib.DB) error {
	newID(&r.ID)
	return nil
}

func (s *Show) BeforeCreate(tx *gormlib.DB) error {
	newID(&s.ID)
	return nil
}

func (e *Event) BeforeCreate(tx *gormlib.DB) error {
	newID(&e.ID)
	return nil
}

func (c *ShowClass) BeforeCreate(tx *gormlib.DB) error {
	newID(&c.ID)
	return nil
}

func (e *Entry) BeforeCreate(tx *gormlib.DB) error {
	newID(&e.ID)
	return nil
}

func (n *NotificationLog) BeforeCreate(tx *gormlib.DB) error {
	newID(&n.ID)
	return nil
}

func (s *SyncHistory) BeforeCreate(tx *gormlib.DB) error {
	newID(&s.ID)
	return nil
}
