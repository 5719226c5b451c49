package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// All returns every persisted model, in migration order.
func All() []interface{} {
	return []interface{}{
		&TradeReasoning{},
		&JournalEntry{},
		&WatchlistItem{},
		&Lesson{},
	}
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// BeforeCreate assigns a UUID primary key
func (t *TradeReasoning) BeforeCreate(tx *gorm.DB) error {
	newID(&t.ID)
	return nil
}

// BeforeCreate assigns a UUID primary key
func (j *JournalEntry) BeforeCreate(tx *gorm.DB) error {
	newID(&j.ID)
	return nil
}

// BeforeCreate assigns a UUID primary key
func (w *WatchlistItem) BeforeCreate(tx *gorm.DB) error {
	newID(&w.ID)
	return nil
}

// BeforeCreate assigns a UUID primary key
func (l *Lesson) BeforeCreate(tx *gorm.DB) error {
	newID(&l.ID)
	return nil
}
