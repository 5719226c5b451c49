package models

import (
	"time"
)

// JournalEntry is the bot's free-text journal for one trading day. Date is
// always midnight UTC of that day.
type JournalEntry struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Date      time.Time `gorm:"uniqueIndex;not null" json:"date"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Summary   *string   `gorm:"type:text" json:"summary"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for JournalEntry model
func (JournalEntry) TableName() string {
	return "journal_entries"
}

// JournalSummary is the list projection of JournalEntry.
type JournalSummary struct {
	ID      string    `json:"id"`
	Date    time.Time `json:"date"`
	Summary *string   `json:"summary"`
}

type JournalEntryRequest struct {
	Date    string `json:"date"`
	Content string `json:"content"`
	Summary string `json:"summary"`
}
