package models

import (
	"time"
)

// Lesson is a takeaway the bot extracted, optionally tied to a trade.
type Lesson struct {
	ID               string          `gorm:"primaryKey;size:36" json:"id"`
	Title            string          `gorm:"not null" json:"title"`
	Description      string          `gorm:"type:text;not null" json:"description"`
	Category         string          `gorm:"index;not null" json:"category"`
	TaughtAt         time.Time       `gorm:"index;not null" json:"taughtAt"`
	TradeReasoningID *string         `gorm:"size:36;index" json:"tradeReasoningId"`
	TradeReasoning   *TradeReasoning `gorm:"foreignKey:TradeReasoningID;constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// TableName specifies the table name for Lesson model
func (Lesson) TableName() string {
	return "lessons"
}

// LessonView is a Lesson as listed, with its trade's symbol and side.
type LessonView struct {
	Lesson
	TradeReasoning *TradeRef `json:"tradeReasoning"`
}

type LessonRequest struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	Category         string `json:"category"`
	TaughtAt         string `json:"taught_at"`
	TradeReasoningID string `json:"trade_reasoning_id"`
}
