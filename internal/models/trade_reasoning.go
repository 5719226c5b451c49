package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeReasoning records why the bot placed a brokerage order.
type TradeReasoning struct {
	ID            string              `gorm:"primaryKey;size:36" json:"id"`
	AlpacaOrderID string              `gorm:"uniqueIndex;not null" json:"alpacaOrderId"`
	Symbol        string              `gorm:"index;not null" json:"symbol"`
	Side          string              `gorm:"not null" json:"side"`
	Reasoning     string              `gorm:"type:text;not null" json:"reasoning"`
	Strategy      *string             `json:"strategy"`
	StopLoss      decimal.NullDecimal `gorm:"type:numeric(18,4)" json:"stopLoss"`
	TakeProfit    decimal.NullDecimal `gorm:"type:numeric(18,4)" json:"takeProfit"`
	Lesson        *string             `gorm:"type:text" json:"lesson"`
	CreatedAt     time.Time           `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

// TableName specifies the table name for TradeReasoning model
func (TradeReasoning) TableName() string {
	return "trade_reasonings"
}

// TradeReasoningRequest is the body the bot posts after placing an order
type TradeReasoningRequest struct {
	AlpacaOrderID string              `json:"alpaca_order_id"`
	Symbol        string              `json:"symbol"`
	Side          string              `json:"side"`
	Reasoning     string              `json:"reasoning"`
	Strategy      string              `json:"strategy"`
	StopLoss      decimal.NullDecimal `json:"stop_loss"`
	TakeProfit    decimal.NullDecimal `json:"take_profit"`
	Lesson        string              `json:"lesson"`
}

// TradeRef is the slice of a trade shown alongside a lesson.
type TradeRef struct {
	Symbol string `json:"symbol"`
	Side   string `json:"side"`
}
