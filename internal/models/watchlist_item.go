package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultWatchlistStatus applies when an upsert omits status.
const DefaultWatchlistStatus = "watching"

// WatchlistItem is a local annotation on a symbol, keyed by symbol.
type WatchlistItem struct {
	ID          string              `gorm:"primaryKey;size:36" json:"id"`
	Symbol      string              `gorm:"uniqueIndex;not null" json:"symbol"`
	Notes       *string             `gorm:"type:text" json:"notes"`
	TargetEntry decimal.NullDecimal `gorm:"type:numeric(18,4)" json:"targetEntry"`
	TargetExit  decimal.NullDecimal `gorm:"type:numeric(18,4)" json:"targetExit"`
	StopLoss    decimal.NullDecimal `gorm:"type:numeric(18,4)" json:"stopLoss"`
	Status      string              `gorm:"not null;default:watching" json:"status"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `gorm:"index" json:"updatedAt"`
}

// TableName specifies the table name for WatchlistItem model
func (WatchlistItem) TableName() string {
	return "watchlist_items"
}

type WatchlistItemRequest struct {
	Symbol      string              `json:"symbol"`
	Notes       string              `json:"notes"`
	TargetEntry decimal.NullDecimal `json:"target_entry"`
	TargetExit  decimal.NullDecimal `json:"target_exit"`
	StopLoss    decimal.NullDecimal `json:"stop_loss"`
	Status      string              `json:"status"`
}

// WatchlistRow is one symbol of the merged watchlist view. Only Symbol is
// always set; brokerage and market fields are nil for annotation-only rows
// and annotation fields are nil for symbols without notes.
type WatchlistRow struct {
	Symbol string `json:"symbol"`

	Name         *string  `json:"name"`
	Exchange     *string  `json:"exchange"`
	Tradable     *bool    `json:"tradable"`
	Shortable    *bool    `json:"shortable"`
	Fractionable *bool    `json:"fractionable"`
	Watchlist    *string  `json:"watchlist"`
	Watchlists   []string `json:"watchlists"`

	Price         *float64 `json:"price"`
	Bid           *float64 `json:"bid"`
	Ask           *float64 `json:"ask"`
	Open          *float64 `json:"open"`
	High          *float64 `json:"high"`
	Low           *float64 `json:"low"`
	Close         *float64 `json:"close"`
	Volume        *float64 `json:"volume"`
	PrevClose     *float64 `json:"prevClose"`
	Change        *float64 `json:"change"`
	ChangePercent *float64 `json:"changePercent"`

	Notes       *string             `json:"notes"`
	TargetEntry decimal.NullDecimal `json:"targetEntry"`
	TargetExit  decimal.NullDecimal `json:"targetExit"`
	StopLoss    decimal.NullDecimal `json:"stopLoss"`
	Status      *string             `json:"status"`
	UpdatedAt   *time.Time          `json:"updatedAt"`
}
