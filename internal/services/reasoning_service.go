package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/vikasavnish/tradedesk/internal/models"
)

const (
	// DefaultReasoningLimit is the page size when the caller gives none.
	DefaultReasoningLimit = 20
	// MaxReasoningLimit caps a single page.
	MaxReasoningLimit = 500
)

// ReasoningService defines the trade reasoning operations
type ReasoningService interface {
	List(ctx context.Context, limit int) ([]models.TradeReasoning, error)
	GetByOrderID(ctx context.Context, orderID string) (*models.TradeReasoning, error)
	Create(ctx context.Context, req models.TradeReasoningRequest) (*models.TradeReasoning, error)
}

type reasoningService struct {
	db *gorm.DB
}

// NewReasoningService creates a new trade reasoning service
func NewReasoningService(db *gorm.DB) ReasoningService {
	return &reasoningService{db: db}
}

// List returns the most recent records first
func (s *reasoningService) List(ctx context.Context, limit int) ([]models.TradeReasoning, error) {
	switch {
	case limit <= 0:
		limit = DefaultReasoningLimit
	case limit > MaxReasoningLimit:
		limit = MaxReasoningLimit
	}

	var records []models.TradeReasoning
	result := s.db.WithContext(ctx).Order("created_at desc").Limit(limit).Find(&records)
	return records, result.Error
}

// GetByOrderID returns the record for a brokerage order
func (s *reasoningService) GetByOrderID(ctx context.Context, orderID string) (*models.TradeReasoning, error) {
	var record models.TradeReasoning
	if err := s.db.WithContext(ctx).Where("alpaca_order_id = ?", strings.TrimSpace(orderID)).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// Create stores the reasoning behind a new order. An order has at most one
// record.
func (s *reasoningService) Create(ctx context.Context, req models.TradeReasoningRequest) (*models.TradeReasoning, error) {
	if anyBlank(req.AlpacaOrderID, req.Symbol, req.Side, req.Reasoning) {
		return nil, invalid("alpaca_order_id, symbol, side, and reasoning are required")
	}

	record := models.TradeReasoning{
		AlpacaOrderID: strings.TrimSpace(req.AlpacaOrderID),
		Symbol:        NormalizeSymbol(req.Symbol),
		Side:          strings.ToLower(strings.TrimSpace(req.Side)),
		Reasoning:     req.Reasoning,
		Strategy:      optional(req.Strategy),
		StopLoss:      req.StopLoss,
		TakeProfit:    req.TakeProfit,
		Lesson:        optional(req.Lesson),
	}

	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.TradeReasoning{}).Where("alpaca_order_id = ?", record.AlpacaOrderID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrConflict
	}

	if err := db.Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return &record, nil
}
