package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vikasavnish/tradedesk/internal/brokerage"
	"github.com/vikasavnish/tradedesk/internal/metrics"
	"github.com/vikasavnish/tradedesk/internal/models"
)

// MarketData is the part of the brokerage gateway the watchlist merge reads.
type MarketData interface {
	GetWatchlists(ctx context.Context) ([]brokerage.Watchlist, error)
	GetSnapshots(ctx context.Context, symbols []string) (map[string]brokerage.Snapshot, error)
}

// WatchlistService defines the watchlist annotation operations and the
// merged watchlist view
type WatchlistService interface {
	List(ctx context.Context) ([]models.WatchlistItem, error)
	Upsert(ctx context.Context, req models.WatchlistItemRequest) (*models.WatchlistItem, error)
	Delete(ctx context.Context, symbol string) error
	Merged(ctx context.Context) ([]models.WatchlistRow, error)
}

type watchlistService struct {
	db      *gorm.DB
	market  MarketData
	metrics *metrics.Metrics
	log     zerolog.Logger
	now     func() time.Time
}

// NewWatchlistService creates a new watchlist service
func NewWatchlistService(db *gorm.DB, market MarketData, m *metrics.Metrics, log zerolog.Logger) WatchlistService {
	return newWatchlistService(db, market, m, log, time.Now)
}

func newWatchlistService(db *gorm.DB, market MarketData, m *metrics.Metrics, log zerolog.Logger, now func() time.Time) *watchlistService {
	return &watchlistService{
		db:      db,
		market:  market,
		metrics: m,
		log:     log.With().Str("component", "watchlist").Logger(),
		now:     now,
	}
}

// List returns every annotation, most recently updated first
func (s *watchlistService) List(ctx context.Context) ([]models.WatchlistItem, error) {
	var items []models.WatchlistItem
	result := s.db.WithContext(ctx).Order("updated_at desc").Order("symbol").Find(&items)
	return items, result.Error
}

// Upsert creates the annotation for a symbol or replaces every mutable field
// of the existing one.
func (s *watchlistService) Upsert(ctx context.Context, req models.WatchlistItemRequest) (*models.WatchlistItem, error) {
	symbol := NormalizeSymbol(req.Symbol)
	if symbol == "" {
		return nil, invalid("symbol is required")
	}

	status := req.Status
	if anyBlank(status) {
		status = models.DefaultWatchlistStatus
	}

	item := models.WatchlistItem{
		Symbol:      symbol,
		Notes:       optional(req.Notes),
		TargetEntry: req.TargetEntry,
		TargetExit:  req.TargetExit,
		StopLoss:    req.StopLoss,
		Status:      status,
		UpdatedAt:   s.now(),
	}

	db := s.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{"notes", "target_entry", "target_exit", "stop_loss", "status", "updated_at"}),
	}).Create(&item).Error
	if err != nil {
		return nil, err
	}

	var stored models.WatchlistItem
	if err := db.Where("symbol = ?", symbol).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// Delete removes the annotation for symbol
func (s *watchlistService) Delete(ctx context.Context, symbol string) error {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return invalid("symbol query parameter is required")
	}

	result := s.db.WithContext(ctx).Where("symbol = ?", symbol).Delete(&models.WatchlistItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Merged joins brokerage watchlist membership, market snapshots and local
// annotations into one row per symbol. Brokerage failures only drop
// enrichment; a store failure fails the whole call.
func (s *watchlistService) Merged(ctx context.Context) ([]models.WatchlistRow, error) {
	var (
		lists   []brokerage.Watchlist
		listErr error
		items   []models.WatchlistItem
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lists, listErr = s.market.GetWatchlists(gctx)
		return nil
	})
	g.Go(func() error {
		var err error
		items, err = s.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if listErr != nil {
		s.degraded("watchlists", listErr)
		lists = nil
	}

	entries := flattenWatchlists(lists)

	snapshots := map[string]brokerage.Snapshot{}
	if symbols := distinctSymbols(entries); len(symbols) > 0 {
		fetched, err := s.market.GetSnapshots(ctx, symbols)
		if err != nil {
			s.degraded("snapshots", err)
		} else {
			snapshots = fetched
		}
	}

	return mergeWatchlist(entries, snapshots, items), nil
}

func (s *watchlistService) degraded(source string, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	s.log.Warn().Err(err).Str("source", source).Msg("serving watchlist without brokerage data")
	if s.metrics != nil {
		s.metrics.WatchlistDegraded.WithLabelValues(source).Inc()
	}
}
