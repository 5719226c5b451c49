package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vikasavnish/tradedesk/internal/brokerage"
	"github.com/vikasavnish/tradedesk/internal/metrics"
	"github.com/vikasavnish/tradedesk/internal/models"
)

type fakeMarket struct {
	lists        []brokerage.Watchlist
	listErr      error
	snapshots    map[string]brokerage.Snapshot
	snapErr      error
	snapRequests [][]string
}

func (f *fakeMarket) GetWatchlists(ctx context.Context) ([]brokerage.Watchlist, error) {
	return f.lists, f.listErr
}

func (f *fakeMarket) GetSnapshots(ctx context.Context, symbols []string) (map[string]brokerage.Snapshot, error) {
	f.snapRequests = append(f.snapRequests, symbols)
	return f.snapshots, f.snapErr
}

func newTestWatchlistService(t *testing.T, market MarketData) (*watchlistService, *metrics.Metrics) {
	t.Helper()
	m := metrics.New()
	start := time.Date(2025, 1, 15, 14, 0, 0, 0, time.UTC)
	return newWatchlistService(newTestDB(t), market, m, zerolog.Nop(), steppingClock(start)), m
}

func snapshot(price, prevClose float64) brokerage.Snapshot {
	return brokerage.Snapshot{
		LatestTrade:  &brokerage.Trade{Price: price},
		LatestQuote:  &brokerage.Quote{BidPrice: price - 0.1, AskPrice: price + 0.1},
		DailyBar:     &brokerage.Bar{Open: prevClose, High: price + 1, Low: prevClose - 1, Close: price, Volume: 1000},
		PrevDailyBar: &brokerage.Bar{Close: prevClose},
	}
}

func TestMergedWatchlistExample(t *testing.T) {
	market := &fakeMarket{
		lists: []brokerage.Watchlist{{
			Name:   "Primary",
			Assets: []brokerage.Asset{{Symbol: "AAPL", Name: "Apple Inc.", Exchange: "NASDAQ", Tradable: true}},
		}},
		snapshots: map[string]brokerage.Snapshot{"AAPL": snapshot(190, 185)},
	}
	svc, _ := newTestWatchlistService(t, market)

	_, err := svc.Upsert(bg, models.WatchlistItemRequest{Symbol: "TSLA", Notes: "watching"})
	require.NoError(t, err)

	rows, err := svc.Merged(bg)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	aapl := rows[0]
	assert.Equal(t, "AAPL", aapl.Symbol)
	require.NotNil(t, aapl.Price)
	assert.Equal(t, 190.0, *aapl.Price)
	require.NotNil(t, aapl.Change)
	assert.InDelta(t, 5.0, *aapl.Change, 1e-9)
	require.NotNil(t, aapl.ChangePercent)
	assert.InDelta(t, 2.7027, *aapl.ChangePercent, 1e-4)
	assert.Nil(t, aapl.Notes)
	assert.Nil(t, aapl.Status)
	require.NotNil(t, aapl.Watchlist)
	assert.Equal(t, "Primary", *aapl.Watchlist)

	tsla := rows[1]
	assert.Equal(t, "TSLA", tsla.Symbol)
	assert.Nil(t, tsla.Price)
	assert.Nil(t, tsla.Change)
	assert.Nil(t, tsla.ChangePercent)
	assert.Nil(t, tsla.Name)
	assert.Nil(t, tsla.Watchlist)
	require.NotNil(t, tsla.Notes)
	assert.Equal(t, "watching", *tsla.Notes)
	require.NotNil(t, tsla.Status)
	assert.Equal(t, models.DefaultWatchlistStatus, *tsla.Status)

	assert.Equal(t, [][]string{{"AAPL"}}, market.snapRequests)
}

func TestMergedWatchlistDeduplicatesCrossListedSymbols(t *testing.T) {
	market := &fakeMarket{
		lists: []brokerage.Watchlist{
			{Name: "Tech", Assets: []brokerage.Asset{{Symbol: "NVDA", Name: "NVIDIA"}, {Symbol: "AAPL", Name: "Apple"}}},
			{Name: "Momentum", Assets: []brokerage.Asset{{Symbol: "NVDA", Name: "NVIDIA Corp"}, {Symbol: "AMD"}}},
		},
		snapshots: map[string]brokerage.Snapshot{},
	}
	svc, _ := newTestWatchlistService(t, market)

	_, err := svc.Upsert(bg, models.WatchlistItemRequest{Symbol: "nvda", Notes: "earnings next week"})
	require.NoError(t, err)

	rows, err := svc.Merged(bg)
	require.NoError(t, err)

	symbols := make([]string, 0, len(rows))
	for _, r := range rows {
		symbols = append(symbols, r.Symbol)
	}
	assert.Equal(t, []string{"NVDA", "AAPL", "AMD"}, symbols)

	nvda := rows[0]
	assert.Equal(t, "Tech", *nvda.Watchlist)
	assert.Equal(t, "NVIDIA", *nvda.Name)
	assert.Equal(t, []string{"Tech", "Momentum"}, nvda.Watchlists)
	require.NotNil(t, nvda.Notes)
	assert.Equal(t, "earnings next week", *nvda.Notes)

	require.Len(t, market.snapRequests, 1)
	assert.Equal(t, []string{"NVDA", "AAPL", "AMD"}, market.snapRequests[0])
}

func TestMergedWatchlistDegradesOnBrokerageFailure(t *testing.T) {
	market := &fakeMarket{listErr: &brokerage.APIError{StatusCode: 503, Status: "503 Service Unavailable", Path: "/v2/watchlists"}}
	svc, m := newTestWatchlistService(t, market)

	_, err := svc.Upsert(bg, models.WatchlistItemRequest{Symbol: "TSLA", Notes: "watching"})
	require.NoError(t, err)

	rows, err := svc.Merged(bg)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "TSLA", rows[0].Symbol)
	assert.Nil(t, rows[0].Price)

	assert.Empty(t, market.snapRequests)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WatchlistDegraded.WithLabelValues("watchlists")))
}

func TestMergedWatchlistDegradesOnSnapshotFailure(t *testing.T) {
	market := &fakeMarket{
		lists:   []brokerage.Watchlist{{Name: "Primary", Assets: []brokerage.Asset{{Symbol: "AAPL", Name: "Apple Inc."}}}},
		snapErr: errors.New("connection reset"),
	}
	svc, m := newTestWatchlistService(t, market)

	rows, err := svc.Merged(bg)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Apple Inc.", *rows[0].Name)
	assert.Nil(t, rows[0].Price)
	assert.Nil(t, rows[0].Change)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WatchlistDegraded.WithLabelValues("snapshots")))
}

func TestMergedWatchlistFailsWhenStoreFails(t *testing.T) {
	market := &fakeMarket{lists: []brokerage.Watchlist{{Name: "Primary", Assets: []brokerage.Asset{{Symbol: "AAPL"}}}}}
	svc := newWatchlistService(closedDB(t), market, nil, zerolog.Nop(), time.Now)

	_, err := svc.Merged(bg)
	require.Error(t, err)
}

func TestMergedWatchlistEmpty(t *testing.T) {
	market := &fakeMarket{}
	svc, _ := newTestWatchlistService(t, market)

	rows, err := svc.Merged(bg)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Empty(t, market.snapRequests)
}

func TestWatchlistUpsertReplacesExisting(t *testing.T) {
	svc, _ := newTestWatchlistService(t, &fakeMarket{})

	first, err := svc.Upsert(bg, models.WatchlistItemRequest{
		Symbol:      "aapl",
		Notes:       "support at 182",
		TargetEntry: decimal.NewNullDecimal(decimal.RequireFromString("182.50")),
		Status:      "watching",
	})
	require.NoError(t, err)
	assert.Equal(t, "AAPL", first.Symbol)
	assert.Equal(t, "182.5", first.TargetEntry.Decimal.String())

	second, err := svc.Upsert(bg, models.WatchlistItemRequest{Symbol: "AAPL", Notes: "broke support", Status: "avoid"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	require.NotNil(t, second.Notes)
	assert.Equal(t, "broke support", *second.Notes)
	assert.Equal(t, "avoid", second.Status)
	assert.False(t, second.TargetEntry.Valid)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))

	items, err := svc.List(bg)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestWatchlistUpsertRequiresSymbol(t *testing.T) {
	svc, _ := newTestWatchlistService(t, &fakeMarket{})

	_, err := svc.Upsert(bg, models.WatchlistItemRequest{Notes: "no symbol"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "symbol is required", verr.Message)
}

func TestWatchlistListNewestFirst(t *testing.T) {
	svc, _ := newTestWatchlistService(t, &fakeMarket{})

	for _, symbol := range []string{"AAPL", "MSFT", "TSLA"} {
		_, err := svc.Upsert(bg, models.WatchlistItemRequest{Symbol: symbol})
		require.NoError(t, err)
	}

	items, err := svc.List(bg)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "TSLA", items[0].Symbol)
	assert.Equal(t, "AAPL", items[2].Symbol)
}

func TestWatchlistDelete(t *testing.T) {
	svc, _ := newTestWatchlistService(t, &fakeMarket{})

	_, err := svc.Upsert(bg, models.WatchlistItemRequest{Symbol: "AAPL"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(bg, "aapl"))
	assert.ErrorIs(t, svc.Delete(bg, "AAPL"), ErrNotFound)

	var verr *ValidationError
	assert.True(t, errors.As(svc.Delete(bg, " "), &verr))
}

func TestPriceChange(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	change, pct := priceChange(f(190), f(185))
	require.NotNil(t, change)
	require.NotNil(t, pct)
	assert.InDelta(t, 5.0, *change, 1e-9)
	assert.InDelta(t, 100*5.0/185.0, *pct, 1e-9)

	change, pct = priceChange(nil, f(185))
	assert.Nil(t, change)
	assert.Nil(t, pct)

	change, pct = priceChange(f(190), nil)
	assert.Nil(t, change)
	assert.Nil(t, pct)

	change, pct = priceChange(f(3), f(0))
	require.NotNil(t, change)
	assert.Equal(t, 3.0, *change)
	assert.Nil(t, pct)
}
