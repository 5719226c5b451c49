package services

import (
	"github.com/vikasavnish/tradedesk/internal/brokerage"
	"github.com/vikasavnish/tradedesk/internal/models"
)

// watchlistEntry is one asset as listed by one brokerage watchlist.
type watchlistEntry struct {
	asset     brokerage.Asset
	watchlist string
}

func flattenWatchlists(lists []brokerage.Watchlist) []watchlistEntry {
	var entries []watchlistEntry
	for _, wl := range lists {
		for _, asset := range wl.Assets {
			entries = append(entries, watchlistEntry{asset: asset, watchlist: wl.Name})
		}
	}
	return entries
}

func distinctSymbols(entries []watchlistEntry) []string {
	seen := make(map[string]struct{}, len(entries))
	var symbols []string
	for _, e := range entries {
		if _, ok := seen[e.asset.Symbol]; ok {
			continue
		}
		seen[e.asset.Symbol] = struct{}{}
		symbols = append(symbols, e.asset.Symbol)
	}
	return symbols
}

// mergeWatchlist emits brokerage-backed rows in first-seen order, then one
// row per annotation whose symbol no brokerage watchlist lists. A symbol on
// several watchlists keeps the brokerage fields and watchlist name of its
// first occurrence.
func mergeWatchlist(entries []watchlistEntry, snapshots map[string]brokerage.Snapshot, items []models.WatchlistItem) []models.WatchlistRow {
	annotations := make(map[string]models.WatchlistItem, len(items))
	for _, item := range items {
		annotations[item.Symbol] = item
	}

	rows := make([]models.WatchlistRow, 0, len(entries)+len(items))
	index := make(map[string]int, len(entries))

	for _, e := range entries {
		symbol := e.asset.Symbol
		if i, ok := index[symbol]; ok {
			rows[i].Watchlists = appendUnique(rows[i].Watchlists, e.watchlist)
			continue
		}

		row := models.WatchlistRow{
			Symbol:       symbol,
			Name:         stringOrNil(e.asset.Name),
			Exchange:     stringOrNil(e.asset.Exchange),
			Tradable:     boolPtr(e.asset.Tradable),
			Shortable:    boolPtr(e.asset.Shortable),
			Fractionable: boolPtr(e.asset.Fractionable),
			Watchlist:    stringOrNil(e.watchlist),
			Watchlists:   []string{e.watchlist},
		}
		if snap, ok := snapshots[symbol]; ok {
			applySnapshot(&row, snap)
		}
		if item, ok := annotations[symbol]; ok {
			applyAnnotation(&row, item)
		}

		index[symbol] = len(rows)
		rows = append(rows, row)
	}

	for _, item := range items {
		if _, ok := index[item.Symbol]; ok {
			continue
		}
		row := models.WatchlistRow{Symbol: item.Symbol}
		applyAnnotation(&row, item)
		index[item.Symbol] = len(rows)
		rows = append(rows, row)
	}

	return rows
}

func applySnapshot(row *models.WatchlistRow, snap brokerage.Snapshot) {
	if t := snap.LatestTrade; t != nil {
		row.Price = floatPtr(t.Price)
	}
	if q := snap.LatestQuote; q != nil {
		row.Bid = floatPtr(q.BidPrice)
		row.Ask = floatPtr(q.AskPrice)
	}
	if b := snap.DailyBar; b != nil {
		row.Open = floatPtr(b.Open)
		row.High = floatPtr(b.High)
		row.Low = floatPtr(b.Low)
		row.Close = floatPtr(b.Close)
		row.Volume = floatPtr(b.Volume)
	}
	if p := snap.PrevDailyBar; p != nil {
		row.PrevClose = floatPtr(p.Close)
	}
	row.Change, row.ChangePercent = priceChange(row.Price, row.PrevClose)
}

func applyAnnotation(row *models.WatchlistRow, item models.WatchlistItem) {
	updated := item.UpdatedAt
	status := item.Status
	row.Notes = item.Notes
	row.TargetEntry = item.TargetEntry
	row.TargetExit = item.TargetExit
	row.StopLoss = item.StopLoss
	row.Status = &status
	row.UpdatedAt = &updated
}

// priceChange returns price - prevClose and that change as a percentage of
// prevClose. The percentage is nil when prevClose is zero.
func priceChange(price, prevClose *float64) (change, percent *float64) {
	if price == nil || prevClose == nil {
		return nil, nil
	}
	c := *price - *prevClose
	change = &c
	if *prevClose != 0 {
		p := c / *prevClose * 100
		percent = &p
	}
	return change, percent
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}

func stringOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func boolPtr(b bool) *bool       { return &b }
func floatPtr(f float64) *float64 { return &f }
