// Package brokerage is the read-only gateway to the Alpaca trading and
// market-data REST APIs. Every GET goes through a response cache keyed by
// request path.
package brokerage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/vikasavnish/tradedesk/internal/cache"
	"github.com/vikasavnish/tradedesk/internal/config"
	"github.com/vikasavnish/tradedesk/internal/metrics"
)

const (
	DefaultCacheTTL        = 30 * time.Second
	DefaultHistoryCacheTTL = 60 * time.Second

	// MaxOrderLimit is the largest page the orders endpoint serves.
	MaxOrderLimit = 500
)

// Order status filters accepted by Orders.
const (
	OrderStatusFilled = "filled"
	OrderStatusOpen   = "open"
)

// APIError is returned for any non-2xx upstream response.
type APIError struct {
	StatusCode int
	Status     string
	Path       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("alpaca API error: %s %s", e.Status, e.Path)
}

// Client talks to both Alpaca hosts.
type Client struct {
	baseURL         string
	dataURL         string
	apiKey          string
	secretKey       string
	feed            string
	cacheTTL        time.Duration
	historyCacheTTL time.Duration

	httpClient *http.Client
	cache      cache.Cache
	metrics    *metrics.Metrics
	log        zerolog.Logger
}

// NewClient creates a gateway from brokerage configuration.
func NewClient(cfg config.BrokerageConfig, c cache.Cache, m *metrics.Metrics, log zerolog.Logger) *Client {
	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	historyTTL := cfg.HistoryCacheTTL
	if historyTTL <= 0 {
		historyTTL = DefaultHistoryCacheTTL
	}
	if c == nil {
		c = cache.NewMemoryCache()
	}
	if m == nil {
		m = metrics.New()
	}

	return &Client{
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		dataURL:         strings.TrimRight(cfg.DataURL, "/"),
		apiKey:          cfg.APIKey,
		secretKey:       cfg.SecretKey,
		feed:            cfg.DataFeed,
		cacheTTL:        cacheTTL,
		historyCacheTTL: historyTTL,
		httpClient:      &http.Client{Timeout: cfg.Timeout},
		cache:           c,
		metrics:         m,
		log:             log.With().Str("client", "alpaca").Logger(),
	}
}

// GetAccount returns the account snapshot.
func (c *Client) GetAccount(ctx context.Context) (*Account, error) {
	var account Account
	if err := c.get(ctx, "account", c.baseURL, "/v2/account", c.cacheTTL, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// GetPositions returns all open positions.
func (c *Client) GetPositions(ctx context.Context) ([]Position, error) {
	var positions []Position
	if err := c.get(ctx, "positions", c.baseURL, "/v2/positions", c.cacheTTL, &positions); err != nil {
		return nil, err
	}
	return positions, nil
}

// GetOrders lists orders with the given status, newest first. limit <= 0
// leaves the page size to the brokerage.
func (c *Client) GetOrders(ctx context.Context, status string, limit int) ([]Order, error) {
	q := url.Values{}
	q.Set("status", status)
	if limit > 0 {
		if limit > MaxOrderLimit {
			limit = MaxOrderLimit
		}
		q.Set("limit", strconv.Itoa(limit))
	}
	q.Set("direction", "desc")

	var orders []Order
	if err := c.get(ctx, "orders", c.baseURL, "/v2/orders?"+q.Encode(), c.cacheTTL, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetPortfolioHistory returns the equity curve for period at timeframe
// resolution. Defaults are one month of daily points.
func (c *Client) GetPortfolioHistory(ctx context.Context, period, timeframe string) (*PortfolioHistory, error) {
	if period == "" {
		period = "1M"
	}
	if timeframe == "" {
		timeframe = "1D"
	}
	q := url.Values{}
	q.Set("period", period)
	q.Set("timeframe", timeframe)

	var history PortfolioHistory
	if err := c.get(ctx, "portfolio_history", c.baseURL, "/v2/account/portfolio/history?"+q.Encode(), c.historyCacheTTL, &history); err != nil {
		return nil, err
	}
	return &history, nil
}

// GetWatchlists returns every watchlist with its assets, in the order the
// brokerage lists them. The list endpoint omits assets, so each watchlist is
// fetched individually.
func (c *Client) GetWatchlists(ctx context.Context) ([]Watchlist, error) {
	var lists []Watchlist
	if err := c.get(ctx, "watchlists", c.baseURL, "/v2/watchlists", c.cacheTTL, &lists); err != nil {
		return nil, err
	}

	detailed := make([]Watchlist, len(lists))
	g, gctx := errgroup.WithContext(ctx)
	for i := range lists {
		i := i
		g.Go(func() error {
			var wl Watchlist
			path := "/v2/watchlists/" + url.PathEscape(lists[i].ID)
			if err := c.get(gctx, "watchlist", c.baseURL, path, c.cacheTTL, &wl); err != nil {
				return err
			}
			detailed[i] = wl
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return detailed, nil
}

// GetSnapshots fetches snapshots for symbols in one batched call. Symbols
// the brokerage does not know are absent from the result.
func (c *Client) GetSnapshots(ctx context.Context, symbols []string) (map[string]Snapshot, error) {
	if len(symbols) == 0 {
		return map[string]Snapshot{}, nil
	}

	sorted := append([]string(nil), symbols...)
	sort.Strings(sorted)

	q := url.Values{}
	q.Set("symbols", strings.Join(sorted, ","))
	if c.feed != "" {
		q.Set("feed", c.feed)
	}

	var raw map[string]*Snapshot
	if err := c.get(ctx, "snapshots", c.dataURL, "/v2/stocks/snapshots?"+q.Encode(), c.cacheTTL, &raw); err != nil {
		return nil, err
	}

	out := make(map[string]Snapshot, len(raw))
	for symbol, snap := range raw {
		if snap != nil {
			out[symbol] = *snap
		}
	}
	return out, nil
}

// get serves path from the cache when fresh, otherwise fetches it from host
// and stores the body. Failed responses are never cached.
func (c *Client) get(ctx context.Context, endpoint, host, path string, ttl time.Duration, out interface{}) error {
	key := cacheKey(host, c.dataURL, path)

	if body, ok := c.cache.Get(ctx, key, ttl); ok {
		c.metrics.CacheLookups.WithLabelValues("hit").Inc()
		if err := json.Unmarshal(body, out); err == nil {
			return nil
		}
		c.log.Warn().Str("path", path).Msg("discarding undecodable cache entry")
	} else {
		c.metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	body, err := c.fetch(ctx, host, path)
	if err != nil {
		c.metrics.BrokerageRequests.WithLabelValues(endpoint, "error").Inc()
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		c.metrics.BrokerageRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("decode %s: %w", path, err)
	}

	c.metrics.BrokerageRequests.WithLabelValues(endpoint, "ok").Inc()
	c.cache.Set(ctx, key, body, ttl)
	return nil
}

func (c *Client) fetch(ctx context.Context, host, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, host+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("APCA-API-KEY-ID", c.apiKey)
	req.Header.Set("APCA-API-SECRET-KEY", c.secretKey)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("upstream call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, &APIError{StatusCode: resp.StatusCode, Status: resp.Status, Path: path}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return body, nil
}

// cacheKey keeps trading and data paths apart when both hosts share a cache.
func cacheKey(host, dataURL, path string) string {
	if host == dataURL {
		return "data:" + path
	}
	return "trading:" + path
}
