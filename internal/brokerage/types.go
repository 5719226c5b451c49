package brokerage

import "time"

// Account is the brokerage account snapshot. Money values are the
// brokerage's decimal strings, passed through untouched.
type Account struct {
	ID               string `json:"id"`
	AccountNumber    string `json:"account_number"`
	Status           string `json:"status"`
	Currency         string `json:"currency"`
	Equity           string `json:"equity"`
	LastEquity       string `json:"last_equity"`
	Cash             string `json:"cash"`
	BuyingPower      string `json:"buying_power"`
	PortfolioValue   string `json:"portfolio_value"`
	LongMarketValue  string `json:"long_market_value"`
	ShortMarketValue string `json:"short_market_value"`
	DaytradeCount    int    `json:"daytrade_count"`
	PatternDayTrader bool   `json:"pattern_day_trader"`
}

type Position struct {
	AssetID        string `json:"asset_id"`
	Symbol         string `json:"symbol"`
	Exchange       string `json:"exchange"`
	Qty            string `json:"qty"`
	Side           string `json:"side"`
	AvgEntryPrice  string `json:"avg_entry_price"`
	CurrentPrice   string `json:"current_price"`
	MarketValue    string `json:"market_value"`
	CostBasis      string `json:"cost_basis"`
	UnrealizedPL   string `json:"unrealized_pl"`
	UnrealizedPLPC string `json:"unrealized_plpc"`
	ChangeToday    string `json:"change_today"`
}

type Order struct {
	ID             string     `json:"id"`
	ClientOrderID  string     `json:"client_order_id"`
	Symbol         string     `json:"symbol"`
	Qty            string     `json:"qty"`
	FilledQty      string     `json:"filled_qty"`
	Side           string     `json:"side"`
	Type           string     `json:"type"`
	TimeInForce    string     `json:"time_in_force"`
	Status         string     `json:"status"`
	LimitPrice     *string    `json:"limit_price"`
	StopPrice      *string    `json:"stop_price"`
	FilledAvgPrice *string    `json:"filled_avg_price"`
	FilledAt       *time.Time `json:"filled_at"`
	SubmittedAt    *time.Time `json:"submitted_at"`
	CreatedAt      time.Time  `json:"created_at"`
	OrderClass     string     `json:"order_class"`
	Legs           []Order    `json:"legs"`
}

// PortfolioHistory is the equity curve; the slices are index-aligned.
type PortfolioHistory struct {
	Timestamp     []int64    `json:"timestamp"`
	Equity        []*float64 `json:"equity"`
	ProfitLoss    []*float64 `json:"profit_loss"`
	ProfitLossPct []*float64 `json:"profit_loss_pct"`
	BaseValue     float64    `json:"base_value"`
	Timeframe     string     `json:"timeframe"`
}

// Watchlist is a named brokerage watchlist. Assets is only populated by the
// per-watchlist endpoint.
type Watchlist struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Assets    []Asset   `json:"assets"`
}

type Asset struct {
	ID           string `json:"id"`
	Class        string `json:"class"`
	Exchange     string `json:"exchange"`
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	Status       string `json:"status"`
	Tradable     bool   `json:"tradable"`
	Marginable   bool   `json:"marginable"`
	Shortable    bool   `json:"shortable"`
	EasyToBorrow bool   `json:"easy_to_borrow"`
	Fractionable bool   `json:"fractionable"`
}

// Snapshot bundles the latest market data for one symbol. Any part can be
// missing, e.g. before the first trade of a new listing.
type Snapshot struct {
	LatestTrade  *Trade `json:"latestTrade"`
	LatestQuote  *Quote `json:"latestQuote"`
	MinuteBar    *Bar   `json:"minuteBar"`
	DailyBar     *Bar   `json:"dailyBar"`
	PrevDailyBar *Bar   `json:"prevDailyBar"`
}

type Trade struct {
	Price     float64   `json:"p"`
	Size      float64   `json:"s"`
	Timestamp time.Time `json:"t"`
}

type Quote struct {
	AskPrice  float64   `json:"ap"`
	AskSize   float64   `json:"as"`
	BidPrice  float64   `json:"bp"`
	BidSize   float64   `json:"bs"`
	Timestamp time.Time `json:"t"`
}

type Bar struct {
	Open      float64   `json:"o"`
	High      float64   `json:"h"`
	Low       float64   `json:"l"`
	Close     float64   `json:"c"`
	Volume    float64   `json:"v"`
	Timestamp time.Time `json:"t"`
}
