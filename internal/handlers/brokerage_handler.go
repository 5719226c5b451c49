package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/vikasavnish/tradedesk/internal/brokerage"
)

const defaultOrderLimit = 20

// Brokerage is the read-only account data the dashboard shows.
type Brokerage interface {
	GetAccount(ctx context.Context) (*brokerage.Account, error)
	GetPositions(ctx context.Context) ([]brokerage.Position, error)
	GetOrders(ctx context.Context, status string, limit int) ([]brokerage.Order, error)
	GetPortfolioHistory(ctx context.Context, period, timeframe string) (*brokerage.PortfolioHistory, error)
}

// BrokerageHandler handles account, position, order and history requests
type BrokerageHandler struct {
	brokerage Brokerage
}

// NewBrokerageHandler creates a new brokerage handler
func NewBrokerageHandler(b Brokerage) *BrokerageHandler {
	return &BrokerageHandler{brokerage: b}
}

// RegisterRoutes registers brokerage routes
func (h *BrokerageHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/account", h.GetAccount).Methods("GET")
	router.HandleFunc("/positions", h.GetPositions).Methods("GET")
	router.HandleFunc("/orders", h.GetOrders).Methods("GET")
	router.HandleFunc("/history", h.GetHistory).Methods("GET")
}

// GetAccount returns the account snapshot
func (h *BrokerageHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.brokerage.GetAccount(r.Context())
	if err != nil {
		upstreamFailed(w, r, err, "Failed to fetch account data")
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// GetPositions returns the open positions
func (h *BrokerageHandler) GetPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.brokerage.GetPositions(r.Context())
	if err != nil {
		upstreamFailed(w, r, err, "Failed to fetch positions")
		return
	}
	writeJSON(w, http.StatusOK, positions)
}

// GetOrders returns filled or open orders, newest first
func (h *BrokerageHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	status := query.Get("status")
	switch status {
	case "":
		status = brokerage.OrderStatusFilled
	case brokerage.OrderStatusFilled, brokerage.OrderStatusOpen:
	default:
		writeError(w, http.StatusBadRequest, "status must be filled or open")
		return
	}

	limit := defaultOrderLimit
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	orders, err := h.brokerage.GetOrders(r.Context(), status, limit)
	if err != nil {
		upstreamFailed(w, r, err, "Failed to fetch orders")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// GetHistory returns the portfolio equity curve
func (h *BrokerageHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	history, err := h.brokerage.GetPortfolioHistory(r.Context(), query.Get("period"), query.Get("timeframe"))
	if err != nil {
		upstreamFailed(w, r, err, "Failed to fetch portfolio history")
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func upstreamFailed(w http.ResponseWriter, r *http.Request, err error, message string) {
	zerolog.Ctx(r.Context()).Error().Err(err).Msg(message)
	writeError(w, http.StatusInternalServerError, message)
}
