package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vikasavnish/tradedesk/internal/models"
	"github.com/vikasavnish/tradedesk/internal/services"
)

// WatchlistHandler handles the merged watchlist and its annotations
type WatchlistHandler struct {
	watchlistService services.WatchlistService
}

// NewWatchlistHandler creates a new watchlist handler
func NewWatchlistHandler(watchlistService services.WatchlistService) *WatchlistHandler {
	return &WatchlistHandler{watchlistService: watchlistService}
}

// RegisterRoutes registers watchlist routes. Writes go on the gated router.
func (h *WatchlistHandler) RegisterRoutes(read, write *mux.Router) {
	read.HandleFunc("/watchlist", h.GetWatchlist).Methods("GET")
	write.HandleFunc("/watchlist", h.UpsertItem).Methods("POST")
	write.HandleFunc("/watchlist", h.DeleteItem).Methods("DELETE")
}

// GetWatchlist returns brokerage watchlists merged with local annotations
func (h *WatchlistHandler) GetWatchlist(w http.ResponseWriter, r *http.Request) {
	rows, err := h.watchlistService.Merged(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "", "Failed to fetch watchlist")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// UpsertItem creates or replaces the annotation for a symbol
func (h *WatchlistHandler) UpsertItem(w http.ResponseWriter, r *http.Request) {
	var req models.WatchlistItemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := h.watchlistService.Upsert(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, "", "Failed to save watchlist item")
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// DeleteItem removes the annotation named by the symbol query parameter
func (h *WatchlistHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.watchlistService.Delete(r.Context(), r.URL.Query().Get("symbol")); err != nil {
		writeServiceError(w, r, err, "Watchlist item not found", "Failed to delete watchlist item")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
