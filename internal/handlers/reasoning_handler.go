package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/vikasavnish/tradedesk/internal/models"
	"github.com/vikasavnish/tradedesk/internal/services"
)

// ReasoningHandler handles trade reasoning requests
type ReasoningHandler struct {
	reasoningService services.ReasoningService
}

// NewReasoningHandler creates a new trade reasoning handler
func NewReasoningHandler(reasoningService services.ReasoningService) *ReasoningHandler {
	return &ReasoningHandler{reasoningService: reasoningService}
}

// RegisterRoutes registers trade reasoning routes
func (h *ReasoningHandler) RegisterRoutes(read, write *mux.Router) {
	read.HandleFunc("/reasoning", h.ListReasoning).Methods("GET")
	read.HandleFunc("/reasoning/{orderId}", h.GetReasoning).Methods("GET")
	write.HandleFunc("/reasoning", h.CreateReasoning).Methods("POST")
}

// ListReasoning returns the most recent records
func (h *ReasoningHandler) ListReasoning(w http.ResponseWriter, r *http.Request) {
	limit := services.DefaultReasoningLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	records, err := h.reasoningService.List(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, err, "", "Failed to fetch trade reasoning")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// GetReasoning returns the record for one brokerage order
func (h *ReasoningHandler) GetReasoning(w http.ResponseWriter, r *http.Request) {
	record, err := h.reasoningService.GetByOrderID(r.Context(), mux.Vars(r)["orderId"])
	if err != nil {
		writeServiceError(w, r, err, "Trade reasoning not found", "Failed to fetch trade reasoning")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// CreateReasoning records why an order was placed
func (h *ReasoningHandler) CreateReasoning(w http.ResponseWriter, r *http.Request) {
	var req models.TradeReasoningRequest
	if !decodeBody(w, r, &req) {
		return
	}

	record, err := h.reasoningService.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, "", "Failed to save trade reasoning")
		return
	}
	writeJSON(w, http.StatusCreated, record)
}
