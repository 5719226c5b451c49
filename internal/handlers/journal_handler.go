package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vikasavnish/tradedesk/internal/models"
	"github.com/vikasavnish/tradedesk/internal/services"
)

// JournalHandler handles journal requests
type JournalHandler struct {
	journalService services.JournalService
}

// NewJournalHandler creates a new journal handler
func NewJournalHandler(journalService services.JournalService) *JournalHandler {
	return &JournalHandler{journalService: journalService}
}

// RegisterRoutes registers journal routes
func (h *JournalHandler) RegisterRoutes(read, write *mux.Router) {
	read.HandleFunc("/journal", h.ListEntries).Methods("GET")
	read.HandleFunc("/journal/{date}", h.GetEntry).Methods("GET")
	write.HandleFunc("/journal", h.UpsertEntry).Methods("POST")
}

// ListEntries returns entry summaries, newest day first
func (h *JournalHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.journalService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "", "Failed to fetch journal entries")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// GetEntry returns the full entry for one day
func (h *JournalHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := h.journalService.GetByDate(r.Context(), mux.Vars(r)["date"])
	if err != nil {
		writeServiceError(w, r, err, "Journal entry not found", "Failed to fetch journal entry")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// UpsertEntry writes the entry for a day
func (h *JournalHandler) UpsertEntry(w http.ResponseWriter, r *http.Request) {
	var req models.JournalEntryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	entry, err := h.journalService.Upsert(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, "", "Failed to save journal entry")
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}
