package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vikasavnish/tradedesk/internal/models"
	"github.com/vikasavnish/tradedesk/internal/services"
)

// LessonHandler handles lesson requests
type LessonHandler struct {
	lessonService services.LessonService
}

// NewLessonHandler creates a new lesson handler
func NewLessonHandler(lessonService services.LessonService) *LessonHandler {
	return &LessonHandler{lessonService: lessonService}
}

// RegisterRoutes registers lesson routes
func (h *LessonHandler) RegisterRoutes(read, write *mux.Router) {
	read.HandleFunc("/lessons", h.ListLessons).Methods("GET")
	write.HandleFunc("/lessons", h.CreateLesson).Methods("POST")
}

// ListLessons returns lessons, optionally filtered by category
func (h *LessonHandler) ListLessons(w http.ResponseWriter, r *http.Request) {
	lessons, err := h.lessonService.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeServiceError(w, r, err, "", "Failed to fetch lessons")
		return
	}
	writeJSON(w, http.StatusOK, lessons)
}

// CreateLesson records a new lesson
func (h *LessonHandler) CreateLesson(w http.ResponseWriter, r *http.Request) {
	var req models.LessonRequest
	if !decodeBody(w, r, &req) {
		return
	}

	lesson, err := h.lessonService.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, "", "Failed to save lesson")
		return
	}
	writeJSON(w, http.StatusCreated, lesson)
}
