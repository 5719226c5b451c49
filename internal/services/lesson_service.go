package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/vikasavnish/tradedesk/internal/models"
)

// LessonService defines the lesson operations
type LessonService interface {
	List(ctx context.Context, category string) ([]models.LessonView, error)
	Create(ctx context.Context, req models.LessonRequest) (*models.LessonView, error)
}

type lessonService struct {
	db *gorm.DB
}

// NewLessonService creates a new lesson service
func NewLessonService(db *gorm.DB) LessonService {
	return &lessonService{db: db}
}

// List returns lessons newest first, optionally restricted to one category
func (s *lessonService) List(ctx context.Context, category string) ([]models.LessonView, error) {
	query := s.db.WithContext(ctx).Preload("TradeReasoning").Order("taught_at desc").Order("created_at desc")
	if category = strings.TrimSpace(category); category != "" {
		query = query.Where("category = ?", category)
	}

	var lessons []models.Lesson
	if err := query.Find(&lessons).Error; err != nil {
		return nil, err
	}

	views := make([]models.LessonView, 0, len(lessons))
	for _, l := range lessons {
		views = append(views, lessonView(l))
	}
	return views, nil
}

// Create stores a new lesson
func (s *lessonService) Create(ctx context.Context, req models.LessonRequest) (*models.LessonView, error) {
	if anyBlank(req.Title, req.Description, req.Category, req.TaughtAt) {
		return nil, invalid("title, description, category, and taught_at are required")
	}
	taughtAt, err := ParseTimestamp(req.TaughtAt)
	if err != nil {
		return nil, err
	}

	lesson := models.Lesson{
		Title:            req.Title,
		Description:      req.Description,
		Category:         strings.TrimSpace(req.Category),
		TaughtAt:         taughtAt,
		TradeReasoningID: optional(req.TradeReasoningID),
	}

	db := s.db.WithContext(ctx)
	if lesson.TradeReasoningID != nil {
		var count int64
		if err := db.Model(&models.TradeReasoning{}).Where("id = ?", *lesson.TradeReasoningID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, invalid("trade_reasoning_id does not match any trade reasoning")
		}
	}

	if err := db.Create(&lesson).Error; err != nil {
		return nil, err
	}
	if err := db.Preload("TradeReasoning").First(&lesson, "id = ?", lesson.ID).Error; err != nil {
		return nil, err
	}

	view := lessonView(lesson)
	return &view, nil
}

func lessonView(l models.Lesson) models.LessonView {
	view := models.LessonView{Lesson: l}
	if l.TradeReasoning != nil {
		view.TradeReasoning = &models.TradeRef{Symbol: l.TradeReasoning.Symbol, Side: l.TradeReasoning.Side}
	}
	return view
}
