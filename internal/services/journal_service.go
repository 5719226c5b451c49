package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vikasavnish/tradedesk/internal/models"
)

// JournalService defines the journal entry operations
type JournalService interface {
	List(ctx context.Context) ([]models.JournalSummary, error)
	GetByDate(ctx context.Context, date string) (*models.JournalEntry, error)
	Upsert(ctx context.Context, req models.JournalEntryRequest) (*models.JournalEntry, error)
}

type journalService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewJournalService creates a new journal service
func NewJournalService(db *gorm.DB) JournalService {
	return &journalService{db: db, now: time.Now}
}

// List returns the summary of every entry, newest day first
func (s *journalService) List(ctx context.Context) ([]models.JournalSummary, error) {
	var summaries []models.JournalSummary
	result := s.db.WithContext(ctx).
		Model(&models.JournalEntry{}).
		Select("id", "date", "summary").
		Order("date desc").
		Find(&summaries)
	return summaries, result.Error
}

// GetByDate returns the entry for the calendar day named by date
func (s *journalService) GetByDate(ctx context.Context, date string) (*models.JournalEntry, error) {
	day, err := ParseDay(date)
	if err != nil {
		return nil, err
	}

	var entry models.JournalEntry
	if err := s.db.WithContext(ctx).Where("date = ?", day).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// Upsert writes the entry for a day, replacing content and summary when the
// day already has one.
func (s *journalService) Upsert(ctx context.Context, req models.JournalEntryRequest) (*models.JournalEntry, error) {
	if anyBlank(req.Date, req.Content) {
		return nil, invalid("date and content are required")
	}
	day, err := ParseDay(req.Date)
	if err != nil {
		return nil, err
	}

	entry := models.JournalEntry{
		Date:      day,
		Content:   req.Content,
		Summary:   optional(req.Summary),
		UpdatedAt: s.now(),
	}

	db := s.db.WithContext(ctx)
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "summary", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return nil, err
	}

	var stored models.JournalEntry
	if err := db.Where("date = ?", day).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}
