package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vikasavnish/tradedesk/internal/models"
)

func newTestJournalService(t *testing.T) *journalService {
	t.Helper()
	return &journalService{
		db:  newTestDB(t),
		now: steppingClock(time.Date(2025, 1, 15, 21, 0, 0, 0, time.UTC)),
	}
}

func TestJournalUpsertAndGet(t *testing.T) {
	svc := newTestJournalService(t)

	first, err := svc.Upsert(bg, models.JournalEntryRequest{Date: "2025-01-15", Content: "# Open", Summary: "quiet open"})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.True(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC).Equal(first.Date))

	second, err := svc.Upsert(bg, models.JournalEntryRequest{Date: "2025-01-15T16:00:00Z", Content: "# Close"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "# Close", second.Content)
	assert.Nil(t, second.Summary)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))

	got, err := svc.GetByDate(bg, "2025-01-15")
	require.NoError(t, err)
	assert.Equal(t, "# Close", got.Content)
}

func TestJournalGetMissingDay(t *testing.T) {
	svc := newTestJournalService(t)

	_, err := svc.GetByDate(bg, "2024-12-31")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetByDate(bg, "yesterday")
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestJournalUpsertValidation(t *testing.T) {
	svc := newTestJournalService(t)

	_, err := svc.Upsert(bg, models.JournalEntryRequest{Date: "2025-01-15"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "date and content are required", verr.Message)

	_, err = svc.Upsert(bg, models.JournalEntryRequest{Date: "Jan 15", Content: "x"})
	require.True(t, errors.As(err, &verr))

	list, err := svc.List(bg)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestJournalListNewestDayFirst(t *testing.T) {
	svc := newTestJournalService(t)

	for _, day := range []string{"2025-01-14", "2025-01-16", "2025-01-15"} {
		_, err := svc.Upsert(bg, models.JournalEntryRequest{Date: day, Content: "notes for " + day, Summary: "summary " + day})
		require.NoError(t, err)
	}

	list, err := svc.List(bg)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.True(t, time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC).Equal(list[0].Date))
	assert.True(t, time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC).Equal(list[2].Date))
	require.NotNil(t, list[0].Summary)
	assert.Equal(t, "summary 2025-01-16", *list[0].Summary)
	assert.NotEmpty(t, list[0].ID)
}
