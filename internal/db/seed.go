package db

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vikasavnish/tradedesk/internal/models"
)

const seedOrderID = "seed-nvda-001"

// Seed inserts one example record of each kind. Records that already exist
// are left untouched, so it is safe on every start.
func Seed(db *gorm.DB, log zerolog.Logger) error {
	return db.Transaction(func(tx *gorm.DB) error {
		day := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

		trade := models.TradeReasoning{
			AlpacaOrderID: seedOrderID,
			Symbol:        "NVDA",
			Side:          "buy",
			Reasoning: "NVDA showing strong momentum after earnings beat. AI/datacenter demand continues to accelerate. " +
				"RSI pulled back to 55 from overbought levels, providing a reasonable entry point. Position sized at 2% of portfolio.",
			Strategy:   strPtr("momentum"),
			StopLoss:   decimal.NewNullDecimal(decimal.NewFromInt(120)),
			TakeProfit: decimal.NewNullDecimal(decimal.NewFromInt(155)),
			Lesson: strPtr("When entering momentum trades, wait for a pullback to a reasonable RSI level rather than " +
				"chasing the initial move. This improves risk/reward ratio."),
		}
		if err := tx.Where(models.TradeReasoning{AlpacaOrderID: seedOrderID}).FirstOrCreate(&trade).Error; err != nil {
			return err
		}

		journal := models.JournalEntry{
			Date: day,
			Content: "# Market Open - January 15, 2025\n\n" +
				"## Market Conditions\n- S&P 500 futures up 0.3% pre-market\n- VIX at 16.2, low volatility environment\n\n" +
				"## Trades Executed\n- **BUY NVDA** @ $134.50: momentum entry on pullback to 20-day MA. Stop at $120, target $155.\n\n" +
				"## Lessons\n- Patience paid off today. Waited for the pullback instead of chasing the morning gap up.\n",
			Summary: strPtr("Entered NVDA on pullback. Market conditions favorable with low VIX."),
		}
		if err := tx.Where(models.JournalEntry{Date: day}).FirstOrCreate(&journal).Error; err != nil {
			return err
		}

		item := models.WatchlistItem{
			Symbol:      "AAPL",
			Notes:       strPtr("Watching for a bounce off $182 support. Services revenue growing steadily."),
			TargetEntry: decimal.NewNullDecimal(decimal.NewFromInt(182)),
			TargetExit:  decimal.NewNullDecimal(decimal.NewFromInt(195)),
			StopLoss:    decimal.NewNullDecimal(decimal.NewFromInt(175)),
			Status:      models.DefaultWatchlistStatus,
		}
		if err := tx.Where(models.WatchlistItem{Symbol: "AAPL"}).FirstOrCreate(&item).Error; err != nil {
			return err
		}

		lesson := models.Lesson{
			Title: "Position Sizing: The 2% Rule",
			Description: "Never risk more than 2% of your portfolio on a single trade. If your stop loss is 10% below " +
				"your entry, your position size should be 20% of your portfolio at most.",
			Category:         "risk management",
			TaughtAt:         day,
			TradeReasoningID: &trade.ID,
		}
		if err := tx.Where(models.Lesson{Title: lesson.Title}).FirstOrCreate(&lesson).Error; err != nil {
			return err
		}

		log.Info().Msg("Seed data ensured")
		return nil
	})
}

func strPtr(s string) *string {
	return &s
}
