package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pav-beep/calorie.app/internal/models"
	"github.com/pav-beep/calorie.app/internal/store"
)

// Summarize filters entries to one owner identity and one calendar date
// and sums each macro field. An empty day is a zero summary, not an
// error. Identity matching here is exact; identities are normalized once
// at login, so the ledger only ever sees the canonical form.
func Summarize(identity string, entries []models.LogEntry, asOf time.Time) (models.DailySummary, error) {
	y, m, d := asOf.Date()

	summary := models.DailySummary{
		Date:    asOf.Format("2006-01-02"),
		Entries: []models.LogEntry{},
	}

	for _, e := range entries {
		if e.Identity != identity {
			continue
		}
		ey, em, ed := e.Timestamp.In(asOf.Location()).Date()
		if ey != y || em != m || ed != d {
			continue
		}

		calories, err := e.Calories.Float()
		if err != nil {
			return models.DailySummary{}, fmt.Errorf("entry %q: %w", e.FoodName, err)
		}
		protein, err := e.Protein.Float()
		if err != nil {
			return models.DailySummary{}, fmt.Errorf("entry %q: %w", e.FoodName, err)
		}
		carbs, err := e.Carbs.Float()
		if err != nil {
			return models.DailySummary{}, fmt.Errorf("entry %q: %w", e.FoodName, err)
		}
		fat, err := e.Fat.Float()
		if err != nil {
			return models.DailySummary{}, fmt.Errorf("entry %q: %w", e.FoodName, err)
		}

		summary.Calories += calories
		summary.Protein += protein
		summary.Carbs += carbs
		summary.Fat += fat
		summary.Entries = append(summary.Entries, e)
	}

	return summary, nil
}

// LedgerService appends meal entries and computes the daily dashboard
// view over the tabular store.
type LedgerService struct {
	store store.Store
	now   func() time.Time
}

func NewLedgerService(st store.Store) *LedgerService {
	return &LedgerService{store: st, now: time.Now}
}

// Append records one meal entry, stamping it with the server clock.
func (s *LedgerService) Append(ctx context.Context, identity string, record *models.NutritionRecord) (models.LogEntry, error) {
	entry := models.LogEntry{
		Identity:  identity,
		Timestamp: s.now(),
		FoodName:  record.FoodName,
		Calories:  models.NewMacro(float64(record.Calories)),
		Protein:   models.NewMacro(float64(record.Protein)),
		Carbs:     models.NewMacro(float64(record.Carbs)),
		Fat:       models.NewMacro(float64(record.Fat)),
		Micros:    record.Micros,
	}
	if err := s.store.Append(ctx, entry); err != nil {
		return models.LogEntry{}, err
	}
	return entry, nil
}

// TodaySummary re-reads the full log table and summarizes the current
// calendar date for the given identity. Recomputed on every call.
func (s *LedgerService) TodaySummary(ctx context.Context, identity string) (models.DailySummary, error) {
	entries, err := s.store.Entries(ctx)
	if err != nil {
		return models.DailySummary{}, err
	}
	return Summarize(identity, entries, s.now())
}
