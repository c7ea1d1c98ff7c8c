package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/hydrokeeper/internal/models"
)

// maxStreakDays bounds how far back Streak scans.
const maxStreakDays = 366

// Progress compares ledger totals with the daily goal.
type Progress struct {
	ledger   *Ledger
	settings *Settings
}

func NewProgress(ledger *Ledger, settings *Settings) *Progress {
	return &Progress{ledger: ledger, settings: settings}
}

// Day reports progress toward the goal on the day containing date.
func (p *Progress) Day(ctx context.Context, date time.Time) (models.DayProgress, error) {
	cfg, err := p.settings.Get(ctx)
	if err != nil {
		return models.DayProgress{}, err
	}
	total, err := p.ledger.DailyTotal(ctx, date)
	if err != nil {
		return models.DayProgress{}, err
	}
	day, _ := p.ledger.dayBounds(date)
	return NewDayProgress(day, total, cfg.DailyGoal), nil
}

// Streak counts consecutive days, ending at ref, on which the goal was met.
// A day ref that has not met the goal yet does not break the streak.
func (p *Progress) Streak(ctx context.Context, ref time.Time) (int, error) {
	cfg, err := p.settings.Get(ctx)
	if err != nil {
		return 0, err
	}
	last, _ := p.ledger.dayBounds(ref)
	series, err := p.ledger.Range(ctx, last.AddDate(0, 0, -(maxStreakDays-1)), maxStreakDays)
	if err != nil {
		return 0, err
	}

	i := len(series) - 1
	if series[i].Total < cfg.DailyGoal {
		i--
	}
	streak := 0
	for ; i >= 0 && series[i].Total >= cfg.DailyGoal; i-- {
		streak++
	}
	return streak, nil
}

// NewDayProgress derives the progress figures of one day. Fraction is capped
// at 1 and Remaining never drops below 0.
func NewDayProgress(date time.Time, total, goal float64) models.DayProgress {
	dp := models.DayProgress{Date: date, Total: total, Goal: goal}
	if goal > 0 {
		dp.Fraction = min(total/goal, 1)
	}
	dp.Remaining = max(goal-total, 0)
	dp.Met = goal > 0 && total >= goal
	return dp
}
