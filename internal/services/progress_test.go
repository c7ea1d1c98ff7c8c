package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDayProgress(t *testing.T) {
	day := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name          string
		total, goal   float64
		wantFraction  float64
		wantRemaining float64
		wantMet       bool
	}{
		{"empty", 0, 100, 0, 100, false},
		{"half", 50, 100, 0.5, 50, false},
		{"exact", 100, 100, 1, 0, true},
		{"over", 130, 100, 1, 0, true},
		{"no goal", 10, 0, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewDayProgress(day, tt.total, tt.goal)
			assert.Equal(t, day, got.Date)
			assert.InDelta(t, tt.wantFraction, got.Fraction, eps)
			assert.InDelta(t, tt.wantRemaining, got.Remaining, eps)
			assert.Equal(t, tt.wantMet, got.Met)
		})
	}
}

func TestProgress_Day(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	env := newTestEnv(t, now)
	ctx := context.Background()

	require.NoError(t, env.settings.SetDailyGoal(ctx, 64))
	_, err := env.ledger.Record(ctx, 16, "Water")
	require.NoError(t, err)

	p, err := env.progress.Day(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-15", p.Date.Format(time.DateOnly))
	assert.InDelta(t, 16, p.Total, eps)
	assert.InDelta(t, 0.25, p.Fraction, eps)
	assert.InDelta(t, 48, p.Remaining, eps)
	assert.False(t, p.Met)
}

func TestProgress_Streak(t *testing.T) {
	today := time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC)
	env := newTestEnv(t, today)
	ctx := context.Background()
	require.NoError(t, env.settings.SetDailyGoal(ctx, 32))

	record := func(daysAgo int, amount float64) {
		env.clock.Set(today.AddDate(0, 0, -daysAgo))
		_, err := env.ledger.Record(ctx, amount, "Water")
		require.NoError(t, err)
	}
	record(5, 40) // broken by day 4
	record(3, 32)
	record(2, 16)
	record(2, 16)
	record(1, 50)

	streak, err := env.progress.Streak(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 3, streak, "today is still open")

	record(0, 32)
	streak, err = env.progress.Streak(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 4, streak)

	streak, err = env.progress.Streak(ctx, today.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Zero(t, streak)
}
