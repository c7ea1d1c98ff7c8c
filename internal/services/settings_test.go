package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/hydrokeeper/internal/common"
	"github.com/dmitrijs2005/hydrokeeper/internal/models"
	"github.com/dmitrijs2005/hydrokeeper/internal/units"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_Defaults(t *testing.T) {
	env := newTestEnv(t, time.Now())

	got, err := env.settings.Get(context.Background())
	require.NoError(t, err)
	if diff := cmp.Diff(models.DefaultSettings(), got); diff != "" {
		t.Fatalf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestSettings_Setters(t *testing.T) {
	env := newTestEnv(t, time.Now())
	ctx := context.Background()

	require.NoError(t, env.settings.SetDailyGoal(ctx, 96.5))
	require.NoError(t, env.settings.SetMeasurementUnit(ctx, units.Milliliters))
	require.NoError(t, env.settings.SetNotifications(ctx, true))
	require.NoError(t, env.settings.SetSound(ctx, false))
	require.NoError(t, env.settings.SetVibration(ctx, false))
	require.NoError(t, env.settings.SetNotificationWindow(ctx, "7:30", "21:00"))
	require.NoError(t, env.settings.SetNotificationDelay(ctx, 45))

	want := models.Settings{
		DailyGoal:            96.5,
		MeasurementUnit:      units.Milliliters,
		NotificationsEnabled: true,
		SoundEnabled:         false,
		VibrationEnabled:     false,
		NotificationStart:    "07:30",
		NotificationEnd:      "21:00",
		NotificationDelay:    45,
	}
	got, err := env.settings.Get(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestSettings_Validation(t *testing.T) {
	env := newTestEnv(t, time.Now())
	ctx := context.Background()

	require.ErrorIs(t, env.settings.SetDailyGoal(ctx, 0), common.ErrInvalidAmount)
	require.ErrorIs(t, env.settings.SetMeasurementUnit(ctx, "furlongs"), common.ErrInvalidUnit)
	require.ErrorIs(t, env.settings.SetNotificationWindow(ctx, "25:00", "08:00"), common.ErrInvalidValue)
	require.ErrorIs(t, env.settings.SetNotificationWindow(ctx, "09:00", "nope"), common.ErrInvalidValue)
	require.ErrorIs(t, env.settings.SetNotificationWindow(ctx, "20:00", "08:00"), common.ErrInvalidValue)
	require.ErrorIs(t, env.settings.SetNotificationDelay(ctx, 0), common.ErrInvalidValue)

	got, err := env.settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), got)
}

func TestSettings_MalformedValueFallsBackToDefault(t *testing.T) {
	env := newTestEnv(t, time.Now())
	ctx := context.Background()

	repo := env.rm.Settings(env.db)
	require.NoError(t, repo.Set(ctx, keyDailyGoal, "lots"))
	require.NoError(t, repo.Set(ctx, keySound, "maybe"))

	got, err := env.settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 150.0, got.DailyGoal)
	assert.True(t, got.SoundEnabled)

	tests := []struct {
		name  string
		key   string
		value string
		check func(t *testing.T, s models.Settings)
	}{
		{"zero goal", keyDailyGoal, "0", func(t *testing.T, s models.Settings) { assert.Equal(t, 150.0, s.DailyGoal) }},
		{"negative goal", keyDailyGoal, "-5", func(t *testing.T, s models.Settings) { assert.Equal(t, 150.0, s.DailyGoal) }},
		{"NaN goal", keyDailyGoal, "NaN", func(t *testing.T, s models.Settings) { assert.Equal(t, 150.0, s.DailyGoal) }},
		{"infinite goal", keyDailyGoal, "+Inf", func(t *testing.T, s models.Settings) { assert.Equal(t, 150.0, s.DailyGoal) }},
		{"zero delay", keyNotifyDelay, "0", func(t *testing.T, s models.Settings) { assert.Equal(t, 60, s.NotificationDelay) }},
		{"negative delay", keyNotifyDelay, "-10", func(t *testing.T, s models.Settings) { assert.Equal(t, 60, s.NotificationDelay) }},
		{"bad start", keyNotifyStart, "8am", func(t *testing.T, s models.Settings) {
			assert.Equal(t, "08:00", s.NotificationStart)
			assert.Equal(t, "20:00", s.NotificationEnd)
		}},
		{"bad end", keyNotifyEnd, "25:00", func(t *testing.T, s models.Settings) {
			assert.Equal(t, "08:00", s.NotificationStart)
			assert.Equal(t, "20:00", s.NotificationEnd)
		}},
		{"start after end", keyNotifyStart, "21:00", func(t *testing.T, s models.Settings) {
			assert.Equal(t, "08:00", s.NotificationStart)
			assert.Equal(t, "20:00", s.NotificationEnd)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, env.settings.Reset(ctx))
			require.NoError(t, repo.Set(ctx, tt.key, tt.value))

			got, err := env.settings.Get(ctx)
			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestSettings_StoredWindowIsKept(t *testing.T) {
	env := newTestEnv(t, time.Now())
	ctx := context.Background()

	repo := env.rm.Settings(env.db)
	require.NoError(t, repo.Set(ctx, keyNotifyStart, "07:30"))
	require.NoError(t, repo.Set(ctx, keyNotifyEnd, "22:15"))

	got, err := env.settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "07:30", got.NotificationStart)
	assert.Equal(t, "22:15", got.NotificationEnd)
}

func TestSettings_ResetKeepsInternalKeys(t *testing.T) {
	env := newTestEnv(t, time.Now())
	ctx := context.Background()

	id, err := env.settings.EnsureInstallationID(ctx)
	require.NoError(t, err)
	_, err = env.presets.SeedDefaults(ctx)
	require.NoError(t, err)
	require.NoError(t, env.settings.SetDailyGoal(ctx, 64))

	require.NoError(t, env.settings.Reset(ctx))

	got, err := env.settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 150.0, got.DailyGoal)
	assert.Equal(t, id, got.InstallationID)

	seeded, err := env.presets.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)
}

func TestSettings_EnsureInstallationID(t *testing.T) {
	env := newTestEnv(t, time.Now())
	ctx := context.Background()

	id, err := env.settings.EnsureInstallationID(ctx)
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err)

	again, err := env.settings.EnsureInstallationID(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, again)
}
