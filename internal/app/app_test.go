package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/dmitrijs2005/hydrokeeper/internal/common"
	"github.com/dmitrijs2005/hydrokeeper/internal/config"
	"github.com/dmitrijs2005/hydrokeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	var cfg config.Config
	cfg.LoadDefaults()
	cfg.DBPath = filepath.Join(t.TempDir(), "data", "hydro.db")
	cfg.Timezone = "UTC"
	cfg.OperationTimeout = 2 * time.Second
	cfg.Retries = 2
	return &cfg
}

func TestNewApp_SeedsFreshDatabase(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	a, err := NewApp(ctx, cfg, logging.Discard())
	require.NoError(t, err)

	drinks, err := a.Catalog.List(ctx)
	require.NoError(t, err)
	assert.Len(t, drinks, 5)

	presets, err := a.Presets.List(ctx)
	require.NoError(t, err)
	require.Len(t, presets, 2)
	assert.Equal(t, 8.0, presets[0].Amount)
	assert.Equal(t, 16.0, presets[1].Amount)

	s, err := a.Settings.Get(ctx)
	require.NoError(t, err)
	id := s.InstallationID
	assert.NotEmpty(t, id)

	require.NoError(t, a.Presets.Remove(ctx, presets[0].ID))
	require.NoError(t, a.Close())

	a, err = NewApp(ctx, cfg, logging.Discard())
	require.NoError(t, err)
	defer a.Close()

	presets, err = a.Presets.List(ctx)
	require.NoError(t, err)
	assert.Len(t, presets, 1, "removed defaults are not re-seeded")

	s, err = a.Settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, s.InstallationID)
}

func TestNewApp_UsesClockAndTimezone(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Timezone = "Asia/Tokyo"
	now := time.Date(2024, 1, 1, 16, 0, 0, 0, time.UTC) // 01:00 on Jan 2 in Tokyo

	a, err := NewApp(ctx, cfg, logging.Discard(), WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	defer a.Close()

	ev, err := a.Ledger.Record(ctx, 10, "Water")
	require.NoError(t, err)
	assert.Equal(t, 2, ev.Timestamp.Day())

	total, err := a.Ledger.DailyTotal(ctx, time.Date(2024, 1, 2, 12, 0, 0, 0, a.Ledger.Location()))
	require.NoError(t, err)
	assert.Equal(t, 10.0, total)
}

func TestNewApp_BadTimezone(t *testing.T) {
	cfg := testConfig(t)
	cfg.Timezone = "Nowhere/Special"
	_, err := NewApp(context.Background(), cfg, logging.Discard())
	require.Error(t, err)
}

func TestClose_WritesMetricsTextfile(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.MetricsTextfile = filepath.Join(t.TempDir(), "hydro.prom")

	a, err := NewApp(ctx, cfg, logging.Discard())
	require.NoError(t, err)
	_, err = a.Ledger.Record(ctx, 8, "Tea")
	require.NoError(t, err)
	require.NoError(t, a.Close())

	b, err := os.ReadFile(cfg.MetricsTextfile)
	require.NoError(t, err)
	assert.Contains(t, string(b), `hydrokeeper_intake_volume_ounces_total{drink="Tea"} 8`)
	assert.Contains(t, string(b), `hydrokeeper_operations_total{op="record",result="ok"} 1`)
}

func TestDo_Retries(t *testing.T) {
	retryInitialInterval = time.Millisecond
	retryMaxInterval = time.Millisecond

	a := &App{Config: testConfig(t), Logger: logging.Discard()}
	ctx := context.Background()

	t.Run("storage errors are retried", func(t *testing.T) {
		calls := 0
		err := a.Do(ctx, "test", func(context.Context) error {
			calls++
			if calls < 3 {
				return fmt.Errorf("write: %w", common.ErrStorageUnavailable)
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("retries are bounded", func(t *testing.T) {
		calls := 0
		err := a.Do(ctx, "test", func(context.Context) error {
			calls++
			return common.ErrStorageUnavailable
		})
		require.ErrorIs(t, err, common.ErrStorageUnavailable)
		assert.Equal(t, 3, calls)
	})

	t.Run("domain errors are not retried", func(t *testing.T) {
		calls := 0
		err := a.Do(ctx, "test", func(context.Context) error {
			calls++
			return common.ErrDuplicate
		})
		require.ErrorIs(t, err, common.ErrDuplicate)
		assert.Equal(t, 1, calls)
	})

	t.Run("deadline is applied", func(t *testing.T) {
		err := a.Do(ctx, "test", func(ctx context.Context) error {
			_, ok := ctx.Deadline()
			if !ok {
				return errors.New("no deadline")
			}
			return nil
		})
		require.NoError(t, err)
	})
}
