package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/dmitrijs2005/hydrokeeper/internal/logging"
	"github.com/dmitrijs2005/hydrokeeper/internal/metrics"
	"github.com/dmitrijs2005/hydrokeeper/internal/repositories/repomanager"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

// fakeClock is a settable time source.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Set(t time.Time)         { c.t = t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type testEnv struct {
	db       *sql.DB
	rm       repomanager.RepositoryManager
	metrics  *metrics.Metrics
	reg      *prometheus.Registry
	clock    *fakeClock
	catalog  *Catalog
	ledger   *Ledger
	presets  *Presets
	settings *Settings
	progress *Progress
}

// newTestEnv opens a migrated database in a temp dir and seeds the catalog.
func newTestEnv(t *testing.T, now time.Time) *testEnv {
	t.Helper()
	ctx := context.Background()

	rm := repomanager.NewSQLiteRepositoryManager()
	db, err := repomanager.InitDatabase(ctx, filepath.Join(t.TempDir(), "hydro.db"), rm)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	log := discardLogger()
	clock := &fakeClock{t: now}

	env := &testEnv{db: db, rm: rm, metrics: m, reg: reg, clock: clock}
	env.catalog = NewCatalog(db, rm, log, m)
	env.ledger = NewLedger(db, rm, env.catalog, log, m, WithClock(clock.Now), WithLocation(now.Location()))
	env.presets = NewPresets(db, rm, log, m)
	env.settings = NewSettings(db, rm, log)
	env.progress = NewProgress(env.ledger, env.settings)

	_, err = env.catalog.Seed(ctx)
	require.NoError(t, err)
	return env
}

func mustLoc(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func discardLogger() logging.Logger { return logging.Discard() }
