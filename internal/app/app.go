// Package app assembles HydroKeeper: it opens the database, runs first-run
// seeding and builds the services used by the CLI.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/hydrokeeper/internal/config"
	"github.com/dmitrijs2005/hydrokeeper/internal/filex"
	"github.com/dmitrijs2005/hydrokeeper/internal/logging"
	"github.com/dmitrijs2005/hydrokeeper/internal/metrics"
	"github.com/dmitrijs2005/hydrokeeper/internal/repositories/repomanager"
	"github.com/dmitrijs2005/hydrokeeper/internal/services"
	"github.com/prometheus/client_golang/prometheus"
)

// App owns the database handle and the services built on it.
type App struct {
	Config   *config.Config
	Logger   logging.Logger
	Registry *prometheus.Registry

	Catalog  *services.Catalog
	Ledger   *services.Ledger
	Presets  *services.Presets
	Settings *services.Settings
	Progress *services.Progress

	db *sql.DB
}

// Option customizes NewApp.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the ledger clock.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// NewApp opens cfg.DBPath, applies migrations, seeds the drink catalog,
// quick-add presets and installation id, and wires the services.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger, opts ...Option) (*App, error) {
	var o options
	for _, fn := range opts {
		fn(&o)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	path, err := filex.EnsureParentDir(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	rm := repomanager.NewSQLiteRepositoryManager()
	db, err := repomanager.InitDatabase(ctx, path, rm)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Registry: reg,
		db:       db,
	}
	a.Catalog = services.NewCatalog(db, rm, logger, m)
	a.Ledger = services.NewLedger(db, rm, a.Catalog, logger, m,
		services.WithLocation(loc), services.WithClock(o.now))
	a.Presets = services.NewPresets(db, rm, logger, m)
	a.Settings = services.NewSettings(db, rm, logger)
	a.Progress = services.NewProgress(a.Ledger, a.Settings)

	if err := a.seed(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) seed(ctx context.Context) error {
	if _, err := a.Catalog.Seed(ctx); err != nil {
		return err
	}
	if _, err := a.Presets.SeedDefaults(ctx); err != nil {
		return err
	}
	id, err := a.Settings.EnsureInstallationID(ctx)
	if err != nil {
		return err
	}
	a.Logger.Debug(ctx, "database ready", "path", a.Config.DBPath, "installation_id", id)
	return nil
}

// Close writes the metrics textfile, if configured, and closes the database.
func (a *App) Close() error {
	var errs []error
	if path := a.Config.MetricsTextfile; path != "" {
		if err := prometheus.WriteToTextfile(path, a.Registry); err != nil {
			errs = append(errs, fmt.Errorf("write metrics: %w", err))
		}
	}
	if err := a.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}
	return errors.Join(errs...)
}
