package services

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dmitrijs2005/hydrokeeper/internal/common"
	"github.com/dmitrijs2005/hydrokeeper/internal/dbx"
	"github.com/dmitrijs2005/hydrokeeper/internal/logging"
	"github.com/dmitrijs2005/hydrokeeper/internal/metrics"
	"github.com/dmitrijs2005/hydrokeeper/internal/models"
	"github.com/dmitrijs2005/hydrokeeper/internal/repositories/repomanager"
)

// DefaultDrinkTypes is the catalog of a fresh installation.
var DefaultDrinkTypes = []models.DrinkType{
	{Name: "Water", HydrationFactor: 1.0},
	{Name: "Coffee", HydrationFactor: 0.98},
	{Name: "Tea", HydrationFactor: 0.99},
	{Name: "Soda", HydrationFactor: 0.93},
	{Name: "Milk", HydrationFactor: 0.87},
}

// Catalog manages drink types and answers hydration factor lookups.
//
// A lookup of an unknown drink type fails with common.ErrNotFound; there is
// no implicit default factor.
type Catalog struct {
	db      *sql.DB
	rm      repomanager.RepositoryManager
	logger  logging.Logger
	metrics *metrics.Metrics
}

func NewCatalog(db *sql.DB, rm repomanager.RepositoryManager, logger logging.Logger, m *metrics.Metrics) *Catalog {
	return &Catalog{db: db, rm: rm, logger: logger.With("component", "catalog"), metrics: m}
}

// Seed inserts DefaultDrinkTypes when the catalog is empty and reports
// whether it did. Seeding a non-empty catalog is a no-op.
func (c *Catalog) Seed(ctx context.Context) (seeded bool, err error) {
	defer func(start time.Time) { c.metrics.Observe("catalog_seed", start, err) }(time.Now())

	err = dbx.WithTx(ctx, c.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := c.rm.DrinkTypes(tx)
		n, err := repo.Count(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		for _, d := range DefaultDrinkTypes {
			d := d
			if err := repo.Insert(ctx, &d); err != nil {
				return err
			}
		}
		seeded = true
		return nil
	})
	if err != nil {
		return false, dbx.StorageError("seed catalog", err)
	}
	if seeded {
		c.logger.Info(ctx, "drink catalog seeded", "count", len(DefaultDrinkTypes))
	}
	return seeded, nil
}

// Lookup returns the drink type matching name regardless of case, with the
// name spelled as stored.
func (c *Catalog) Lookup(ctx context.Context, name string) (*models.DrinkType, error) {
	if c.db == nil {
		return nil, common.ErrNotInitialized
	}
	d, err := c.rm.DrinkTypes(c.db).GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, dbx.StorageError("lookup drink type", err)
	}
	return d, nil
}

// HydrationFactorOf returns the factor of the named drink type.
func (c *Catalog) HydrationFactorOf(ctx context.Context, name string) (float64, error) {
	d, err := c.Lookup(ctx, name)
	if err != nil {
		return 0, err
	}
	return d.HydrationFactor, nil
}

// List returns every drink type ordered by name.
func (c *Catalog) List(ctx context.Context) ([]models.DrinkType, error) {
	if c.db == nil {
		return nil, common.ErrNotInitialized
	}
	list, err := c.rm.DrinkTypes(c.db).List(ctx)
	if err != nil {
		return nil, dbx.StorageError("list drink types", err)
	}
	return list, nil
}

// Add registers a new drink type.
func (c *Catalog) Add(ctx context.Context, name string, factor float64) (d *models.DrinkType, err error) {
	defer func(start time.Time) { c.metrics.Observe("catalog_add", start, err) }(time.Now())

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("drink name is required: %w", common.ErrInvalidValue)
	}
	if !validFactor(factor) {
		return nil, fmt.Errorf("hydration factor %v: %w", factor, common.ErrInvalidAmount)
	}

	d = &models.DrinkType{Name: name, HydrationFactor: factor}
	err = dbx.WithTx(ctx, c.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return c.rm.DrinkTypes(tx).Insert(ctx, d)
	})
	if err != nil {
		return nil, dbx.StorageError("add drink type", err)
	}
	c.logger.Info(ctx, "drink type added", "name", name, "factor", factor)
	return d, nil
}

// SetHydrationFactor changes the factor used for future records. Events that
// are already stored keep the hydration amount computed when they were
// written.
func (c *Catalog) SetHydrationFactor(ctx context.Context, name string, factor float64) (err error) {
	defer func(start time.Time) { c.metrics.Observe("catalog_set_factor", start, err) }(time.Now())

	if !validFactor(factor) {
		return fmt.Errorf("hydration factor %v: %w", factor, common.ErrInvalidAmount)
	}
	err = dbx.WithTx(ctx, c.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return c.rm.DrinkTypes(tx).UpdateFactor(ctx, name, factor)
	})
	if err != nil {
		return dbx.StorageError("set hydration factor", err)
	}
	c.logger.Info(ctx, "hydration factor changed", "name", name, "factor", factor)
	return nil
}

func validFactor(f float64) bool {
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}

// validAmount reports whether a is a usable positive quantity.
func validAmount(a float64) bool {
	return a > 0 && !math.IsInf(a, 0) && !math.IsNaN(a)
}
