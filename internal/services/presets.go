package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/hydrokeeper/internal/common"
	"github.com/dmitrijs2005/hydrokeeper/internal/dbx"
	"github.com/dmitrijs2005/hydrokeeper/internal/logging"
	"github.com/dmitrijs2005/hydrokeeper/internal/metrics"
	"github.com/dmitrijs2005/hydrokeeper/internal/models"
	"github.com/dmitrijs2005/hydrokeeper/internal/repositories/repomanager"
)

// DefaultPresetAmounts are the quick-add amounts (oz) of a fresh installation.
var DefaultPresetAmounts = []float64{8, 16}

// presetsSeededKey marks that defaults were seeded once. Presets the user
// deletes afterwards are not re-created.
const presetsSeededKey = "quick_add_seeded"

// Presets manages the quick-add amounts. Amounts are unique and positive.
type Presets struct {
	db      *sql.DB
	rm      repomanager.RepositoryManager
	logger  logging.Logger
	metrics *metrics.Metrics
}

func NewPresets(db *sql.DB, rm repomanager.RepositoryManager, logger logging.Logger, m *metrics.Metrics) *Presets {
	return &Presets{db: db, rm: rm, logger: logger.With("component", "presets"), metrics: m}
}

// SeedDefaults stores DefaultPresetAmounts on first run and reports whether
// it did.
func (p *Presets) SeedDefaults(ctx context.Context) (seeded bool, err error) {
	err = dbx.WithTx(ctx, p.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		meta := p.rm.Settings(tx)
		_, done, err := meta.Get(ctx, presetsSeededKey)
		if err != nil || done {
			return err
		}
		repo := p.rm.QuickAdd(tx)
		for _, a := range DefaultPresetAmounts {
			_, err := repo.FindByAmount(ctx, a)
			if err == nil {
				continue
			}
			if !errors.Is(err, common.ErrNotFound) {
				return err
			}
			if err := repo.Insert(ctx, &models.QuickAddPreset{Amount: a}); err != nil {
				return err
			}
		}
		seeded = true
		return meta.Set(ctx, presetsSeededKey, "1")
	})
	if err != nil {
		return false, dbx.StorageError("seed presets", err)
	}
	if seeded {
		p.logger.Info(ctx, "quick-add presets seeded", "amounts", DefaultPresetAmounts)
	}
	return seeded, nil
}

// Add stores a new preset. An amount that already exists fails with
// common.ErrDuplicate.
func (p *Presets) Add(ctx context.Context, amount float64) (preset *models.QuickAddPreset, err error) {
	defer func(start time.Time) { p.metrics.Observe("preset_add", start, err) }(time.Now())

	if !validAmount(amount) {
		return nil, fmt.Errorf("preset %v: %w", amount, common.ErrInvalidAmount)
	}
	preset = &models.QuickAddPreset{Amount: amount}
	err = dbx.WithTx(ctx, p.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := p.rm.QuickAdd(tx)
		if err := ensureAmountFree(ctx, repo.FindByAmount, amount, 0); err != nil {
			return err
		}
		return repo.Insert(ctx, preset)
	})
	if err != nil {
		return nil, dbx.StorageError("add preset", err)
	}
	p.logger.Info(ctx, "preset added", "id", preset.ID, "amount", amount)
	return preset, nil
}

// Update changes the amount of preset id.
func (p *Presets) Update(ctx context.Context, id int64, amount float64) (err error) {
	defer func(start time.Time) { p.metrics.Observe("preset_update", start, err) }(time.Now())

	if !validAmount(amount) {
		return fmt.Errorf("preset %v: %w", amount, common.ErrInvalidAmount)
	}
	err = dbx.WithTx(ctx, p.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := p.rm.QuickAdd(tx)
		if _, err := repo.GetByID(ctx, id); err != nil {
			return err
		}
		if err := ensureAmountFree(ctx, repo.FindByAmount, amount, id); err != nil {
			return err
		}
		return repo.Update(ctx, id, amount)
	})
	if err != nil {
		return dbx.StorageError("update preset", err)
	}
	p.logger.Info(ctx, "preset updated", "id", id, "amount", amount)
	return nil
}

// Remove deletes preset id.
func (p *Presets) Remove(ctx context.Context, id int64) (err error) {
	defer func(start time.Time) { p.metrics.Observe("preset_remove", start, err) }(time.Now())

	err = dbx.WithTx(ctx, p.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return p.rm.QuickAdd(tx).Delete(ctx, id)
	})
	if err != nil {
		return dbx.StorageError("remove preset", err)
	}
	p.logger.Info(ctx, "preset removed", "id", id)
	return nil
}

// Get returns preset id.
func (p *Presets) Get(ctx context.Context, id int64) (*models.QuickAddPreset, error) {
	if p.db == nil {
		return nil, common.ErrNotInitialized
	}
	preset, err := p.rm.QuickAdd(p.db).GetByID(ctx, id)
	if err != nil {
		return nil, dbx.StorageError("get preset", err)
	}
	return preset, nil
}

// List returns all presets in ascending amount order.
func (p *Presets) List(ctx context.Context) ([]models.QuickAddPreset, error) {
	if p.db == nil {
		return nil, common.ErrNotInitialized
	}
	list, err := p.rm.QuickAdd(p.db).List(ctx)
	if err != nil {
		return nil, dbx.StorageError("list presets", err)
	}
	return list, nil
}

// ensureAmountFree fails with common.ErrDuplicate if amount belongs to a
// preset other than self.
func ensureAmountFree(ctx context.Context, find func(context.Context, float64) (*models.QuickAddPreset, error), amount float64, self int64) error {
	existing, err := find(ctx, amount)
	switch {
	case errors.Is(err, common.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != self:
		return fmt.Errorf("preset %v: %w", amount, common.ErrDuplicate)
	}
	return nil
}
