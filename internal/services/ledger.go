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

// FactorSource resolves a drink type name to its catalog entry.
// *Catalog implements it.
type FactorSource interface {
	Lookup(ctx context.Context, name string) (*models.DrinkType, error)
}

// LedgerOption customizes a Ledger.
type LedgerOption func(*Ledger)

// WithClock replaces time.Now as the source of event timestamps.
func WithClock(now func() time.Time) LedgerOption {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}

// WithLocation sets the time zone that defines calendar days.
func WithLocation(loc *time.Location) LedgerOption {
	return func(l *Ledger) {
		if loc != nil {
			l.loc = loc
		}
	}
}

// Ledger is the append-only log of intake events and the aggregates derived
// from it. Amounts are in canonical ounces.
//
// A calendar day is [local midnight, next local midnight) in the ledger's
// location. Aggregates are recomputed from stored events on every call.
type Ledger struct {
	db      *sql.DB
	rm      repomanager.RepositoryManager
	factors FactorSource
	logger  logging.Logger
	metrics *metrics.Metrics
	now     func() time.Time
	loc     *time.Location
}

func NewLedger(db *sql.DB, rm repomanager.RepositoryManager, factors FactorSource, logger logging.Logger, m *metrics.Metrics, opts ...LedgerOption) *Ledger {
	l := &Ledger{
		db:      db,
		rm:      rm,
		factors: factors,
		logger:  logger.With("component", "ledger"),
		metrics: m,
		now:     time.Now,
		loc:     time.Local,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Location returns the time zone used for day boundaries.
func (l *Ledger) Location() *time.Location { return l.loc }

// Now returns the current time in the ledger's location.
func (l *Ledger) Now() time.Time { return l.now().In(l.loc) }

// Record appends one intake event stamped with the current time. The
// hydration amount is computed once, from the factor in effect now, and is
// never recomputed.
func (l *Ledger) Record(ctx context.Context, amount float64, drinkType string) (ev *models.IntakeEvent, err error) {
	defer func(start time.Time) { l.metrics.Observe("record", start, err) }(time.Now())

	if !validAmount(amount) {
		return nil, fmt.Errorf("record %v: %w", amount, common.ErrInvalidAmount)
	}
	if l.db == nil {
		return nil, common.ErrNotInitialized
	}

	d, err := l.factors.Lookup(ctx, drinkType)
	if err != nil {
		return nil, fmt.Errorf("record %q: %w", drinkType, err)
	}
	drinkType = d.Name

	ev = &models.IntakeEvent{
		Amount:          amount,
		DrinkType:       drinkType,
		HydrationAmount: amount * d.HydrationFactor,
		Timestamp:       l.now().Truncate(time.Millisecond).In(l.loc),
	}
	err = dbx.WithTx(ctx, l.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return l.rm.Intake(tx).Insert(ctx, ev)
	})
	if err != nil {
		return nil, dbx.StorageError("record", err)
	}

	l.metrics.AddIntake(drinkType, amount, ev.HydrationAmount)
	l.logger.Info(ctx, "intake recorded",
		"id", ev.ID, "drink", drinkType, "amount", amount, "hydration", ev.HydrationAmount)
	return ev, nil
}

// UndoLast removes the most recently recorded event, whatever its day, and
// returns it. On an empty log it returns (nil, nil).
func (l *Ledger) UndoLast(ctx context.Context) (removed *models.IntakeEvent, err error) {
	defer func(start time.Time) { l.metrics.Observe("undo", start, err) }(time.Now())

	err = dbx.WithTx(ctx, l.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := l.rm.Intake(tx)
		last, err := repo.Last(ctx)
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := repo.DeleteByID(ctx, last.ID); err != nil {
			return err
		}
		removed = last
		return nil
	})
	if err != nil {
		return nil, dbx.StorageError("undo", err)
	}

	if removed == nil {
		l.logger.Debug(ctx, "undo on empty ledger")
		return nil, nil
	}
	removed.Timestamp = removed.Timestamp.In(l.loc)
	l.logger.Info(ctx, "intake undone", "id", removed.ID, "drink", removed.DrinkType)
	return removed, nil
}

// ClearDay deletes every event on the calendar day containing date and
// reports how many were removed.
func (l *Ledger) ClearDay(ctx context.Context, date time.Time) (n int64, err error) {
	defer func(start time.Time) { l.metrics.Observe("clear_day", start, err) }(time.Now())

	from, to := l.dayBounds(date)
	err = dbx.WithTx(ctx, l.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		n, err = l.rm.Intake(tx).DeleteBetween(ctx, from, to)
		return err
	})
	if err != nil {
		return 0, dbx.StorageError("clear day", err)
	}
	l.logger.Info(ctx, "day cleared", "date", from.Format(time.DateOnly), "removed", n)
	return n, nil
}

// ClearAll deletes every event and reports how many were removed.
func (l *Ledger) ClearAll(ctx context.Context) (n int64, err error) {
	defer func(start time.Time) { l.metrics.Observe("clear_all", start, err) }(time.Now())

	err = dbx.WithTx(ctx, l.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		n, err = l.rm.Intake(tx).DeleteAll(ctx)
		return err
	})
	if err != nil {
		return 0, dbx.StorageError("clear all", err)
	}
	l.logger.Warn(ctx, "ledger cleared", "removed", n)
	return n, nil
}

// DailyTotal sums the hydration amounts of the calendar day containing date.
func (l *Ledger) DailyTotal(ctx context.Context, date time.Time) (total float64, err error) {
	defer func(start time.Time) { l.metrics.Observe("daily_total", start, err) }(time.Now())

	if l.db == nil {
		return 0, common.ErrNotInitialized
	}
	from, to := l.dayBounds(date)
	total, err = l.rm.Intake(l.db).SumHydrationBetween(ctx, from, to)
	if err != nil {
		return 0, dbx.StorageError("daily total", err)
	}
	return total, nil
}

// DayEvents returns the events of the calendar day containing date in
// recording order.
func (l *Ledger) DayEvents(ctx context.Context, date time.Time) ([]models.IntakeEvent, error) {
	if l.db == nil {
		return nil, common.ErrNotInitialized
	}
	from, to := l.dayBounds(date)
	events, err := l.rm.Intake(l.db).ListBetween(ctx, from, to)
	if err != nil {
		return nil, dbx.StorageError("day events", err)
	}
	for i := range events {
		events[i].Timestamp = events[i].Timestamp.In(l.loc)
	}
	return events, nil
}

// MonthlyTotals returns the hydration total of every day of the month keyed
// by day of month. Days without events map to 0.
func (l *Ledger) MonthlyTotals(ctx context.Context, year int, month time.Month) (totals map[int]float64, err error) {
	defer func(start time.Time) { l.metrics.Observe("monthly_totals", start, err) }(time.Now())

	if month < time.January || month > time.December {
		return nil, fmt.Errorf("month %d: %w", month, common.ErrInvalidValue)
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, l.loc)
	days := first.AddDate(0, 1, -1).Day()

	series, err := l.Range(ctx, first, days)
	if err != nil {
		return nil, err
	}
	totals = make(map[int]float64, days)
	for _, d := range series {
		totals[d.Date.Day()] = d.Total
	}
	return totals, nil
}

// Last7Days returns seven consecutive daily totals ending with the day that
// contains ref, oldest first. The window may span two months.
func (l *Ledger) Last7Days(ctx context.Context, ref time.Time) (series []models.DayTotal, err error) {
	defer func(start time.Time) { l.metrics.Observe("last_7_days", start, err) }(time.Now())

	first, _ := l.dayBounds(ref)
	return l.Range(ctx, first.AddDate(0, 0, -6), 7)
}

// Range returns the totals of days consecutive calendar days starting with
// the day that contains from, oldest first.
func (l *Ledger) Range(ctx context.Context, from time.Time, days int) ([]models.DayTotal, error) {
	if days <= 0 {
		return nil, fmt.Errorf("range of %d days: %w", days, common.ErrInvalidValue)
	}
	if l.db == nil {
		return nil, common.ErrNotInitialized
	}

	start, _ := l.dayBounds(from)
	end := start.AddDate(0, 0, days)

	events, err := l.rm.Intake(l.db).ListBetween(ctx, start, end)
	if err != nil {
		return nil, dbx.StorageError("range totals", err)
	}

	series := make([]models.DayTotal, days)
	index := make(map[string]int, days)
	for i := range series {
		d := start.AddDate(0, 0, i)
		series[i].Date = d
		index[d.Format(time.DateOnly)] = i
	}
	for _, ev := range events {
		if i, ok := index[ev.Timestamp.In(l.loc).Format(time.DateOnly)]; ok {
			series[i].Total += ev.HydrationAmount
		}
	}
	return series, nil
}

// dayBounds returns local midnight of the day containing t and the next
// local midnight. AddDate keeps the bounds correct across DST changes.
func (l *Ledger) dayBounds(t time.Time) (time.Time, time.Time) {
	t = t.In(l.loc)
	from := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, l.loc)
	return from, from.AddDate(0, 0, 1)
}
