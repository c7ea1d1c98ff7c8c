package intake

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/hydrokeeper/internal/common"
	"github.com/dmitrijs2005/hydrokeeper/internal/dbx"
	"github.com/dmitrijs2005/hydrokeeper/internal/models"
)

// TimestampLayout is the stored text form of event timestamps (always UTC).
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses a stored timestamp. RFC 3339 values written by older
// versions are accepted as well.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, s)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Insert appends a new event and sets e.ID from the generated rowid.
func (r *SQLiteRepository) Insert(ctx context.Context, e *models.IntakeEvent) error {
	query := `INSERT INTO water_intake (amount, hydration_amount, drink_type, timestamp)
			VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		e.Amount, e.HydrationAmount, e.DrinkType, FormatTimestamp(e.Timestamp))
	if err != nil {
		return fmt.Errorf("failed to insert intake: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted id: %w", err)
	}
	e.ID = id
	return nil
}

// Last returns the most recently inserted event.
func (r *SQLiteRepository) Last(ctx context.Context) (*models.IntakeEvent, error) {
	query := `SELECT id, amount, hydration_amount, drink_type, timestamp
			FROM water_intake ORDER BY id DESC LIMIT 1`
	e, err := scanEvent(r.db.QueryRowContext(ctx, query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select last intake: %w", err)
	}
	return e, nil
}

// DeleteByID removes a single event. It expects exactly one row to be affected.
func (r *SQLiteRepository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM water_intake WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete intake: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return fmt.Errorf("intake %d: %w", id, common.ErrNotFound)
	}
	return nil
}

// DeleteBetween removes events with from <= timestamp < to.
func (r *SQLiteRepository) DeleteBetween(ctx context.Context, from, to time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM water_intake WHERE timestamp >= ? AND timestamp < ?`,
		FormatTimestamp(from), FormatTimestamp(to))
	if err != nil {
		return 0, fmt.Errorf("failed to delete intake range: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return ra, nil
}

// DeleteAll empties the log.
func (r *SQLiteRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM water_intake`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear intake: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return ra, nil
}

// SumHydrationBetween returns the sum of hydration_amount in [from, to).
func (r *SQLiteRepository) SumHydrationBetween(ctx context.Context, from, to time.Time) (float64, error) {
	var sum float64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(hydration_amount), 0) FROM water_intake
			WHERE timestamp >= ? AND timestamp < ?`,
		FormatTimestamp(from), FormatTimestamp(to)).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum intake: %w", err)
	}
	return sum, nil
}

// ListBetween returns events in [from, to) ordered by id.
func (r *SQLiteRepository) ListBetween(ctx context.Context, from, to time.Time) ([]models.IntakeEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, amount, hydration_amount, drink_type, timestamp FROM water_intake
			WHERE timestamp >= ? AND timestamp < ? ORDER BY id`,
		FormatTimestamp(from), FormatTimestamp(to))
	if err != nil {
		return nil, fmt.Errorf("failed to select intake: %w", err)
	}
	defer rows.Close()

	var result []models.IntakeEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Count returns the number of rows in the log.
func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM water_intake`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count intake: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(s scanner) (*models.IntakeEvent, error) {
	var (
		e  models.IntakeEvent
		ts string
	)
	if err := s.Scan(&e.ID, &e.Amount, &e.HydrationAmount, &e.DrinkType, &ts); err != nil {
		return nil, err
	}
	t, err := ParseTimestamp(ts)
	if err != nil {
		return nil, fmt.Errorf("bad timestamp %q in intake %d: %w", ts, e.ID, err)
	}
	e.Timestamp = t
	return &e, nil
}
