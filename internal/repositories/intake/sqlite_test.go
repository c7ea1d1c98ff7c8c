package intake

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/hydrokeeper/internal/common"
	"github.com/dmitrijs2005/hydrokeeper/internal/dbx"
	"github.com/dmitrijs2005/hydrokeeper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := dbx.Open(context.Background(), filepath.Join(t.TempDir(), "intake.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE drink_type (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE,
  hydration_factor REAL NOT NULL
);
CREATE TABLE water_intake (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  amount REAL NOT NULL,
  hydration_amount REAL NOT NULL,
  drink_type TEXT NOT NULL,
  timestamp TEXT NOT NULL,
  FOREIGN KEY (drink_type) REFERENCES drink_type(name)
);
INSERT INTO drink_type (name, hydration_factor) VALUES ('Water', 1.0), ('Soda', 0.93);
`)
	require.NoError(t, err)
	return db
}

func at(day, hour int) time.Time {
	return time.Date(2026, time.March, day, hour, 0, 0, 0, time.UTC)
}

func insert(t *testing.T, r *SQLiteRepository, amount, hyd float64, drink string, ts time.Time) models.IntakeEvent {
	t.Helper()
	e := models.IntakeEvent{Amount: amount, HydrationAmount: hyd, DrinkType: drink, Timestamp: ts}
	require.NoError(t, r.Insert(context.Background(), &e))
	return e
}

func TestInsert_AssignsMonotonicIDs(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	a := insert(t, r, 16, 16, "Water", at(1, 9))
	b := insert(t, r, 8, 7.44, "Soda", at(1, 10))

	assert.Greater(t, a.ID, int64(0))
	assert.Greater(t, b.ID, a.ID)

	n, err := r.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestInsert_UnknownDrinkViolatesForeignKey(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	e := models.IntakeEvent{Amount: 1, HydrationAmount: 1, DrinkType: "Juice", Timestamp: at(1, 9)}
	require.Error(t, r.Insert(context.Background(), &e))
}

func TestLast_ReturnsHighestIDOrNotFound(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	_, err := r.Last(ctx)
	require.ErrorIs(t, err, common.ErrNotFound)

	insert(t, r, 16, 16, "Water", at(1, 9))
	b := insert(t, r, 8, 7.44, "Soda", at(1, 10))

	last, err := r.Last(ctx)
	require.NoError(t, err)
	assert.Equal(t, b.ID, last.ID)
	assert.Equal(t, "Soda", last.DrinkType)
	assert.InDelta(t, 7.44, last.HydrationAmount, 1e-9)
	assert.True(t, at(1, 10).Equal(last.Timestamp))
}

func TestDeleteByID_SuccessAndNotFound(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	e := insert(t, r, 16, 16, "Water", at(1, 9))
	require.NoError(t, r.DeleteByID(ctx, e.ID))

	err := r.DeleteByID(ctx, e.ID)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestRangeQueries_HalfOpen(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	insert(t, r, 10, 10, "Water", at(1, 23))
	insert(t, r, 16, 16, "Water", at(2, 0))
	insert(t, r, 8, 7.44, "Soda", at(2, 12))
	insert(t, r, 4, 4, "Water", at(3, 0))

	sum, err := r.SumHydrationBetween(ctx, at(2, 0), at(3, 0))
	require.NoError(t, err)
	assert.InDelta(t, 23.44, sum, 1e-9)

	list, err := r.ListBetween(ctx, at(2, 0), at(3, 0))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 16.0, list[0].Amount)
	assert.Equal(t, 8.0, list[1].Amount)

	empty, err := r.SumHydrationBetween(ctx, at(10, 0), at(11, 0))
	require.NoError(t, err)
	assert.Equal(t, 0.0, empty)

	n, err := r.DeleteBetween(ctx, at(2, 0), at(3, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	total, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestDeleteAll(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	insert(t, r, 10, 10, "Water", at(1, 8))
	insert(t, r, 10, 10, "Water", at(5, 8))

	n, err := r.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = r.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestTimestamp_FormatIsSortable(t *testing.T) {
	a := FormatTimestamp(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	b := FormatTimestamp(time.Date(2026, 1, 1, 0, 0, 0, 500_000_000, time.UTC))
	assert.Equal(t, "2026-01-01T00:00:00.000Z", a)
	assert.Less(t, a, b)

	ts, err := ParseTimestamp("2026-01-01T10:00:00.250Z")
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, time.Duration(ts.Nanosecond()))

	_, err = ParseTimestamp("2026-01-01T10:00:00+02:00")
	require.NoError(t, err)

	_, err = ParseTimestamp("yesterday")
	require.Error(t, err)
}

func TestQueries_FailOnClosedDB(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	require.NoError(t, db.Close())

	_, err := r.Count(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to count intake")
}
