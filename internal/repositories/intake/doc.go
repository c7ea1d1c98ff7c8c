// Package intake provides the persistence layer for the hydration log
// (table water_intake).
//
// # Data Model
//
// Each row is one immutable IntakeEvent. Timestamps are stored as UTC text in
// a fixed-width layout (TimestampLayout) so that lexical order equals
// chronological order and day ranges become plain string range predicates.
// Rows are never updated; they are removed by id, by time range, or all at
// once.
//
// # Concurrency
//
// SQLiteRepository works over a dbx.DBTX and can be bound to a *sql.Tx to run
// several statements atomically.
//
// Typical Usage
//
//	repo := intake.NewSQLiteRepository(db)
//	_ = repo.Insert(ctx, &ev)
//	sum, _ := repo.SumHydrationBetween(ctx, from, to)
//	last, _ := repo.Last(ctx)
package intake
