// Package services implements HydroKeeper's domain operations on top of the
// repositories: the drink Catalog, the hydration Ledger, the quick-add
// Presets store, user Settings and goal Progress.
//
// # Storage
//
// Every service holds an explicitly injected *sql.DB and a
// repomanager.RepositoryManager. Mutations run inside dbx.WithTx, so each call
// is one atomic unit of work that is rolled back on any error. Reads are
// recomputed from the persisted rows on every call; nothing is cached.
//
// # Errors
//
// Validation failures (common.ErrInvalidAmount, common.ErrInvalidValue,
// common.ErrInvalidUnit) are returned before storage is touched. Lookups
// return common.ErrNotFound or common.ErrDuplicate. Any other persistence
// failure is wrapped with common.ErrStorageUnavailable and is never retried
// here; retrying is the caller's decision.
package services
