// Package repomanager wires repository constructors and database migrations
// (via goose) for the local SQLite database.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/hydrokeeper/internal/dbx"
	"github.com/dmitrijs2005/hydrokeeper/internal/repositories/drinktypes"
	"github.com/dmitrijs2005/hydrokeeper/internal/repositories/intake"
	"github.com/dmitrijs2005/hydrokeeper/internal/repositories/quickadd"
	"github.com/dmitrijs2005/hydrokeeper/internal/repositories/settings"
)

// RepositoryManager vends repositories bound to a DBTX, so services can use
// the same repositories on *sql.DB or inside a transaction.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Intake(db dbx.DBTX) intake.Repository
	DrinkTypes(db dbx.DBTX) drinktypes.Repository
	QuickAdd(db dbx.DBTX) quickadd.Repository
	Settings(db dbx.DBTX) settings.Repository
}
