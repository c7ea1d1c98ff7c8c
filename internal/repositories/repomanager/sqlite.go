package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/hydrokeeper/internal/dbx"
	"github.com/dmitrijs2005/hydrokeeper/internal/migrations"
	"github.com/dmitrijs2005/hydrokeeper/internal/repositories/drinktypes"
	"github.com/dmitrijs2005/hydrokeeper/internal/repositories/intake"
	"github.com/dmitrijs2005/hydrokeeper/internal/repositories/quickadd"
	"github.com/dmitrijs2005/hydrokeeper/internal/repositories/settings"
	"github.com/pressly/goose/v3"
)

// SQLiteRepositoryManager vends SQLite-backed repositories.
type SQLiteRepositoryManager struct{}

// NewSQLiteRepositoryManager constructs a SQLite-backed RepositoryManager.
func NewSQLiteRepositoryManager() *SQLiteRepositoryManager {
	return &SQLiteRepositoryManager{}
}

func (m *SQLiteRepositoryManager) Intake(db dbx.DBTX) intake.Repository {
	return intake.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) DrinkTypes(db dbx.DBTX) drinktypes.Repository {
	return drinktypes.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) QuickAdd(db dbx.DBTX) quickadd.Repository {
	return quickadd.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Settings(db dbx.DBTX) settings.Repository {
	return settings.NewSQLiteRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and applies the
// pending ones. Running it on an up-to-date database is a no-op.
func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// InitDatabase opens the SQLite database at dsn and brings its schema up to
// date. The caller owns the returned handle.
func InitDatabase(ctx context.Context, dsn string, m RepositoryManager) (*sql.DB, error) {
	db, err := dbx.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
