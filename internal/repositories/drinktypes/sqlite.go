// Package drinktypes persists the drink catalog (table drink_type).
package drinktypes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/hydrokeeper/internal/common"
	"github.com/dmitrijs2005/hydrokeeper/internal/dbx"
	"github.com/dmitrijs2005/hydrokeeper/internal/models"
)

// Repository describes catalog storage operations.
type Repository interface {
	Count(ctx context.Context) (int64, error)
	// Insert stores d and assigns d.ID; common.ErrDuplicate on name clash.
	Insert(ctx context.Context, d *models.DrinkType) error
	// GetByName ignores ASCII case.
	GetByName(ctx context.Context, name string) (*models.DrinkType, error)
	List(ctx context.Context) ([]models.DrinkType, error)
	UpdateFactor(ctx context.Context, name string, factor float64) error
}

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM drink_type`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count drink types: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, d *models.DrinkType) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO drink_type (name, hydration_factor) VALUES (?, ?)`, d.Name, d.HydrationFactor)
	if dbx.IsUniqueViolation(err) {
		return fmt.Errorf("drink type %q: %w", d.Name, common.ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to insert drink type: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted id: %w", err)
	}
	d.ID = id
	return nil
}

// GetByName returns the drink type whose name matches case-insensitively or
// common.ErrNotFound.
func (r *SQLiteRepository) GetByName(ctx context.Context, name string) (*models.DrinkType, error) {
	d := &models.DrinkType{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, hydration_factor FROM drink_type WHERE name = ? COLLATE NOCASE`, name).
		Scan(&d.ID, &d.Name, &d.HydrationFactor)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("drink type %q: %w", name, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get drink type[%s]: %w", name, err)
	}
	return d, nil
}

// List returns all drink types ordered by name.
func (r *SQLiteRepository) List(ctx context.Context) ([]models.DrinkType, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, hydration_factor FROM drink_type ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list drink types: %w", err)
	}
	defer rows.Close()

	var result []models.DrinkType
	for rows.Next() {
		var d models.DrinkType
		if err := rows.Scan(&d.ID, &d.Name, &d.HydrationFactor); err != nil {
			return nil, fmt.Errorf("failed to scan drink type row: %w", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate drink type rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) UpdateFactor(ctx context.Context, name string, factor float64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE drink_type SET hydration_factor = ? WHERE name = ? COLLATE NOCASE`, factor, name)
	if err != nil {
		return fmt.Errorf("failed to update drink type[%s]: %w", name, err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return fmt.Errorf("drink type %q: %w", name, common.ErrNotFound)
	}
	return nil
}
