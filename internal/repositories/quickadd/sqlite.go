// Package quickadd persists quick-add presets (table quick_add).
package quickadd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/hydrokeeper/internal/common"
	"github.com/dmitrijs2005/hydrokeeper/internal/dbx"
	"github.com/dmitrijs2005/hydrokeeper/internal/models"
)

// Repository describes preset storage operations. Duplicate detection is the
// caller's job (see FindByAmount); the table carries no unique constraint so
// that databases created by older versions load unchanged.
type Repository interface {
	Insert(ctx context.Context, p *models.QuickAddPreset) error
	Update(ctx context.Context, id int64, amount float64) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.QuickAddPreset, error)
	// FindByAmount returns a preset with exactly this amount or common.ErrNotFound.
	FindByAmount(ctx context.Context, amount float64) (*models.QuickAddPreset, error)
	// List returns presets ascending by amount.
	List(ctx context.Context) ([]models.QuickAddPreset, error)
}

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, p *models.QuickAddPreset) error {
	res, err := r.db.ExecContext(ctx, `INSERT INTO quick_add (quick_add_amount) VALUES (?)`, p.Amount)
	if err != nil {
		return fmt.Errorf("failed to insert preset: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted id: %w", err)
	}
	p.ID = id
	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, id int64, amount float64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE quick_add SET quick_add_amount = ? WHERE id = ?`, amount, id)
	if err != nil {
		return fmt.Errorf("failed to update preset: %w", err)
	}
	return expectOne(res, id)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM quick_add WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete preset: %w", err)
	}
	return expectOne(res, id)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.QuickAddPreset, error) {
	return r.getOne(ctx, `SELECT id, quick_add_amount FROM quick_add WHERE id = ?`, id)
}

func (r *SQLiteRepository) FindByAmount(ctx context.Context, amount float64) (*models.QuickAddPreset, error) {
	return r.getOne(ctx, `SELECT id, quick_add_amount FROM quick_add WHERE quick_add_amount = ? ORDER BY id LIMIT 1`, amount)
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.QuickAddPreset, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, quick_add_amount FROM quick_add ORDER BY quick_add_amount, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list presets: %w", err)
	}
	defer rows.Close()

	result := make([]models.QuickAddPreset, 0)
	for rows.Next() {
		var p models.QuickAddPreset
		if err := rows.Scan(&p.ID, &p.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan preset row: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate preset rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) getOne(ctx context.Context, query string, arg any) (*models.QuickAddPreset, error) {
	p := &models.QuickAddPreset{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&p.ID, &p.Amount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get preset: %w", err)
	}
	return p, nil
}

func expectOne(res sql.Result, id int64) error {
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return fmt.Errorf("preset %d: %w", id, common.ErrNotFound)
	}
	return nil
}
