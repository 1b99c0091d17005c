package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"tempo/backend/internal/model"
)

type LabelRepository struct {
	db *sql.DB
}

func NewLabelRepository(db *sql.DB) *LabelRepository {
	return &LabelRepository{db: db}
}

func (r *LabelRepository) List(ctx context.Context) ([]model.Label, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM labels ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list labels: %w", err)
	}
	defer rows.Close()

	labels := make([]model.Label, 0)
	for rows.Next() {
		var label model.Label
		if err := rows.Scan(&label.ID, &label.Name); err != nil {
			return nil, fmt.Errorf("scan label: %w", err)
		}
		labels = append(labels, label)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate labels: %w", err)
	}
	return labels, nil
}

func (r *LabelRepository) GetByID(ctx context.Context, id int64) (*model.Label, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name FROM labels WHERE id = ?`, id)
	return scanLabel(row, "get label by id")
}

func (r *LabelRepository) GetByName(ctx context.Context, name string) (*model.Label, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name FROM labels WHERE name = ?`, name)
	return scanLabel(row, "get label by name")
}

func (r *LabelRepository) Create(ctx context.Context, label *model.Label) error {
	result, err := r.db.ExecContext(ctx, `INSERT INTO labels (name) VALUES (?)`, label.Name)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicate
		}
		return fmt.Errorf("create label: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("create label id: %w", err)
	}
	label.ID = id
	return nil
}

func (r *LabelRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM labels WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete label: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete label rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanLabel(row *sql.Row, op string) (*model.Label, error) {
	var label model.Label
	if err := row.Scan(&label.ID, &label.Name); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &label, nil
}
