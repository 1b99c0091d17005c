package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tempo/backend/internal/state"
)

// StateRepository stores engine state blobs in sqlite, one row per namespace.
type StateRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewStateRepository(db *sql.DB) *StateRepository {
	return &StateRepository{db: db, now: time.Now}
}

var _ state.Store = (*StateRepository)(nil)

func (r *StateRepository) Load(ctx context.Context, namespace string) ([]byte, error) {
	var payload string
	err := r.db.QueryRowContext(
		ctx,
		`SELECT payload FROM state_blobs WHERE namespace = ?`,
		namespace,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, state.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load state %s: %w", namespace, err)
	}
	return []byte(payload), nil
}

func (r *StateRepository) Save(ctx context.Context, namespace string, payload []byte) error {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO state_blobs (namespace, payload, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(namespace) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		namespace,
		string(payload),
		formatTime(r.now()),
	)
	if err != nil {
		return fmt.Errorf("save state %s: %w", namespace, err)
	}
	return nil
}
