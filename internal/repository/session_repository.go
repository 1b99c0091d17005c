package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"tempo/backend/internal/model"
)

type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session *model.CompletedSession) error {
	var labelID interface{}
	if session.LabelID != nil {
		labelID = *session.LabelID
	}

	result, err := r.db.ExecContext(
		ctx,
		`INSERT INTO completed_sessions (duration_minutes, completed_at, label_id)
		 VALUES (?, ?, ?)`,
		session.DurationMinutes,
		formatTime(session.CompletedAt),
		labelID,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert session id: %w", err)
	}
	session.ID = id
	return nil
}

// List returns the sessions matching filter, newest first, with label names joined in.
func (r *SessionRepository) List(ctx context.Context, filter model.SessionFilter) ([]model.CompletedSession, error) {
	query := `SELECT s.id, s.duration_minutes, s.completed_at, s.label_id, l.name
		 FROM completed_sessions s
		 LEFT JOIN labels l ON l.id = s.label_id`

	var where []string
	var args []interface{}
	if filter.From != nil {
		where = append(where, "s.completed_at >= ?")
		args = append(args, formatTime(*filter.From))
	}
	if filter.To != nil {
		where = append(where, "s.completed_at <= ?")
		args = append(args, formatTime(*filter.To))
	}
	if filter.LabelID != nil {
		where = append(where, "s.label_id = ?")
		args = append(args, *filter.LabelID)
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY s.completed_at DESC, s.id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]model.CompletedSession, 0)
	for rows.Next() {
		session, scanErr := scanSession(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		sessions = append(sessions, *session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return sessions, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(s scanner) (*model.CompletedSession, error) {
	session := model.CompletedSession{}
	var completedAt string
	var labelID sql.NullInt64
	var labelName sql.NullString
	if err := s.Scan(&session.ID, &session.DurationMinutes, &completedAt, &labelID, &labelName); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}

	parsedCompletedAt, err := parseTime(completedAt)
	if err != nil {
		return nil, fmt.Errorf("parse session completed_at: %w", err)
	}
	session.CompletedAt = parsedCompletedAt

	if labelID.Valid {
		value := labelID.Int64
		session.LabelID = &value
	}
	if labelName.Valid {
		session.LabelName = labelName.String
	}
	return &session, nil
}
