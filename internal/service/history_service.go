package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	apperrors "tempo/backend/internal/errors"
	"tempo/backend/internal/model"
	"tempo/backend/internal/repository"
)

const unlabeledName = "Unlabeled"

// HistoryService records completed Focus sessions and summarizes them.
type HistoryService struct {
	sessions *repository.SessionRepository
	labels   *repository.LabelRepository
	location *time.Location
	now      func() time.Time
}

func NewHistoryService(sessions *repository.SessionRepository, labels *repository.LabelRepository, location *time.Location) *HistoryService {
	if location == nil {
		location = time.Local
	}
	return &HistoryService{
		sessions: sessions,
		labels:   labels,
		location: location,
		now:      time.Now,
	}
}

// RecordCompletedFocusSession stores one finished Focus session. A label id that
// no longer exists is dropped and the session is stored unlabeled.
func (s *HistoryService) RecordCompletedFocusSession(ctx context.Context, durationMinutes int, labelID *int64) error {
	if durationMinutes < 0 {
		durationMinutes = 0
	}
	if labelID != nil {
		if _, err := s.labels.GetByID(ctx, *labelID); err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("check label %d: %w", *labelID, err)
			}
			log.Printf("Warning: label %d no longer exists, recording session unlabeled", *labelID)
			labelID = nil
		}
	}

	session := model.CompletedSession{
		DurationMinutes: durationMinutes,
		CompletedAt:     s.now().UTC(),
		LabelID:         labelID,
	}
	if err := s.sessions.Create(ctx, &session); err != nil {
		return fmt.Errorf("record completed session: %w", err)
	}
	return nil
}

func (s *HistoryService) History(ctx context.Context, filter model.SessionFilter) ([]model.CompletedSession, *apperrors.APIError) {
	sessions, err := s.sessions.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal("failed to load session history")
	}
	return sessions, nil
}

// Stats aggregates the filtered history. Days are calendar days in the service location.
func (s *HistoryService) Stats(ctx context.Context, filter model.SessionFilter) (*model.SessionStats, *apperrors.APIError) {
	sessions, apiErr := s.History(ctx, filter)
	if apiErr != nil {
		return nil, apiErr
	}

	stats := model.SessionStats{
		SessionsPerDay:  make([]model.DayCount, 0),
		SessionsByLabel: make([]model.LabelStats, 0),
	}
	perDay := make(map[string]int)
	perLabel := make(map[string]*model.LabelStats)
	for _, session := range sessions {
		stats.TotalFocusSessions++
		stats.TotalFocusMinutes += session.DurationMinutes

		perDay[session.CompletedAt.In(s.location).Format(time.DateOnly)]++

		name := session.LabelName
		if name == "" {
			name = unlabeledName
		}
		entry, ok := perLabel[name]
		if !ok {
			entry = &model.LabelStats{LabelName: name}
			perLabel[name] = entry
		}
		entry.Count++
		entry.Minutes += session.DurationMinutes
	}

	for date, count := range perDay {
		stats.SessionsPerDay = append(stats.SessionsPerDay, model.DayCount{Date: date, Count: count})
	}
	sort.Slice(stats.SessionsPerDay, func(i, j int) bool {
		return stats.SessionsPerDay[i].Date < stats.SessionsPerDay[j].Date
	})

	for _, entry := range perLabel {
		stats.SessionsByLabel = append(stats.SessionsByLabel, *entry)
	}
	sort.Slice(stats.SessionsByLabel, func(i, j int) bool {
		return stats.SessionsByLabel[i].LabelName < stats.SessionsByLabel[j].LabelName
	})

	return &stats, nil
}
