package errors

import (
	stderrors "errors"

	"tempo/backend/internal/habit"
	"tempo/backend/internal/review"
	"tempo/backend/internal/timer"
)

var badRequestCodes = []struct {
	target error
	code   string
}{
	{timer.ErrInvalidSettings, "invalid_settings"},
	{timer.ErrInvalidDuration, "invalid_duration"},
	{review.ErrEmptyTitle, "invalid_title"},
	{review.ErrEmptySchedule, "invalid_schedule"},
	{review.ErrInvalidInterval, "invalid_schedule"},
	{review.ErrInvalidReminderTime, "invalid_reminder_time"},
	{habit.ErrEmptyName, "invalid_name"},
	{habit.ErrInvalidColor, "invalid_color"},
	{habit.ErrInvalidDay, "invalid_target_day"},
	{habit.ErrInvalidDate, "invalid_date"},
	{habit.ErrNotQuantitative, "not_quantitative"},
}

// FromEngine maps an error returned by the timer engine, the review scheduler or
// the habit tracker. Anything unrecognized, persistence failures included,
// becomes an internal error.
func FromEngine(err error) *APIError {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, review.ErrNotFound) {
		return NotFound("review_not_found", "review not found")
	}
	if stderrors.Is(err, habit.ErrNotFound) {
		return NotFound("habit_not_found", "habit not found")
	}
	for _, entry := range badRequestCodes {
		if stderrors.Is(err, entry.target) {
			return BadRequest(entry.code, err.Error())
		}
	}
	return Internal("failed to save state")
}
