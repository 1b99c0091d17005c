package timer

import (
	"fmt"

	"tempo/backend/internal/model"
)

// DurationFor returns the configured length in minutes of a session of the given status.
func DurationFor(status model.SessionStatus, settings model.TimerSettings) int {
	switch status {
	case model.StatusBreak:
		return settings.BreakMinutes
	case model.StatusLongBreak:
		return settings.LongBreakMinutes
	default:
		return settings.FocusMinutes
	}
}

// NextStatus computes the session that follows status. Finishing a Focus session
// advances the completed count; every sessionsUntilLongBreak-th completion is
// followed by a long break.
func NextStatus(status model.SessionStatus, sessionCount, sessionsUntilLongBreak int) (model.SessionStatus, int) {
	if status != model.StatusFocus {
		return model.StatusFocus, sessionCount
	}
	if sessionsUntilLongBreak < 1 {
		sessionsUntilLongBreak = 1
	}
	completed := sessionCount + 1
	if completed%sessionsUntilLongBreak == 0 {
		return model.StatusLongBreak, completed
	}
	return model.StatusBreak, completed
}

// MaxSessionMinutes bounds every session length so end times stay representable.
const MaxSessionMinutes = 24 * 60

func ValidateSettings(s model.TimerSettings) error {
	for _, minutes := range []int{s.FocusMinutes, s.BreakMinutes, s.LongBreakMinutes} {
		if minutes <= 0 {
			return fmt.Errorf("%w: durations must be positive minutes", ErrInvalidSettings)
		}
		if minutes > MaxSessionMinutes {
			return fmt.Errorf("%w: durations must be at most %d minutes", ErrInvalidSettings, MaxSessionMinutes)
		}
	}
	if s.SessionsUntilLongBreak < 1 {
		return fmt.Errorf("%w: sessionsUntilLongBreak must be at least 1", ErrInvalidSettings)
	}
	return nil
}
