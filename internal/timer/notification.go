package timer

import (
	"time"

	"tempo/backend/internal/model"
	"tempo/backend/internal/reminder"
)

func completionRequest(status model.SessionStatus, at time.Time) reminder.Request {
	req := reminder.Request{
		At:      at,
		Channel: reminder.ChannelTimer,
		Metadata: map[string]string{
			"type":   "pomodoro",
			"status": status.String(),
		},
	}
	switch status {
	case model.StatusBreak:
		req.Title = "Break Complete"
		req.Body = "Let's get back to work!"
	case model.StatusLongBreak:
		req.Title = "Long Break Complete"
		req.Body = "Let's get back to work!"
	default:
		req.Title = "Focus Session Complete"
		req.Body = "Time for a break!"
	}
	return req
}
