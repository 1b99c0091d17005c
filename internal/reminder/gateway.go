// Package reminder schedules best-effort wake-ups at absolute timestamps.
package reminder

import (
	"context"
	"errors"
	"time"
)

const (
	ChannelTimer  = "pomodoro-timer"
	ChannelReview = "spaced-repetition"
)

var ErrNoID = errors.New("reminder: gateway returned no id")

// Gateway is the notification scheduler both engines consume. Delivery is
// best-effort; Cancel of an unknown or already fired id is a no-op.
type Gateway interface {
	Schedule(ctx context.Context, req Request) (string, error)
	Cancel(ctx context.Context, id string) error
}

type Request struct {
	At       time.Time         `json:"at"`
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Channel  string            `json:"channel"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type Delivery struct {
	ID      string    `json:"id"`
	FiredAt time.Time `json:"firedAt"`
	Request
}

// ScheduleID calls Schedule and treats an empty id as a failure.
func ScheduleID(ctx context.Context, g Gateway, req Request) (string, error) {
	id, err := g.Schedule(ctx, req)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", ErrNoID
	}
	return id, nil
}
