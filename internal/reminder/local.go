package reminder

import (
	"context"
	"errors"
	"maps"
	"sync"

	"github.com/google/uuid"

	"tempo/backend/internal/clock"
)

// Local is an in-process Gateway. Each reminder is a clock callback; due
// reminders are handed to the deliver func on the clock's goroutine.
type Local struct {
	clock   clock.Clock
	deliver func(Delivery)

	mu      sync.Mutex
	pending map[string]clock.Timer
}

func NewLocal(c clock.Clock, deliver func(Delivery)) *Local {
	return &Local{
		clock:   c,
		deliver: deliver,
		pending: make(map[string]clock.Timer),
	}
}

func (l *Local) Schedule(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if req.At.IsZero() {
		return "", errors.New("reminder: missing trigger time")
	}

	id := uuid.NewString()
	req.Metadata = maps.Clone(req.Metadata)
	delay := req.At.Sub(l.clock.Now())
	if delay < 0 {
		delay = 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending[id] = l.clock.AfterFunc(delay, func() {
		l.fire(id, req)
	})
	return id, nil
}

func (l *Local) Cancel(_ context.Context, id string) error {
	if id == "" {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if timer, ok := l.pending[id]; ok {
		timer.Stop()
		delete(l.pending, id)
	}
	return nil
}

// Pending reports the number of reminders that have neither fired nor been canceled.
func (l *Local) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

func (l *Local) fire(id string, req Request) {
	l.mu.Lock()
	if _, ok := l.pending[id]; !ok {
		l.mu.Unlock()
		return
	}
	delete(l.pending, id)
	l.mu.Unlock()

	if l.deliver != nil {
		l.deliver(Delivery{ID: id, FiredAt: l.clock.Now(), Request: req})
	}
}
