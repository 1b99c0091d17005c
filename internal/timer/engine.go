// Package timer implements the pomodoro session state machine.
//
// The engine keeps a wall-clock end time while a session runs and derives the
// displayed countdown from it. Completion arrives either through the reminder
// gateway (ReminderFired) or through the tick catch-up path; both produce the
// same transition.
package timer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"tempo/backend/internal/clock"
	"tempo/backend/internal/model"
	"tempo/backend/internal/reminder"
	"tempo/backend/internal/state"
)

var (
	ErrInvalidSettings = errors.New("timer: invalid settings")
	ErrInvalidDuration = errors.New("timer: session duration must be positive")
)

// SessionRecorder persists completed Focus sessions.
type SessionRecorder interface {
	RecordCompletedFocusSession(ctx context.Context, durationMinutes int, labelID *int64) error
}

type Options struct {
	Clock clock.Clock
	// Defaults seed the settings when the store holds no timer state.
	Defaults model.TimerSettings
	// TickInterval is the re-arm delay of the display tick. Zero means one second;
	// negative disables self re-arming.
	TickInterval time.Duration
}

type Engine struct {
	store    state.Store
	gateway  reminder.Gateway
	recorder SessionRecorder
	clock    clock.Clock

	tickInterval time.Duration

	mu        sync.Mutex
	state     model.TimerState
	tickArmed bool
}

// New builds the engine and loads its persisted state. recorder may be nil.
func New(ctx context.Context, store state.Store, gateway reminder.Gateway, recorder SessionRecorder, opts Options) (*Engine, error) {
	if opts.Clock == nil {
		opts.Clock = clock.System
	}
	if opts.Defaults == (model.TimerSettings{}) {
		opts.Defaults = model.DefaultTimerSettings()
	}
	if err := ValidateSettings(opts.Defaults); err != nil {
		return nil, err
	}
	if opts.TickInterval == 0 {
		opts.TickInterval = time.Second
	}

	e := &Engine{
		store:        store,
		gateway:      gateway,
		recorder:     recorder,
		clock:        opts.Clock,
		tickInterval: opts.TickInterval,
	}

	payload, err := store.Load(ctx, state.NamespaceTimer)
	switch {
	case errors.Is(err, state.ErrNotFound):
		e.state = model.TimerState{
			Status:   model.StatusFocus,
			Minutes:  opts.Defaults.FocusMinutes,
			Settings: opts.Defaults,
		}
	case err != nil:
		return nil, fmt.Errorf("load timer state: %w", err)
	default:
		if err := json.Unmarshal(payload, &e.state); err != nil {
			return nil, fmt.Errorf("decode timer state: %w", err)
		}
		if ValidateSettings(e.state.Settings) != nil {
			log.Printf("Warning: persisted timer settings invalid, using defaults")
			e.state.Settings = opts.Defaults
		}
	}
	return e, nil
}

// State returns a snapshot. While active the countdown is derived from the end time.
func (e *Engine) State() model.TimerState {
	e.mu.Lock()
	defer e.mu.Unlock()
	snapshot := e.state.Clone()
	if snapshot.IsActive && snapshot.EndTime != nil {
		snapshot.Minutes, snapshot.Seconds = splitSeconds(remainingSeconds(*snapshot.EndTime, e.clock.Now()))
	}
	return snapshot
}

// Start begins a fresh session or resumes a paused one. Starting a running
// timer is a no-op.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.IsActive {
		return nil
	}
	if err := e.activate(ctx, e.secondsForStart(), false); err != nil {
		return err
	}
	return e.persist(ctx)
}

func (e *Engine) Pause(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancelReminder(ctx)
	e.state.IsActive = false
	e.state.EndTime = nil
	return e.persist(ctx)
}

func (e *Engine) Reset(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancelReminder(ctx)
	e.state.IsActive = false
	e.state.EndTime = nil
	e.state.Minutes = DurationFor(e.state.Status, e.state.Settings)
	e.state.Seconds = 0
	return e.persist(ctx)
}

// Tick refreshes the countdown and completes the session once the end time has
// passed. It is safe to call redundantly.
func (e *Engine) Tick(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.tick(ctx) {
		return e.persist(ctx)
	}
	return nil
}

func (e *Engine) SkipToNextSession(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.skip(ctx)
	return e.persist(ctx)
}

// ReminderFired completes the running session when id is its outstanding
// completion reminder. Stale ids are ignored.
func (e *Engine) ReminderFired(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if id == "" || !e.state.IsActive || id != e.state.CurrentReminderID {
		return nil
	}
	e.state.CurrentReminderID = ""
	e.skip(ctx)
	return e.persist(ctx)
}

// Restore reconciles a loaded state with the wall clock: an expired session is
// completed, a running one gets its reminder re-requested for the same end time.
func (e *Engine) Restore(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.state.IsActive {
		return nil
	}
	if e.state.EndTime == nil {
		e.state.IsActive = false
		e.cancelReminder(ctx)
		return e.persist(ctx)
	}

	end := *e.state.EndTime
	if !e.clock.Now().Before(end) {
		e.skip(ctx)
		return e.persist(ctx)
	}

	e.cancelReminder(ctx)
	id, err := reminder.ScheduleID(ctx, e.gateway, completionRequest(e.state.Status, end))
	if err != nil {
		log.Printf("Warning: failed to reschedule %s completion reminder: %v", e.state.Status, err)
	}
	e.state.CurrentReminderID = id
	e.armTick()
	return e.persist(ctx)
}

func (e *Engine) UpdateSettings(ctx context.Context, settings model.TimerSettings) error {
	if err := ValidateSettings(settings); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	previous := DurationFor(e.state.Status, e.state.Settings)
	e.state.Settings = settings
	if current := DurationFor(e.state.Status, settings); !e.state.IsActive && current != previous {
		e.state.Minutes = current
		e.state.Seconds = 0
	}
	return e.persist(ctx)
}

// SelectLabel sets the label attached to the next recorded Focus session. nil clears it.
func (e *Engine) SelectLabel(ctx context.Context, labelID *int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if labelID != nil {
		v := *labelID
		labelID = &v
	}
	e.state.SelectedLabelID = labelID
	return e.persist(ctx)
}

func (e *Engine) secondsForStart() int {
	full := DurationFor(e.state.Status, e.state.Settings)
	resuming := e.state.Minutes < full || e.state.Seconds > 0
	if total := e.state.Minutes*60 + e.state.Seconds; resuming && total > 0 {
		return total
	}
	return full * 60
}

// activate arms the session for totalSeconds. With strict set, a failed reminder
// request aborts activation and leaves the state untouched; otherwise the session
// runs without a reminder and relies on the tick.
func (e *Engine) activate(ctx context.Context, totalSeconds int, strict bool) error {
	if totalSeconds <= 0 {
		return ErrInvalidDuration
	}

	end := e.clock.Now().UTC().Add(time.Duration(totalSeconds) * time.Second)
	id, err := reminder.ScheduleID(ctx, e.gateway, completionRequest(e.state.Status, end))
	if err != nil {
		if strict {
			return fmt.Errorf("schedule completion reminder: %w", err)
		}
		log.Printf("Warning: failed to schedule %s completion reminder: %v", e.state.Status, err)
		id = ""
	}

	e.state.EndTime = &end
	e.state.IsActive = true
	e.state.CurrentReminderID = id
	e.state.Minutes, e.state.Seconds = splitSeconds(totalSeconds)
	e.armTick()
	return nil
}

// tick reports whether the session was completed.
func (e *Engine) tick(ctx context.Context) bool {
	if !e.state.IsActive || e.state.EndTime == nil {
		return false
	}
	remaining := remainingSeconds(*e.state.EndTime, e.clock.Now())
	if remaining > 0 {
		e.state.Minutes, e.state.Seconds = splitSeconds(remaining)
		e.armTick()
		return false
	}
	e.skip(ctx)
	return true
}

func (e *Engine) armTick() {
	if e.tickArmed || !e.state.IsActive || e.tickInterval < 0 {
		return
	}
	e.tickArmed = true
	e.clock.AfterFunc(e.tickInterval, e.onTick)
}

func (e *Engine) onTick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.tickArmed = false
	ctx := context.Background()
	if e.tick(ctx) {
		if err := e.persist(ctx); err != nil {
			log.Printf("Warning: %v", err)
		}
	}
}

func (e *Engine) skip(ctx context.Context) {
	finished := e.state.Status
	if finished == model.StatusFocus && e.recorder != nil {
		minutes := e.elapsedFocusMinutes()
		if err := e.recorder.RecordCompletedFocusSession(ctx, minutes, e.state.SelectedLabelID); err != nil {
			log.Printf("Warning: failed to record completed focus session: %v", err)
		}
	}

	e.cancelReminder(ctx)
	next, count := NextStatus(finished, e.state.SessionCount, e.state.Settings.SessionsUntilLongBreak)
	e.state.Status = next
	e.state.SessionCount = count
	e.state.IsActive = false
	e.state.EndTime = nil
	e.state.Minutes = DurationFor(next, e.state.Settings)
	e.state.Seconds = 0

	if e.state.Settings.AutoContinue {
		if err := e.activate(ctx, e.state.Minutes*60, true); err != nil {
			log.Printf("Warning: failed to auto-start %s session: %v", next, err)
		}
	}
}

func (e *Engine) elapsedFocusMinutes() int {
	full := e.state.Settings.FocusMinutes * 60
	remaining := e.state.Minutes*60 + e.state.Seconds
	if e.state.IsActive && e.state.EndTime != nil {
		remaining = remainingSeconds(*e.state.EndTime, e.clock.Now())
	}
	elapsed := full - remaining
	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed / 60
}

func (e *Engine) cancelReminder(ctx context.Context) {
	id := e.state.CurrentReminderID
	e.state.CurrentReminderID = ""
	if id == "" {
		return
	}
	if err := e.gateway.Cancel(ctx, id); err != nil {
		log.Printf("Warning: failed to cancel reminder %s: %v", id, err)
	}
}

func (e *Engine) persist(ctx context.Context) error {
	payload, err := json.Marshal(e.state)
	if err != nil {
		return fmt.Errorf("encode timer state: %w", err)
	}
	if err := e.store.Save(ctx, state.NamespaceTimer, payload); err != nil {
		return fmt.Errorf("save timer state: %w", err)
	}
	return nil
}

func remainingSeconds(end, now time.Time) int {
	remaining := end.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int((remaining + time.Second - 1) / time.Second)
}

func splitSeconds(total int) (int, int) {
	return total / 60, total % 60
}
