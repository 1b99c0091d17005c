// Package habit keeps the habit list with its per-day completions and values.
package habit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tempo/backend/internal/clock"
	"tempo/backend/internal/model"
	"tempo/backend/internal/state"
)

var (
	ErrNotFound        = errors.New("habit: not found")
	ErrEmptyName       = errors.New("habit: empty name")
	ErrInvalidColor    = errors.New("habit: unknown color")
	ErrInvalidDay      = errors.New("habit: unknown target day")
	ErrInvalidDate     = errors.New("habit: date must be YYYY-MM-DD")
	ErrNotQuantitative = errors.New("habit: values need a quantitative habit")
)

// Draft holds the fields of a new habit.
type Draft struct {
	Name           string   `json:"name"`
	Color          string   `json:"color"`
	TargetDays     []string `json:"targetDays"`
	IsQuantitative bool     `json:"isQuantitative"`
	Unit           string   `json:"unit"`
}

// Update is a partial change. Nil fields are left as they are.
type Update struct {
	Name           *string  `json:"name"`
	Color          *string  `json:"color"`
	TargetDays     []string `json:"targetDays"`
	IsQuantitative *bool    `json:"isQuantitative"`
	Unit           *string  `json:"unit"`
}

type Tracker struct {
	store state.Store
	clock clock.Clock

	mu     sync.Mutex
	habits []model.Habit
}

func New(ctx context.Context, store state.Store, c clock.Clock) (*Tracker, error) {
	if c == nil {
		c = clock.System
	}
	t := &Tracker{store: store, clock: c}

	payload, err := store.Load(ctx, state.NamespaceHabits)
	switch {
	case errors.Is(err, state.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("load habits: %w", err)
	default:
		if err := json.Unmarshal(payload, &t.habits); err != nil {
			return nil, fmt.Errorf("decode habits: %w", err)
		}
	}
	return t, nil
}

func (t *Tracker) Add(ctx context.Context, d Draft) (model.Habit, error) {
	name, err := normalizeName(d.Name)
	if err != nil {
		return model.Habit{}, err
	}
	color, err := normalizeColor(d.Color)
	if err != nil {
		return model.Habit{}, err
	}
	days, err := normalizeDays(d.TargetDays)
	if err != nil {
		return model.Habit{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	h := model.Habit{
		ID:             uuid.NewString(),
		Name:           name,
		Color:          color,
		TargetDays:     days,
		IsQuantitative: d.IsQuantitative,
		Unit:           strings.TrimSpace(d.Unit),
		CompletedDates: map[string]bool{},
		Values:         map[string]string{},
		CreatedAt:      t.clock.Now().UTC(),
	}
	t.habits = append(t.habits, h)
	return h.Clone(), t.persist(ctx)
}

// Update applies a partial change. Recorded completions and values are kept,
// also when a habit stops being quantitative.
func (t *Tracker) Update(ctx context.Context, id string, u Update) (model.Habit, error) {
	var (
		name, color string
		days        []string
		err         error
	)
	if u.Name != nil {
		if name, err = normalizeName(*u.Name); err != nil {
			return model.Habit{}, err
		}
	}
	if u.Color != nil {
		if color, err = normalizeColor(*u.Color); err != nil {
			return model.Habit{}, err
		}
	}
	if u.TargetDays != nil {
		if days, err = normalizeDays(u.TargetDays); err != nil {
			return model.Habit{}, err
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.indexOf(id)
	if idx < 0 {
		return model.Habit{}, ErrNotFound
	}
	h := t.habits[idx].Clone()
	if u.Name != nil {
		h.Name = name
	}
	if u.Color != nil {
		h.Color = color
	}
	if u.TargetDays != nil {
		h.TargetDays = days
	}
	if u.IsQuantitative != nil {
		h.IsQuantitative = *u.IsQuantitative
	}
	if u.Unit != nil {
		h.Unit = strings.TrimSpace(*u.Unit)
	}
	t.habits[idx] = h
	return h.Clone(), t.persist(ctx)
}

func (t *Tracker) Remove(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.indexOf(id)
	if idx < 0 {
		return ErrNotFound
	}
	t.habits = slices.Delete(t.habits, idx, idx+1)
	return t.persist(ctx)
}

// ToggleCompletion flips the completion mark of date. Unmarked days are absent
// from CompletedDates.
func (t *Tracker) ToggleCompletion(ctx context.Context, id, date string) (model.Habit, error) {
	if err := validateDate(date); err != nil {
		return model.Habit{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.indexOf(id)
	if idx < 0 {
		return model.Habit{}, ErrNotFound
	}
	h := t.habits[idx].Clone()
	if h.CompletedDates[date] {
		delete(h.CompletedDates, date)
	} else {
		h.CompletedDates[date] = true
	}
	t.habits[idx] = h
	return h.Clone(), t.persist(ctx)
}

// SetValue records the measured value of a quantitative habit on date. An
// empty value clears it.
func (t *Tracker) SetValue(ctx context.Context, id, date, value string) (model.Habit, error) {
	if err := validateDate(date); err != nil {
		return model.Habit{}, err
	}
	value = strings.TrimSpace(value)

	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.indexOf(id)
	if idx < 0 {
		return model.Habit{}, ErrNotFound
	}
	h := t.habits[idx].Clone()
	if !h.IsQuantitative {
		return model.Habit{}, ErrNotQuantitative
	}
	if value == "" {
		delete(h.Values, date)
	} else {
		h.Values[date] = value
	}
	t.habits[idx] = h
	return h.Clone(), t.persist(ctx)
}

func (t *Tracker) Get(id string) (model.Habit, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.indexOf(id)
	if idx < 0 {
		return model.Habit{}, ErrNotFound
	}
	return t.habits[idx].Clone(), nil
}

// List returns the habits in creation order.
func (t *Tracker) List() []model.Habit {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]model.Habit, 0, len(t.habits))
	for _, h := range t.habits {
		out = append(out, h.Clone())
	}
	return out
}

func (t *Tracker) indexOf(id string) int {
	return slices.IndexFunc(t.habits, func(h model.Habit) bool {
		return h.ID == id
	})
}

func (t *Tracker) persist(ctx context.Context) error {
	habits := t.habits
	if habits == nil {
		habits = []model.Habit{}
	}
	payload, err := json.Marshal(habits)
	if err != nil {
		return fmt.Errorf("encode habits: %w", err)
	}
	if err := t.store.Save(ctx, state.NamespaceHabits, payload); err != nil {
		return fmt.Errorf("save habits: %w", err)
	}
	return nil
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	return name, nil
}

func normalizeColor(color string) (string, error) {
	color = strings.ToLower(strings.TrimSpace(color))
	if color == "" {
		return model.DefaultHabitColor, nil
	}
	if !slices.Contains(model.HabitColors, color) {
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, color)
	}
	return color, nil
}

// normalizeDays upper-cases, dedupes and orders days Sunday first.
func normalizeDays(days []string) ([]string, error) {
	seen := make(map[string]bool, len(days))
	for _, day := range days {
		day = strings.ToUpper(strings.TrimSpace(day))
		if !slices.Contains(model.Weekdays, day) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDay, day)
		}
		seen[day] = true
	}
	out := make([]string, 0, len(seen))
	for _, day := range model.Weekdays {
		if seen[day] {
			out = append(out, day)
		}
	}
	return out, nil
}

func validateDate(date string) error {
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return nil
}
