package habit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tempo/backend/internal/clock"
	"tempo/backend/internal/model"
	"tempo/backend/internal/state"
)

var created = time.Date(2025, 4, 2, 7, 15, 0, 0, time.UTC)

type failingStore struct {
	state.Store
	fail bool
}

func (s *failingStore) Save(ctx context.Context, namespace string, payload []byte) error {
	if s.fail {
		return errors.New("disk full")
	}
	return s.Store.Save(ctx, namespace, payload)
}

func newTracker(t *testing.T) (*Tracker, *state.Memory) {
	t.Helper()
	store := state.NewMemory()
	tracker, err := New(context.Background(), store, clock.NewFake(created))
	require.NoError(t, err)
	return tracker, store
}

func TestAddNormalizesFields(t *testing.T) {
	tracker, _ := newTracker(t)

	h, err := tracker.Add(context.Background(), Draft{
		Name:       "  Read ",
		TargetDays: []string{"fri", "MON", "mon"},
		Unit:       " pages ",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, h.ID)
	assert.Equal(t, "Read", h.Name)
	assert.Equal(t, model.DefaultHabitColor, h.Color)
	assert.Equal(t, []string{"MON", "FRI"}, h.TargetDays)
	assert.Equal(t, "pages", h.Unit)
	assert.Equal(t, created, h.CreatedAt)
	assert.Empty(t, h.CompletedDates)
	assert.Empty(t, h.Values)

	got, err := tracker.Get(h.ID)
	require.NoError(t, err)
	assert.Equal(t, h, got)
}

func TestAddRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		draft Draft
		want  error
	}{
		{"empty name", Draft{Name: " "}, ErrEmptyName},
		{"unknown color", Draft{Name: "Run", Color: "teal"}, ErrInvalidColor},
		{"unknown day", Draft{Name: "Run", TargetDays: []string{"MON", "Funday"}}, ErrInvalidDay},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker, _ := newTracker(t)
			_, err := tracker.Add(context.Background(), tt.draft)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, tracker.List())
		})
	}
}

func TestUpdateIsPartial(t *testing.T) {
	tracker, _ := newTracker(t)
	ctx := context.Background()
	h, err := tracker.Add(ctx, Draft{Name: "Water", Color: "green", TargetDays: []string{"SUN"}, IsQuantitative: true, Unit: "l"})
	require.NoError(t, err)
	_, err = tracker.SetValue(ctx, h.ID, "2025-04-02", "1.5")
	require.NoError(t, err)

	color := "Purple"
	updated, err := tracker.Update(ctx, h.ID, Update{Color: &color})
	require.NoError(t, err)
	assert.Equal(t, "purple", updated.Color)
	assert.Equal(t, "Water", updated.Name)
	assert.Equal(t, []string{"SUN"}, updated.TargetDays)
	assert.Equal(t, "1.5", updated.Values["2025-04-02"])

	off := false
	updated, err = tracker.Update(ctx, h.ID, Update{IsQuantitative: &off, TargetDays: []string{"sat", "tue"}})
	require.NoError(t, err)
	assert.False(t, updated.IsQuantitative)
	assert.Equal(t, []string{"TUE", "SAT"}, updated.TargetDays)
	assert.Equal(t, "1.5", updated.Values["2025-04-02"])

	blank := ""
	_, err = tracker.Update(ctx, h.ID, Update{Name: &blank})
	assert.ErrorIs(t, err, ErrEmptyName)
	got, err := tracker.Get(h.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	_, err = tracker.Update(ctx, "missing", Update{Color: &color})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToggleCompletion(t *testing.T) {
	tracker, _ := newTracker(t)
	ctx := context.Background()
	h, err := tracker.Add(ctx, Draft{Name: "Stretch"})
	require.NoError(t, err)

	h, err = tracker.ToggleCompletion(ctx, h.ID, "2025-04-02")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"2025-04-02": true}, h.CompletedDates)

	h, err = tracker.ToggleCompletion(ctx, h.ID, "2025-04-02")
	require.NoError(t, err)
	assert.Empty(t, h.CompletedDates)

	_, err = tracker.ToggleCompletion(ctx, h.ID, "04/02/2025")
	assert.ErrorIs(t, err, ErrInvalidDate)
	_, err = tracker.ToggleCompletion(ctx, "missing", "2025-04-02")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetValue(t *testing.T) {
	tracker, _ := newTracker(t)
	ctx := context.Background()
	plain, err := tracker.Add(ctx, Draft{Name: "Meditate"})
	require.NoError(t, err)
	counted, err := tracker.Add(ctx, Draft{Name: "Push-ups", IsQuantitative: true, Unit: "reps"})
	require.NoError(t, err)

	_, err = tracker.SetValue(ctx, plain.ID, "2025-04-02", "10")
	assert.ErrorIs(t, err, ErrNotQuantitative)

	h, err := tracker.SetValue(ctx, counted.ID, "2025-04-02", " 40 ")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"2025-04-02": "40"}, h.Values)

	h, err = tracker.SetValue(ctx, counted.ID, "2025-04-02", "")
	require.NoError(t, err)
	assert.Empty(t, h.Values)

	_, err = tracker.SetValue(ctx, counted.ID, "2025-02-30", "1")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestRemove(t *testing.T) {
	tracker, _ := newTracker(t)
	ctx := context.Background()
	a, err := tracker.Add(ctx, Draft{Name: "A"})
	require.NoError(t, err)
	b, err := tracker.Add(ctx, Draft{Name: "B"})
	require.NoError(t, err)

	require.NoError(t, tracker.Remove(ctx, a.ID))
	assert.ErrorIs(t, tracker.Remove(ctx, a.ID), ErrNotFound)
	_, err = tracker.Get(a.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	list := tracker.List()
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)
}

func TestListReturnsCopies(t *testing.T) {
	tracker, _ := newTracker(t)
	ctx := context.Background()
	h, err := tracker.Add(ctx, Draft{Name: "Journal", TargetDays: []string{"MON"}})
	require.NoError(t, err)
	_, err = tracker.ToggleCompletion(ctx, h.ID, "2025-04-07")
	require.NoError(t, err)

	list := tracker.List()
	list[0].CompletedDates["2025-04-08"] = true
	list[0].TargetDays[0] = "SUN"

	got, err := tracker.Get(h.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"2025-04-07": true}, got.CompletedDates)
	assert.Equal(t, []string{"MON"}, got.TargetDays)
}

func TestRoundTrip(t *testing.T) {
	tracker, store := newTracker(t)
	ctx := context.Background()
	a, err := tracker.Add(ctx, Draft{Name: "Run", Color: "red", TargetDays: []string{"MON", "WED"}, IsQuantitative: true, Unit: "km"})
	require.NoError(t, err)
	_, err = tracker.SetValue(ctx, a.ID, "2025-04-02", "5")
	require.NoError(t, err)
	_, err = tracker.ToggleCompletion(ctx, a.ID, "2025-04-02")
	require.NoError(t, err)
	_, err = tracker.Add(ctx, Draft{Name: "Floss", TargetDays: []string{"SUN"}})
	require.NoError(t, err)

	reloaded, err := New(ctx, store, clock.NewFake(created))
	require.NoError(t, err)
	assert.Equal(t, tracker.List(), reloaded.List())

	payload, err := store.Load(ctx, state.NamespaceHabits)
	require.NoError(t, err)
	var raw []map[string]any
	require.NoError(t, json.Unmarshal(payload, &raw))
	require.Len(t, raw, 2)
	assert.Equal(t, "2025-04-02T07:15:00Z", raw[0]["createdAt"])
	assert.Equal(t, map[string]any{"2025-04-02": true}, raw[0]["completedDates"])
}

func TestEmptyListPersistsAsArray(t *testing.T) {
	tracker, store := newTracker(t)
	ctx := context.Background()
	h, err := tracker.Add(ctx, Draft{Name: "Once"})
	require.NoError(t, err)
	require.NoError(t, tracker.Remove(ctx, h.ID))

	payload, err := store.Load(ctx, state.NamespaceHabits)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(payload))
}

func TestSaveFailureIsReturned(t *testing.T) {
	store := &failingStore{Store: state.NewMemory()}
	tracker, err := New(context.Background(), store, clock.NewFake(created))
	require.NoError(t, err)

	store.fail = true
	h, err := tracker.Add(context.Background(), Draft{Name: "Sleep early"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save habits")

	got, err := tracker.Get(h.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sleep early", got.Name)
}
