// Package review schedules spaced-repetition items over fixed day intervals.
package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tempo/backend/internal/clock"
	"tempo/backend/internal/model"
	"tempo/backend/internal/reminder"
	"tempo/backend/internal/state"
)

var (
	ErrNotFound            = errors.New("review: item not found")
	ErrEmptyTitle          = errors.New("review: empty title")
	ErrEmptySchedule       = errors.New("review: empty schedule")
	ErrInvalidInterval     = errors.New("review: intervals must be positive days")
	ErrInvalidReminderTime = errors.New("review: reminder time must be HH:MM")
	ErrUnknownPolicy       = errors.New("review: unknown exhaustion policy")
)

// Policy decides what Complete does once an item has used up its schedule.
type Policy int

const (
	// RetireOnExhaustion removes the item after its last scheduled review.
	RetireOnExhaustion Policy = iota
	// ClampToLastInterval keeps repeating the last interval forever.
	ClampToLastInterval
)

func (p Policy) String() string {
	if p == ClampToLastInterval {
		return "clamp"
	}
	return "retire"
}

func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "retire":
		return RetireOnExhaustion, nil
	case "clamp":
		return ClampToLastInterval, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

type Options struct {
	Clock clock.Clock
	// Location resolves calendar days and reminder times of day. Defaults to time.Local.
	Location *time.Location
	Policy   Policy
}

// Update is a partial change. Nil fields are left as they are.
type Update struct {
	Title          *string    `json:"title"`
	Schedule       []int      `json:"schedule"`
	ReminderTime   *string    `json:"reminderTime"`
	NextReviewDate *time.Time `json:"nextReviewDate"`
}

type Scheduler struct {
	store    state.Store
	gateway  reminder.Gateway
	clock    clock.Clock
	location *time.Location
	policy   Policy

	mu    sync.Mutex
	items []model.ReviewItem
}

func New(ctx context.Context, store state.Store, gateway reminder.Gateway, opts Options) (*Scheduler, error) {
	if opts.Clock == nil {
		opts.Clock = clock.System
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}

	s := &Scheduler{
		store:    store,
		gateway:  gateway,
		clock:    opts.Clock,
		location: opts.Location,
		policy:   opts.Policy,
	}

	payload, err := store.Load(ctx, state.NamespaceReviews)
	switch {
	case errors.Is(err, state.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("load reviews: %w", err)
	default:
		if err := json.Unmarshal(payload, &s.items); err != nil {
			return nil, fmt.Errorf("decode reviews: %w", err)
		}
	}
	return s, nil
}

// Add creates an item due tomorrow and requests its reminder. A failed reminder
// request leaves the item without one.
func (s *Scheduler) Add(ctx context.Context, title string, schedule []int, reminderTime string) (model.ReviewItem, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.ReviewItem{}, ErrEmptyTitle
	}
	if err := validateSchedule(schedule); err != nil {
		return model.ReviewItem{}, err
	}
	if reminderTime == "" {
		reminderTime = model.DefaultReminderTime
	}
	reminderTime, err := normalizeReminderTime(reminderTime)
	if err != nil {
		return model.ReviewItem{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	item := model.ReviewItem{
		ID:             uuid.NewString(),
		Title:          title,
		CreatedAt:      now.UTC(),
		Schedule:       slices.Clone(schedule),
		NextReviewDate: s.daysFrom(now, 1),
		ReminderTime:   reminderTime,
	}
	item.ReminderID = s.scheduleReminder(ctx, item)
	s.items = append(s.items, item)

	return item.Clone(), s.persist(ctx)
}

// Update applies a partial change. Changing the schedule recomputes the next
// review date from the current review count, also when the same update sets
// NextReviewDate; any change to the schedule, the
// reminder time or the next review date replaces the reminder.
func (s *Scheduler) Update(ctx context.Context, id string, u Update) (model.ReviewItem, error) {
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return model.ReviewItem{}, ErrEmptyTitle
	}
	if u.Schedule != nil {
		if err := validateSchedule(u.Schedule); err != nil {
			return model.ReviewItem{}, err
		}
	}
	var reminderTime string
	if u.ReminderTime != nil {
		normalized, err := normalizeReminderTime(*u.ReminderTime)
		if err != nil {
			return model.ReviewItem{}, err
		}
		reminderTime = normalized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return model.ReviewItem{}, ErrNotFound
	}
	item := s.items[idx].Clone()

	reschedule := false
	if u.Title != nil {
		item.Title = strings.TrimSpace(*u.Title)
	}
	if u.NextReviewDate != nil && !u.NextReviewDate.Equal(item.NextReviewDate) {
		item.NextReviewDate = u.NextReviewDate.UTC()
		reschedule = true
	}
	// A changed schedule recomputes the date and overrides NextReviewDate.
	if u.Schedule != nil && !slices.Equal(u.Schedule, item.Schedule) {
		item.Schedule = slices.Clone(u.Schedule)
		interval := item.Schedule[min(item.ReviewCount, len(item.Schedule)-1)]
		item.NextReviewDate = s.daysFrom(s.clock.Now(), interval)
		reschedule = true
	}
	if u.ReminderTime != nil && reminderTime != item.ReminderTime {
		item.ReminderTime = reminderTime
		reschedule = true
	}

	if reschedule {
		s.cancelReminder(ctx, item.ReminderID)
		item.ReminderID = s.scheduleReminder(ctx, item)
	}
	s.items[idx] = item

	return item.Clone(), s.persist(ctx)
}

func (s *Scheduler) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return ErrNotFound
	}
	s.cancelReminder(ctx, s.items[idx].ReminderID)
	s.items = slices.Delete(s.items, idx, idx+1)
	return s.persist(ctx)
}

// Complete records a finished review. retired reports that the item used up its
// schedule and was removed; item is then its final state.
func (s *Scheduler) Complete(ctx context.Context, id string) (item model.ReviewItem, retired bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return model.ReviewItem{}, false, ErrNotFound
	}
	item = s.items[idx].Clone()
	count := item.ReviewCount + 1

	if count >= len(item.Schedule) {
		if s.policy == RetireOnExhaustion {
			s.cancelReminder(ctx, item.ReminderID)
			s.items = slices.Delete(s.items, idx, idx+1)
			item.ReviewCount = count
			item.ReminderID = ""
			return item, true, s.persist(ctx)
		}
		count = len(item.Schedule)
	}

	interval := item.Schedule[min(count, len(item.Schedule)-1)]
	previousID := item.ReminderID
	item.ReviewCount = count
	item.NextReviewDate = s.daysFrom(s.clock.Now(), interval)

	s.cancelReminder(ctx, previousID)
	if newID := s.scheduleReminder(ctx, item); newID != "" {
		item.ReminderID = newID
	}
	s.items[idx] = item

	return item.Clone(), false, s.persist(ctx)
}

func (s *Scheduler) Get(id string) (model.ReviewItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return model.ReviewItem{}, ErrNotFound
	}
	return s.items[idx].Clone(), nil
}

// List returns every item ordered by next review date.
func (s *Scheduler) List() []model.ReviewItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.ReviewItem, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item.Clone())
	}
	slices.SortStableFunc(out, func(a, b model.ReviewItem) int {
		return a.NextReviewDate.Compare(b.NextReviewDate)
	})
	return out
}

// Due returns the items whose next review falls on or before the calendar day of now.
func (s *Scheduler) Due(now time.Time) []model.ReviewItem {
	local := now.In(s.location)
	tomorrow := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, s.location)

	var due []model.ReviewItem
	for _, item := range s.List() {
		if item.NextReviewDate.Before(tomorrow) {
			due = append(due, item)
		}
	}
	return due
}

// DueToday is Due at the scheduler clock's current time.
func (s *Scheduler) DueToday() []model.ReviewItem {
	return s.Due(s.clock.Now())
}

// Resync replaces every item's reminder. Used at startup when reminders held
// by a previous process are gone.
func (s *Scheduler) Resync(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		s.cancelReminder(ctx, s.items[i].ReminderID)
		s.items[i].ReminderID = s.scheduleReminder(ctx, s.items[i])
	}
	return s.persist(ctx)
}

func (s *Scheduler) indexOf(id string) int {
	return slices.IndexFunc(s.items, func(item model.ReviewItem) bool {
		return item.ID == id
	})
}

func (s *Scheduler) daysFrom(now time.Time, days int) time.Time {
	return now.In(s.location).AddDate(0, 0, days).UTC()
}

// reminderAt places the reminder at HH:MM on the calendar day of the next review.
func (s *Scheduler) reminderAt(item model.ReviewItem) time.Time {
	day := item.NextReviewDate.In(s.location)
	hour, minute, err := parseReminderTime(item.ReminderTime)
	if err != nil {
		hour, minute, _ = parseReminderTime(model.DefaultReminderTime)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, s.location)
}

func (s *Scheduler) scheduleReminder(ctx context.Context, item model.ReviewItem) string {
	req := reminder.Request{
		At:      s.reminderAt(item),
		Title:   "Time to review",
		Body:    fmt.Sprintf("Don't forget to review %q today", item.Title),
		Channel: reminder.ChannelReview,
		Metadata: map[string]string{
			"type":   reminder.ChannelReview,
			"itemId": item.ID,
		},
	}
	id, err := reminder.ScheduleID(ctx, s.gateway, req)
	if err != nil {
		log.Printf("Warning: failed to schedule review reminder for %s: %v", item.ID, err)
		return ""
	}
	return id
}

func (s *Scheduler) cancelReminder(ctx context.Context, id string) {
	if id == "" {
		return
	}
	if err := s.gateway.Cancel(ctx, id); err != nil {
		log.Printf("Warning: failed to cancel reminder %s: %v", id, err)
	}
}

func (s *Scheduler) persist(ctx context.Context) error {
	items := s.items
	if items == nil {
		items = []model.ReviewItem{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode reviews: %w", err)
	}
	if err := s.store.Save(ctx, state.NamespaceReviews, payload); err != nil {
		return fmt.Errorf("save reviews: %w", err)
	}
	return nil
}

func validateSchedule(schedule []int) error {
	if len(schedule) == 0 {
		return ErrEmptySchedule
	}
	for _, days := range schedule {
		if days <= 0 {
			return fmt.Errorf("%w: got %d", ErrInvalidInterval, days)
		}
	}
	return nil
}

func normalizeReminderTime(value string) (string, error) {
	hour, minute, err := parseReminderTime(value)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

func parseReminderTime(value string) (int, int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidReminderTime, value)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidReminderTime, value)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidReminderTime, value)
	}
	return hour, minute, nil
}
